// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/en"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/pkg/pointer"
)

// # Date Information

// DateInfo is the calendar reference recognised in one query. It is built
// fresh for every call and never shared.
type DateInfo struct {
	HasDate bool `json:"has_date"`

	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"` // 1-12
	Day   *int `json:"day,omitempty"`

	IsRange   bool       `json:"is_range"`
	StartDate *time.Time `json:"start_date,omitempty"` // inclusive
	EndDate   *time.Time `json:"end_date,omitempty"`   // inclusive

	// RemainingText is the query with every recognised date phrase removed.
	RemainingText string `json:"remaining_text"`

	// Phrase is the removed text, in source order.
	Phrase string `json:"phrase,omitempty"`
}

// HasMonthDay reports whether both month and day were recognised.
func (info DateInfo) HasMonthDay() bool {
	return info.Month != nil && info.Day != nil
}

// HasYearScope reports whether the query is bounded by a year or a range.
func (info DateInfo) HasYearScope() bool {
	return info.Year != nil || info.IsRange
}

// CandidateFilter narrows a catalogue scan to the recognised year or range.
func (info DateInfo) CandidateFilter() catalog.CandidateFilter {
	if info.IsRange {
		return catalog.CandidateFilter{Year: info.Year, From: info.StartDate, To: info.EndDate}
	}
	return catalog.CandidateFilter{Year: info.Year}
}

// EventFilter matches events against every recognised component.
func (info DateInfo) EventFilter() catalog.EventFilter {
	return catalog.EventFilter{
		Year:  info.Year,
		Month: info.Month,
		Day:   info.Day,
		From:  info.StartDate,
		To:    info.EndDate,
	}
}

// # Extraction

const yearPattern = `(?:19|20)\d{2}`

var (
	monthDayYearPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`)
	monthDayPattern     = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	bareYearPattern     = regexp.MustCompile(`\b` + yearPattern + `\b`)
	relativePattern     = regexp.MustCompile(`(?i)\b(next|last|this)\s+(month|year)\b`)
	keywordYearPattern  = regexp.MustCompile(`(?i)\b(between|from|since|until|through)\s+(` + yearPattern + `)\b`)
	yearRangePattern    = regexp.MustCompile(`(?i)\b(?:(between|from)\s+)?(` + yearPattern + `)\s*(?:\s(and|to|through|until)\s|-)\s*(` + yearPattern + `)\b`)

	// relativeAnchor guards natural-language parser hits: a bare "Sun" or "Wed"
	// is far more likely part of a name than a weekday.
	relativeAnchor = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow|yesterday|next|last|this|ago|within|days?|weeks?)\b`)
)

// DateExtractor recognises calendar references in free text and splits them
// from the remainder. It is safe for concurrent use.
type DateExtractor struct {
	lexicon *Lexicon
	now     func() time.Time
	parser  *when.Parser

	monthRange   *regexp.Regexp
	monthDayName *regexp.Regexp
	dayMonthName *regexp.Regexp
	monthYear    *regexp.Regexp
	weekendOf    *regexp.Regexp
	monthName    *regexp.Regexp
}

// NewDateExtractor builds an extractor whose relative phrases ("next month",
// "tomorrow") resolve against now. A nil now uses the wall clock.
func NewDateExtractor(lexicon *Lexicon, now func() time.Time) *DateExtractor {
	if now == nil {
		now = time.Now
	}

	parser := when.New(nil)
	parser.Add(
		en.CasualDate(rules.Override),
		en.Weekday(rules.Override),
		en.Deadline(rules.Override),
		en.PastTime(rules.Override),
	)

	month := `(` + lexicon.monthAlternation(true) + `)\.?`
	year := `(` + yearPattern + `)`

	return &DateExtractor{
		lexicon: lexicon,
		now:     now,
		parser:  parser,

		monthRange:   regexp.MustCompile(`(?i)\b(?:(between|from)\s+)?` + month + `(?:\s+` + year + `)?\s*(?:\s(and|to|through|until)\s|-)\s*` + month + `(?:,?\s+` + year + `)?\b`),
		monthDayName: regexp.MustCompile(`(?i)\b` + month + `\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+` + year + `\b)?`),
		dayMonthName: regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + month + `(?:,?\s+` + year + `\b)?`),
		monthYear:    regexp.MustCompile(`(?i)\b(?:(between|from|since|until|through)\s+)?` + month + `,?\s+` + year + `\b`),
		weekendOf:    regexp.MustCompile(`(?i)\bweekend\s+of\s+` + month),
		monthName:    regexp.MustCompile(`(?i)\b(` + lexicon.monthAlternation(false) + `)\b`),
	}
}

// span is a recognised date phrase as byte offsets into the source text.
type span struct {
	start, end int
}

/*
Extract recognises the date portion of text.

Description: Recognition stops at the first matching step:
 1. M/D/Y with a two or four digit year (two digits window to 1950-2049).
 2. M/D without a year.
 3. Natural language: month and year ranges, spelled-out dates, relative phrases.
 4. A bare 19xx/20xx year at a word boundary.
 5. A full month name at a word boundary.

Afterwards every remaining year-like token is stripped. The year written
first in the query always wins, even over a year inside the recognised phrase.

Parameters:
  - text: string (A cleaned query)

Returns:
  - DateInfo: Always populated; HasDate is false when nothing was recognised
*/
func (extractor *DateExtractor) Extract(text string) DateInfo {
	info := DateInfo{RemainingText: text}
	now := extractor.now()

	steps := []func(string, time.Time, *DateInfo) *span{
		extractor.explicitDate,
		extractor.explicitMonthDay,
		extractor.naturalLanguage,
		extractor.bareYear,
		extractor.bareMonth,
	}

	var phrases []string
	for _, step := range steps {
		if found := step(text, now, &info); found != nil {
			info.HasDate = true
			phrases = append(phrases, strings.TrimFunc(text[found.start:found.end], isPadding))
			info.RemainingText = excise(text, [][]int{{found.start, found.end}})

			// A year written before the phrase is the first year of the query.
			if info.Year != nil && !info.IsRange {
				if loc := bareYearPattern.FindStringIndex(text); loc != nil && loc[1] <= found.start {
					info.Year = pointer.To(atoi(text, loc[0], loc[1]))
				}
			}
			break
		}
	}

	// Additional years never leak into artist or venue matching.
	remaining := info.RemainingText
	if years := bareYearPattern.FindAllStringIndex(remaining, -1); len(years) > 0 {
		if info.Year == nil && !info.IsRange {
			info.Year = pointer.To(atoi(remaining, years[0][0], years[0][1]))
		}
		info.HasDate = true
		for _, loc := range years {
			phrases = append(phrases, remaining[loc[0]:loc[1]])
		}
		remaining = excise(remaining, years)
	}

	info.RemainingText = collapse(remaining)
	info.Phrase = strings.Join(phrases, " ")

	return info
}

// explicitDate recognises M/D/Y.
func (extractor *DateExtractor) explicitDate(text string, _ time.Time, info *DateInfo) *span {
	for _, match := range monthDayYearPattern.FindAllStringSubmatchIndex(text, -1) {
		month := atoi(text, match[2], match[3])
		day := atoi(text, match[4], match[5])
		year := atoi(text, match[6], match[7])

		if match[7]-match[6] == 2 {
			year = windowYear(year)
		}
		if !validDate(year, month, day) {
			continue
		}

		info.Year, info.Month, info.Day = pointer.To(year), pointer.To(month), pointer.To(day)
		return &span{match[0], match[1]}
	}
	return nil
}

// explicitMonthDay recognises M/D that is not part of a longer slash run.
func (extractor *DateExtractor) explicitMonthDay(text string, _ time.Time, info *DateInfo) *span {
	for _, match := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		if (match[0] > 0 && text[match[0]-1] == '/') || (match[1] < len(text) && text[match[1]] == '/') {
			continue
		}

		month := atoi(text, match[2], match[3])
		day := atoi(text, match[4], match[5])

		// 2000 is a leap year, so 2/29 is accepted.
		if !validDate(2000, month, day) {
			continue
		}

		info.Month, info.Day = pointer.To(month), pointer.To(day)
		return &span{match[0], match[1]}
	}
	return nil
}

// naturalLanguage tries the spelled-out forms in decreasing specificity.
func (extractor *DateExtractor) naturalLanguage(text string, now time.Time, info *DateInfo) *span {
	attempts := []func(string, time.Time, *DateInfo) *span{
		extractor.monthRangeRule,
		yearRangeRule,
		extractor.monthDayRule,
		extractor.monthYearRule,
		keywordYearRule,
		relativeRule,
		extractor.weekendRule,
		extractor.parserRule,
	}

	for _, attempt := range attempts {
		if found := attempt(text, now, info); found != nil {
			return found
		}
	}
	return nil
}

// monthRangeRule recognises "between June and August 2025", "from June to August", "june-august".
func (extractor *DateExtractor) monthRangeRule(text string, now time.Time, info *DateInfo) *span {
	for _, match := range extractor.monthRange.FindAllStringSubmatchIndex(text, -1) {
		keyword := strings.ToLower(group(text, match, 1))
		connective := strings.ToLower(group(text, match, 4))
		if connective == "and" && keyword != "between" {
			continue
		}

		first, _ := extractor.lexicon.Month(group(text, match, 2))
		last, _ := extractor.lexicon.Month(group(text, match, 5))
		firstYear := optionalYear(text, match, 3)
		lastYear := optionalYear(text, match, 6)

		var startYear, endYear int
		switch {
		case lastYear != nil:
			endYear = *lastYear
			startYear = endYear
			if firstYear != nil {
				startYear = *firstYear
			} else if last < first {
				startYear--
			}
		case firstYear != nil:
			startYear = *firstYear
			endYear = startYear
			if last < first {
				endYear++
			}
		default:
			startYear = now.Year()
			endYear = startYear
			if last < first {
				endYear++
			}
		}
		if endYear < startYear {
			continue
		}

		start := firstOfMonth(startYear, first)
		end := lastOfMonth(endYear, last)
		info.IsRange, info.StartDate, info.EndDate = true, &start, &end

		if (firstYear != nil || lastYear != nil) && startYear == endYear {
			info.Year = pointer.To(startYear)
		}
		if first == last && startYear == endYear {
			info.Month = pointer.To(first)
		}

		return &span{match[0], match[1]}
	}
	return nil
}

// yearRangeRule recognises "1995-1997" and "between 1995 and 1997".
func yearRangeRule(text string, _ time.Time, info *DateInfo) *span {
	for _, match := range yearRangePattern.FindAllStringSubmatchIndex(text, -1) {
		keyword := strings.ToLower(group(text, match, 1))
		connective := strings.ToLower(group(text, match, 3))
		if connective == "and" && keyword != "between" {
			continue
		}

		first := atoi(text, match[4], match[5])
		last := atoi(text, match[8], match[9])
		if last < first {
			continue
		}

		start := firstOfMonth(first, 1)
		end := lastOfMonth(last, 12)
		info.IsRange, info.StartDate, info.EndDate = true, &start, &end
		if first == last {
			info.Year = pointer.To(first)
		}

		return &span{match[0], match[1]}
	}
	return nil
}

// monthDayRule recognises "December 31", "Dec 31st, 2024" and "31st of December".
func (extractor *DateExtractor) monthDayRule(text string, _ time.Time, info *DateInfo) *span {
	type layout struct {
		pattern           *regexp.Regexp
		month, day, year int
	}

	for _, candidate := range []layout{
		{extractor.monthDayName, 1, 2, 3},
		{extractor.dayMonthName, 2, 1, 3},
	} {
		for _, match := range candidate.pattern.FindAllStringSubmatchIndex(text, -1) {
			month, _ := extractor.lexicon.Month(group(text, match, candidate.month))
			day, err := strconv.Atoi(group(text, match, candidate.day))
			if err != nil {
				continue
			}

			year := optionalYear(text, match, candidate.year)
			if !validDate(pointer.Fallback(year, 2000), month, day) {
				continue
			}

			info.Year, info.Month, info.Day = year, pointer.To(month), pointer.To(day)
			return &span{match[0], match[1]}
		}
	}
	return nil
}

// monthYearRule recognises "June 2025". A leading range keyword ("since June
// 2025") turns it into a range over that month.
func (extractor *DateExtractor) monthYearRule(text string, _ time.Time, info *DateInfo) *span {
	match := extractor.monthYear.FindStringSubmatchIndex(text)
	if match == nil {
		return nil
	}

	month, _ := extractor.lexicon.Month(group(text, match, 2))
	year := atoi(text, match[6], match[7])
	info.Year, info.Month = pointer.To(year), pointer.To(month)

	if group(text, match, 1) != "" {
		start, end := firstOfMonth(year, month), lastOfMonth(year, month)
		info.IsRange, info.StartDate, info.EndDate = true, &start, &end
	}

	return &span{match[0], match[1]}
}

// keywordYearRule recognises "since 1995", which ranges over that year.
func keywordYearRule(text string, _ time.Time, info *DateInfo) *span {
	match := keywordYearPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return nil
	}

	year := atoi(text, match[4], match[5])
	start, end := firstOfMonth(year, 1), lastOfMonth(year, 12)
	info.Year = pointer.To(year)
	info.IsRange, info.StartDate, info.EndDate = true, &start, &end

	return &span{match[0], match[1]}
}

// relativeRule recognises "next month", "last year" and "this month".
func relativeRule(text string, now time.Time, info *DateInfo) *span {
	match := relativePattern.FindStringSubmatchIndex(text)
	if match == nil {
		return nil
	}

	offset := 0
	switch strings.ToLower(group(text, match, 1)) {
	case "next":
		offset = 1
	case "last":
		offset = -1
	}

	if strings.EqualFold(group(text, match, 2), "year") {
		info.Year = pointer.To(now.Year() + offset)
	} else {
		target := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
		info.Year, info.Month = pointer.To(target.Year()), pointer.To(int(target.Month()))
	}

	return &span{match[0], match[1]}
}

// weekendRule keeps the month of "weekend of <month>".
func (extractor *DateExtractor) weekendRule(text string, _ time.Time, info *DateInfo) *span {
	match := extractor.weekendOf.FindStringSubmatchIndex(text)
	if match == nil {
		return nil
	}

	month, _ := extractor.lexicon.Month(group(text, match, 1))
	info.Month = pointer.To(month)

	return &span{match[0], match[1]}
}

// parserRule hands casual phrases ("tomorrow", "next friday", "in 2 weeks")
// to the natural-language parser.
func (extractor *DateExtractor) parserRule(text string, now time.Time, info *DateInfo) *span {
	result, err := extractor.parser.Parse(text, now)
	if err != nil || result == nil || !relativeAnchor.MatchString(result.Text) {
		return nil
	}

	date := result.Time
	info.Year, info.Month, info.Day = pointer.To(date.Year()), pointer.To(int(date.Month())), pointer.To(date.Day())

	return &span{result.Index, result.Index + len(result.Text)}
}

// bareYear recognises the first standalone 19xx/20xx year.
func (extractor *DateExtractor) bareYear(text string, _ time.Time, info *DateInfo) *span {
	loc := bareYearPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	info.Year = pointer.To(atoi(text, loc[0], loc[1]))
	return &span{loc[0], loc[1]}
}

// bareMonth recognises a full month name as a whole word.
func (extractor *DateExtractor) bareMonth(text string, _ time.Time, info *DateInfo) *span {
	match := extractor.monthName.FindStringSubmatchIndex(text)
	if match == nil {
		return nil
	}

	month, _ := extractor.lexicon.Month(group(text, match, 1))
	info.Month = pointer.To(month)

	return &span{match[0], match[1]}
}

// # Helpers

func group(text string, match []int, index int) string {
	if 2*index+1 >= len(match) || match[2*index] < 0 {
		return ""
	}
	return text[match[2*index]:match[2*index+1]]
}

func optionalYear(text string, match []int, index int) *int {
	raw := group(text, match, index)
	if raw == "" {
		return nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &year
}

func atoi(text string, start, end int) int {
	value, _ := strconv.Atoi(text[start:end])
	return value
}

// windowYear maps a two digit year onto 1950-2049.
func windowYear(year int) int {
	if year < 50 {
		return 2000 + year
	}
	return 1900 + year
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return date.Month() == time.Month(month) && date.Day() == day
}

func firstOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func lastOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// cutMark stands in for a removed date phrase until the text is collapsed.
const cutMark = "\x00"

// excise replaces every span of text with a cut mark.
func excise(text string, spans [][]int) string {
	var b strings.Builder
	last := 0
	for _, loc := range spans {
		b.WriteString(text[last:loc[0]])
		b.WriteString(" " + cutMark + " ")
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// collapse joins the words of s with single spaces. Separator-only words
// touching a cut mark ("-", "(", ",") are leftovers of the removed phrase;
// every other word is kept.
func collapse(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for i, word := range words {
		if word == cutMark || (isRemnant(word) && touchesCut(words, i)) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// touchesCut reports whether only remnants lie between words[i] and a cut mark.
func touchesCut(words []string, i int) bool {
	for j := i - 1; j >= 0 && (words[j] == cutMark || isRemnant(words[j])); j-- {
		if words[j] == cutMark {
			return true
		}
	}
	for j := i + 1; j < len(words) && (words[j] == cutMark || isRemnant(words[j])); j++ {
		if words[j] == cutMark {
			return true
		}
	}
	return false
}

func isRemnant(word string) bool {
	for _, r := range word {
		if !unicode.In(r, unicode.Pd, unicode.Ps, unicode.Pe) && !strings.ContainsRune(",;:/.@", r) {
			return false
		}
	}
	return word != ""
}

func isPadding(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
