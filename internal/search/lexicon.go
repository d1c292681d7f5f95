// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed lexicon.toml
var embeddedLexicon []byte

// defaultLexicon parses the embedded tables exactly once per process.
var defaultLexicon = sync.OnceValue(func() *Lexicon {
	lexicon, err := ParseLexicon(embeddedLexicon)
	if err != nil {
		panic("search: embedded lexicon is invalid: " + err.Error())
	}
	return lexicon
})

// # Lexicon

// Lexicon holds the read-only vocabulary used by normalisation, date
// extraction and term classification. A Lexicon is never mutated after
// construction and can be shared by any number of engines.
type Lexicon struct {
	stopWords     map[string]struct{}
	venueKeywords []string
	cities        map[string]struct{}

	// multiWordCities is sorted longest first so "new york city" wins over "new york".
	multiWordCities []*regexp.Regexp

	// months maps full names and aliases to 1-12.
	months     map[string]int
	monthNames [12]string
}

type lexiconFile struct {
	StopWords       []string      `toml:"stop_words"`
	VenueKeywords   []string      `toml:"venue_keywords"`
	Cities          []string      `toml:"cities"`
	MultiWordCities []string      `toml:"multi_word_cities"`
	Months          []monthRecord `toml:"months"`
}

type monthRecord struct {
	Name    string   `toml:"name"`
	Number  int      `toml:"number"`
	Aliases []string `toml:"aliases"`
}

// DefaultLexicon returns the lexicon compiled into the binary.
func DefaultLexicon() *Lexicon {
	return defaultLexicon()
}

// LoadLexicon reads a replacement lexicon from a TOML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("search: reading lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates a TOML lexicon document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var file lexiconFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("search: decoding lexicon: %w", err)
	}

	lexicon := &Lexicon{
		stopWords: make(map[string]struct{}, len(file.StopWords)),
		cities:    make(map[string]struct{}, len(file.Cities)),
		months:    make(map[string]int, len(file.Months)*2),
	}

	for _, word := range file.StopWords {
		lexicon.stopWords[strings.ToLower(word)] = struct{}{}
	}
	for _, city := range file.Cities {
		lexicon.cities[strings.ToLower(city)] = struct{}{}
	}
	for _, keyword := range file.VenueKeywords {
		lexicon.venueKeywords = append(lexicon.venueKeywords, strings.ToLower(keyword))
	}

	cities := slices.Clone(file.MultiWordCities)
	slices.SortStableFunc(cities, func(a, b string) int {
		return len(b) - len(a)
	})
	for _, city := range cities {
		words := strings.Fields(strings.ToLower(city))
		for i, word := range words {
			words[i] = regexp.QuoteMeta(word)
		}
		pattern := `(?i)\b` + strings.Join(words, `\s+`) + `\b`
		lexicon.multiWordCities = append(lexicon.multiWordCities, regexp.MustCompile(pattern))
	}

	if len(file.Months) != 12 {
		return nil, fmt.Errorf("search: lexicon must define 12 months, got %d", len(file.Months))
	}
	for _, month := range file.Months {
		if month.Number < 1 || month.Number > 12 {
			return nil, fmt.Errorf("search: month %q has invalid number %d", month.Name, month.Number)
		}
		if lexicon.monthNames[month.Number-1] != "" {
			return nil, fmt.Errorf("search: month %d defined twice", month.Number)
		}

		name := strings.ToLower(month.Name)
		lexicon.monthNames[month.Number-1] = name
		lexicon.months[name] = month.Number
		for _, alias := range month.Aliases {
			lexicon.months[strings.ToLower(alias)] = month.Number
		}
	}

	return lexicon, nil
}

// IsStopWord reports whether word is dropped by [Lexicon.RemoveStopWords].
func (lexicon *Lexicon) IsStopWord(word string) bool {
	_, ok := lexicon.stopWords[strings.ToLower(word)]
	return ok
}

// IsCity reports whether word is a known single-word city.
func (lexicon *Lexicon) IsCity(word string) bool {
	_, ok := lexicon.cities[strings.ToLower(word)]
	return ok
}

// HasVenueKeyword reports whether text mentions a venue keyword as a whole word.
func (lexicon *Lexicon) HasVenueKeyword(text string) bool {
	padded := " " + strings.Join(strings.Fields(strings.ToLower(text)), " ") + " "
	for _, keyword := range lexicon.venueKeywords {
		if strings.Contains(padded, " "+keyword+" ") {
			return true
		}
	}
	return false
}

// MultiWordCity finds the first known multi-word city in text. The returned
// bounds index into text; ok is false when no city is present.
func (lexicon *Lexicon) MultiWordCity(text string) (start, end int, ok bool) {
	for _, city := range lexicon.multiWordCities {
		if loc := city.FindStringIndex(text); loc != nil {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// Month returns the 1-based month number for a full name or alias.
func (lexicon *Lexicon) Month(word string) (int, bool) {
	number, ok := lexicon.months[strings.TrimSuffix(strings.ToLower(word), ".")]
	return number, ok
}

// MonthNames returns the full month names, January first.
func (lexicon *Lexicon) MonthNames() []string {
	return slices.Clone(lexicon.monthNames[:])
}

// monthAlternation returns a regexp alternation of every month word, longest first.
func (lexicon *Lexicon) monthAlternation(includeAliases bool) string {
	var words []string
	if includeAliases {
		for word := range lexicon.months {
			words = append(words, regexp.QuoteMeta(word))
		}
	} else {
		for _, name := range lexicon.monthNames {
			words = append(words, regexp.QuoteMeta(name))
		}
	}

	slices.SortFunc(words, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	return strings.Join(words, "|")
}
