// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/gigposter/internal/platform/constants"
	"github.com/taibuivan/gigposter/pkg/slug"
)

// # Text Normalisation

// Clean trims raw and collapses internal whitespace. It reports false when
// the result is too short to be worth resolving.
func Clean(raw string) (string, bool) {
	cleaned := strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(cleaned) < constants.SearchMinQueryLength {
		return "", false
	}
	return cleaned, true
}

// RemoveStopWords drops stop words token by token. When filtering would leave
// fewer than two characters, text is returned unchanged.
func (lexicon *Lexicon) RemoveStopWords(text string) string {
	var kept []string
	for _, token := range strings.Fields(text) {
		if !lexicon.IsStopWord(token) {
			kept = append(kept, token)
		}
	}

	filtered := strings.Join(kept, " ")
	if utf8.RuneCountInString(filtered) < constants.SearchMinQueryLength {
		return text
	}
	return filtered
}

// SpellingVariants returns alternate lowercase spellings of text for tokens
// joined by punctuation ("AC/DC", "R.E.M.") or written as all-caps
// abbreviations ("REM"), plus an accent-folded form ("Sigur Rós").
// The lowercase original itself is never included.
func SpellingVariants(text string) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	joined := make([]string, len(tokens))
	spaced := make([]string, len(tokens))
	dotted := make([]string, len(tokens))

	for i, token := range tokens {
		joined[i] = strings.ToLower(strings.Map(dropSeparator, token))
		spaced[i] = strings.ToLower(strings.Join(strings.FieldsFunc(token, isSeparator), " "))
		dotted[i] = strings.ToLower(token)

		if isAbbreviation(token) {
			dotted[i] = strings.ToLower(strings.Join(strings.Split(token, ""), ".")) + "."
		}
	}

	original := strings.ToLower(strings.Join(tokens, " "))
	folded := strings.ReplaceAll(slug.From(text), "-", " ")

	var variants []string
	for _, candidate := range []string{
		strings.Join(joined, " "),
		strings.Join(spaced, " "),
		strings.Join(dotted, " "),
		folded,
	} {
		candidate = strings.Join(strings.Fields(candidate), " ")
		if utf8.RuneCountInString(candidate) < constants.SearchMinQueryLength || candidate == original {
			continue
		}
		if !slices.Contains(variants, candidate) {
			variants = append(variants, candidate)
		}
	}

	return variants
}

// isSeparator reports punctuation that joins the parts of a name, like the
// slash in AC/DC or the dots in R.E.M.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}

func dropSeparator(r rune) rune {
	if isSeparator(r) {
		return -1
	}
	return r
}

// isAbbreviation reports an all-caps run of 2-5 letters such as "REM" or "MGMT".
func isAbbreviation(token string) bool {
	count := utf8.RuneCountInString(token)
	if count < 2 || count > 5 {
		return false
	}
	for _, r := range token {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
