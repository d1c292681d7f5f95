// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package trigram computes string similarity the same way PostgreSQL's pg_trgm
extension does, so that in-process scoring and SQL-side filtering agree.

Algorithm:

  - Lowercase the input and split it into words on any non-alphanumeric rune.
  - Pad every word with two leading spaces and one trailing space.
  - Collect the distinct 3-rune shingles of every padded word.
  - Similarity is |A ∩ B| / |A ∪ B| over the two trigram sets.

Usage:

	trigram.Similarity("phsh", "Phish") // 0.375
*/
package trigram

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// Set is a distinct collection of trigrams.
type Set map[string]struct{}

// Words splits s into lowercase alphanumeric words.
func Words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Of returns the trigram set of s.
func Of(s string) Set {
	set := make(Set)
	for _, word := range Words(s) {
		for gram := range edlib.Shingle("  "+word+" ", 3) {
			set[gram] = struct{}{}
		}
	}
	return set
}

// Similarity returns the pg_trgm similarity of a and b in [0, 1].
func Similarity(a, b string) float64 {
	return Compare(Of(a), Of(b))
}

// Compare returns the Jaccard overlap of two precomputed trigram sets.
func Compare(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := 0
	for gram := range a {
		if _, ok := b[gram]; ok {
			shared++
		}
	}

	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

// WordSimilarity returns the best similarity between needle and any run of
// consecutive words in haystack whose length is close to needle's word count.
//
// It is meant for long fields (descriptions, titles) where plain similarity
// is diluted by unrelated words.
func WordSimilarity(needle, haystack string) float64 {
	needleWords := Words(needle)
	hayWords := Words(haystack)
	if len(needleWords) == 0 || len(hayWords) == 0 {
		return 0
	}

	target := Of(needle)
	best := 0.0

	for width := len(needleWords) - 1; width <= len(needleWords)+1; width++ {
		if width < 1 || width > len(hayWords) {
			continue
		}
		for start := 0; start+width <= len(hayWords); start++ {
			window := strings.Join(hayWords[start:start+width], " ")
			if score := Compare(target, Of(window)); score > best {
				best = score
			}
		}
	}

	return best
}
