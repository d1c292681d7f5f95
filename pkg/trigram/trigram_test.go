// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package trigram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/gigposter/pkg/trigram"
)

/*
TestSimilarity checks scores against known pg_trgm outputs.
*/
func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "Phish", "phish", 1},
		{"misspelled", "phsh", "Phish", 0.375},
		{"disjoint", "seattle", "boston", 0},
		{"empty", "", "phish", 0},
		{"punctuation_only", "!!", "phish", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, trigram.Similarity(tt.a, tt.b), 0.0001)
		})
	}
}

/*
TestSimilarity_Symmetric verifies argument order does not change the score.
*/
func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Grateful Dead", "grateful dead seattle"},
		{"New York", "New York City"},
		{"Madison Square Garden", "garden"},
	}

	for _, pair := range pairs {
		assert.Equal(t, trigram.Similarity(pair[0], pair[1]), trigram.Similarity(pair[1], pair[0]))
	}
}

/*
TestWordSimilarity ensures a short needle matches inside a long field.
*/
func TestWordSimilarity(t *testing.T) {
	description := "Limited screen print for the New Year's Eve run at Madison Square Garden"

	assert.Equal(t, 1.0, trigram.WordSimilarity("madison square garden", description))
	assert.Greater(t, trigram.WordSimilarity("madison square garden", description),
		trigram.Similarity("madison square garden", description))
	assert.Zero(t, trigram.WordSimilarity("", description))
}

/*
TestWords covers the tokenisation shared with pg_trgm.
*/
func TestWords(t *testing.T) {
	assert.Equal(t, []string{"ac", "dc", "live"}, trigram.Words("AC/DC -- Live!"))
	assert.Empty(t, trigram.Words("  ...  "))
}
