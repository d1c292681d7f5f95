// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gigposter/internal/search"
)

const monthsTOML = `
[[months]]
name = "January"
number = 1
aliases = ["jan"]
[[months]]
name = "February"
number = 2
[[months]]
name = "March"
number = 3
[[months]]
name = "April"
number = 4
[[months]]
name = "May"
number = 5
[[months]]
name = "June"
number = 6
[[months]]
name = "July"
number = 7
[[months]]
name = "August"
number = 8
[[months]]
name = "September"
number = 9
aliases = ["sep", "sept"]
[[months]]
name = "October"
number = 10
[[months]]
name = "November"
number = 11
[[months]]
name = "December"
number = 12
aliases = ["dec"]
`

/*
TestDefaultLexicon checks the embedded vocabulary.
*/
func TestDefaultLexicon(t *testing.T) {
	lexicon := search.DefaultLexicon()

	assert.Same(t, lexicon, search.DefaultLexicon())

	assert.True(t, lexicon.IsStopWord("THE"))
	assert.False(t, lexicon.IsStopWord("phish"))

	assert.True(t, lexicon.IsCity("Seattle"))
	assert.False(t, lexicon.IsCity("York"))

	assert.True(t, lexicon.HasVenueKeyword("Madison Square Garden"))
	assert.False(t, lexicon.HasVenueKeyword("Gardening Club-less"))
	assert.True(t, lexicon.HasVenueKeyword("the Music  Hall"))

	assert.Len(t, lexicon.MonthNames(), 12)
	assert.Equal(t, "january", lexicon.MonthNames()[0])
}

/*
TestLexicon_Month resolves full names and aliases to 1-12.
*/
func TestLexicon_Month(t *testing.T) {
	lexicon := search.DefaultLexicon()

	tests := []struct {
		word   string
		number int
		ok     bool
	}{
		{"January", 1, true},
		{"sept", 9, true},
		{"Dec.", 12, true},
		{"decemberfest", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			number, ok := lexicon.Month(tt.word)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.number, number)
		})
	}
}

/*
TestLexicon_MultiWordCity returns byte bounds of the longest matching city.
*/
func TestLexicon_MultiWordCity(t *testing.T) {
	lexicon := search.DefaultLexicon()

	text := "Phish new  york city 1999"
	start, end, ok := lexicon.MultiWordCity(text)

	require.True(t, ok)
	assert.Equal(t, "new  york city", text[start:end])

	_, _, ok = lexicon.MultiWordCity("Phish Newark")
	assert.False(t, ok)
}

/*
TestParseLexicon validates custom vocabularies.
*/
func TestParseLexicon(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		lexicon, err := search.ParseLexicon([]byte(`stop_words = ["gig"]` + "\n" + `cities = ["Reykjavik"]` + "\n" + monthsTOML))

		require.NoError(t, err)
		assert.True(t, lexicon.IsStopWord("gig"))
		assert.True(t, lexicon.IsCity("reykjavik"))
		assert.False(t, lexicon.IsCity("seattle"))
	})

	t.Run("missing_months", func(t *testing.T) {
		_, err := search.ParseLexicon([]byte(`stop_words = ["gig"]`))

		assert.ErrorContains(t, err, "12 months")
	})

	t.Run("duplicate_month", func(t *testing.T) {
		data := strings.Replace(monthsTOML, "number = 2\n", "number = 1\n", 1)
		_, err := search.ParseLexicon([]byte(data))

		assert.ErrorContains(t, err, "defined twice")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := search.ParseLexicon([]byte(`stop_words = [`))

		assert.Error(t, err)
	})
}

/*
TestLoadLexicon reads a lexicon file from disk.
*/
func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`venue_keywords = ["barn"]`+"\n"+monthsTOML), 0o600))

	lexicon, err := search.LoadLexicon(path)

	require.NoError(t, err)
	assert.True(t, lexicon.HasVenueKeyword("Phish at the Barn"))

	_, err = search.LoadLexicon(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
