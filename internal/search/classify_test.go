// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/gigposter/internal/search"
)

func classify(text string) search.Terms {
	info := newExtractor().Extract(text)
	return search.NewClassifier(search.DefaultLexicon()).Classify(info)
}

/*
TestClassifier_Shape maps representative queries to their detected shape.
*/
func TestClassifier_Shape(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected search.Shape
	}{
		{"artist_only", "Phish", search.ShapeText},
		{"two_word_artist", "Flying Lotus", search.ShapeText},
		{"artist_and_city", "Grateful Dead Seattle", search.ShapeArtistVenue},
		{"artist_and_venue_keyword", "Phish Red Rocks Amphitheatre", search.ShapeArtistVenue},
		{"artist_and_year", "Phish 2024", search.ShapeArtistDate},
		{"artist_city_year", "Grateful Dead Seattle 2023", search.ShapeArtistVenueDate},
		{"city_alone", "Seattle", search.ShapeVenueOnly},
		{"multi_word_city_alone", "New York", search.ShapeVenueOnly},
		{"or_separated", "Phish or Grateful Dead", search.ShapeMultiArtist},
		{"date_alone", "12/31/2024", search.ShapeDateOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify(tt.query).Shape)
		})
	}
}

/*
TestClassifier_City checks city recognition and the remainder left for the artist.
*/
func TestClassifier_City(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		city      string
		remainder string
		multiWord bool
	}{
		{"single_word", "Grateful Dead Seattle", "Seattle", "Grateful Dead", false},
		{"multi_word", "Phish New York", "New York", "Phish", true},
		{"longest_multi_word_wins", "Phish New York City", "New York City", "Phish", true},
		{"city_first", "Boston Grateful Dead", "Boston", "Grateful Dead", false},
		{"no_city", "Phish Fillmore", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := classify(tt.query)

			assert.Equal(t, tt.city, terms.City)
			assert.Equal(t, tt.remainder, terms.CityRemainder)
			assert.Equal(t, tt.multiWord, terms.MultiWordCity)
		})
	}
}

/*
TestClassifier_Splits lists artist/place divisions in priority order.
*/
func TestClassifier_Splits(t *testing.T) {
	terms := classify("Grateful Dead Seattle")

	assert.Equal(t, []search.Split{
		{Artist: "Grateful Dead", Venue: "Seattle"},
		{Artist: "Grateful", Venue: "Dead Seattle"},
		{Artist: "Dead Seattle", Venue: "Grateful"},
	}, terms.Splits)

	terms = classify("Dave Matthews Band Gorge")

	assert.Equal(t, []string{"Gorge", "Matthews Band Gorge", "Dave", "Band Gorge", "Dave Matthews Band Gorge"}, terms.VenueCandidates)
	assert.Equal(t, []search.Split{
		{Artist: "Dave Matthews Band", Venue: "Gorge"},
		{Artist: "Dave", Venue: "Matthews Band Gorge"},
		{Artist: "Matthews Band Gorge", Venue: "Dave"},
		{Artist: "Dave Matthews", Venue: "Band Gorge"},
	}, terms.Splits)
}

/*
TestClassifier_Signals covers the venue presumption and the two-word artist heuristic.
*/
func TestClassifier_Signals(t *testing.T) {
	tests := []struct {
		name             string
		query            string
		venueSignal      bool
		likelyVenue      bool
		likelyArtistOnly bool
	}{
		{"two_words", "Flying Lotus", false, false, true},
		{"three_bare_words", "Dave Matthews Band", false, true, false},
		{"venue_keyword", "Phish Garden", true, true, false},
		{"known_city", "Phish Seattle", true, true, false},
		{"one_word", "Phish", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := classify(tt.query)

			assert.Equal(t, tt.venueSignal, terms.VenueSignal)
			assert.Equal(t, tt.likelyVenue, terms.LikelyVenue)
			assert.Equal(t, tt.likelyArtistOnly, terms.LikelyArtistOnly)
		})
	}
}

/*
TestClassifier_OrArtists splits on "or" before stop words are removed.
*/
func TestClassifier_OrArtists(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"two_artists", "Phish or Grateful Dead", []string{"Phish", "Grateful Dead"}},
		{"three_artists", "Phish OR Goose or Widespread Panic", []string{"Phish", "Goose", "Widespread Panic"}},
		{"duplicates_collapse", "Phish or Phish", nil},
		{"inside_word", "Orbital Organ", nil},
		{"with_year", "Phish or Goose 2024", []string{"Phish", "Goose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify(tt.query).OrArtists)
		})
	}
}

/*
TestShape_String checks the labels reported in explain output.
*/
func TestShape_String(t *testing.T) {
	assert.Equal(t, "artist_venue_date", search.ShapeArtistVenueDate.String())
	assert.Equal(t, "date_only", search.ShapeDateOnly.String())
	assert.Equal(t, "unknown", search.Shape(99).String())

	assert.True(t, search.ShapeArtistVenue.HasArtist())
	assert.True(t, search.ShapeArtistVenue.HasVenue())
	assert.False(t, search.ShapeArtistVenue.HasDate())
	assert.False(t, search.ShapeVenueOnly.HasArtist())
}
