// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/search"
)

func document(id, artist, venue, city string, date time.Time) *catalog.PosterDocument {
	event := catalog.Event{ID: "event-" + id, Name: artist + " at " + venue, Date: date}
	event.Decompose()

	return &catalog.PosterDocument{
		Poster:  catalog.Poster{ID: id, Title: artist + " " + venue, Status: catalog.StatusActive},
		Artists: []catalog.Artist{{Name: artist}},
		Events:  []catalog.EventDetail{{Event: event, Venue: catalog.Venue{Name: venue, City: city}}},
	}
}

func scoringCriteria(shape search.Shape, artist, venue, text string, date search.DateInfo) search.Criteria {
	return search.Criteria{
		Shape:           shape,
		Artist:          artist,
		Venue:           venue,
		Text:            text,
		Date:            date,
		ArtistThreshold: 0.3,
		VenueThreshold:  0.3,
		Threshold:       0.35,
		Limit:           50,
	}
}

var scoringDocuments = []*catalog.PosterDocument{
	document("p1", "Grateful Dead", "KeyArena", "Seattle", time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC)),
	document("p2", "Grateful Dead", "Boston Garden", "Boston", time.Date(2023, 9, 20, 0, 0, 0, 0, time.UTC)),
	document("p3", "Pearl Jam", "KeyArena", "Seattle", time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC)),
	document("p4", "Phish", "Madison Square Garden", "New York", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
}

/*
TestScore_CompoundGate requires every component of a structured shape to clear its threshold.
*/
func TestScore_CompoundGate(t *testing.T) {
	criteria := scoringCriteria(search.ShapeArtistVenue, "Grateful Dead", "Seattle", "Grateful Dead Seattle", search.DateInfo{})

	candidates := search.Score(scoringDocuments, criteria)

	require.Len(t, candidates, 1)
	assert.Equal(t, "p1", candidates[0].PosterID)
	assert.True(t, candidates[0].AllComponents)
	assert.InDelta(t, 3.0, candidates[0].Score, 0.0001)
}

/*
TestScore_VenueSubstring lets a literal venue mention satisfy the place component.
*/
func TestScore_VenueSubstring(t *testing.T) {
	criteria := scoringCriteria(search.ShapeArtistVenue, "Phish", "square garden", "Phish square garden", search.DateInfo{})

	candidates := search.Score(scoringDocuments, criteria)

	require.Len(t, candidates, 1)
	assert.Equal(t, "p4", candidates[0].PosterID)
	assert.Equal(t, 1.0, candidates[0].VenueSubstring)
}

/*
TestScore_DateTiers ranks exact date matches above fuzzy text.
*/
func TestScore_DateTiers(t *testing.T) {
	year, month, day := 2023, 6, 10
	date := search.DateInfo{HasDate: true, Year: &year, Month: &month, Day: &day}

	candidates := search.Score(scoringDocuments, scoringCriteria(search.ShapeDateOnly, "", "", "", date))

	require.Len(t, candidates, 1)
	assert.Equal(t, "p1", candidates[0].PosterID)
	assert.True(t, candidates[0].ExactDate)
	assert.Equal(t, 3.0, candidates[0].Score)
}

/*
TestScore_ArtistYear boosts an artist match inside the requested year.
*/
func TestScore_ArtistYear(t *testing.T) {
	year := 2023
	date := search.DateInfo{HasDate: true, Year: &year}

	candidates := search.Score(scoringDocuments, scoringCriteria(search.ShapeArtistDate, "Grateful Dead", "", "Grateful Dead", date))

	assert.Equal(t, []string{"p1", "p2"}, search.IDs(candidates))
	for _, candidate := range candidates {
		assert.True(t, candidate.ArtistYear)
		assert.InDelta(t, 2.5, candidate.Score, 0.0001)
	}
}

/*
TestScore_Ordering sorts by tiers, then score, then poster ID.
*/
func TestScore_Ordering(t *testing.T) {
	month, day := 6, 10
	date := search.DateInfo{HasDate: true, Month: &month, Day: &day}

	// Only p1 falls on June 10; p3 is a day later and has no calendar match.
	candidates := search.Score(scoringDocuments, scoringCriteria(search.ShapeText, "KeyArena", "KeyArena", "KeyArena", date))

	require.NotEmpty(t, candidates)
	assert.Equal(t, "p1", candidates[0].PosterID)
	assert.True(t, candidates[0].MonthDay)
}

/*
TestScore_ThresholdAndLimit drops weak generic matches and caps the list.
*/
func TestScore_ThresholdAndLimit(t *testing.T) {
	criteria := scoringCriteria(search.ShapeText, "zzzz", "zzzz", "zzzz", search.DateInfo{})
	assert.Empty(t, search.Score(scoringDocuments, criteria))

	criteria = scoringCriteria(search.ShapeText, "Grateful Dead", "Grateful Dead", "Grateful Dead", search.DateInfo{})
	criteria.Limit = 1
	candidates := search.Score(scoringDocuments, criteria)

	assert.Equal(t, []string{"p1"}, search.IDs(candidates))
}

/*
TestScore_Deduplicates keeps the first occurrence of a repeated poster.
*/
func TestScore_Deduplicates(t *testing.T) {
	documents := append([]*catalog.PosterDocument{}, scoringDocuments...)
	documents = append(documents, scoringDocuments[0])

	criteria := scoringCriteria(search.ShapeText, "Grateful Dead", "", "Grateful Dead", search.DateInfo{})

	assert.Equal(t, []string{"p1", "p2"}, search.IDs(search.Score(documents, criteria)))
}
