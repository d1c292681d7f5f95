// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/pkg/trigram"
)

// Fixed scores for calendar matches. An exact date has to outrank any fuzzy
// text hit, so indicators sit at the top of the similarity range.
const (
	yearIndicator     = 1.0
	partialIndicator  = 0.9
	forcedTopScore    = 3.0
	minSubstringRunes = 3
)

// # Scored Candidates

// Signals are the per-field similarities of one poster against one query.
type Signals struct {
	Artist         float64 `json:"artist"`
	Venue          float64 `json:"venue"`
	VenueSubstring float64 `json:"venue_substring"`
	Event          float64 `json:"event"`
	Date           float64 `json:"date"`
	Text           float64 `json:"text"`
}

// Flags are the exact-match conditions used as ordering tiers.
type Flags struct {
	ExactDate      bool `json:"exact_date"`
	ArtistYear     bool `json:"artist_year"`
	MonthDay       bool `json:"month_day"`
	ArtistMonthDay bool `json:"artist_month_day"`
	AllComponents  bool `json:"all_components"`
}

// ScoredCandidate is one poster ranked within a single query.
type ScoredCandidate struct {
	PosterID string `json:"poster_id"`
	Signals
	Flags
	Score float64 `json:"score"`
}

// Criteria describe what one scoring pass looks for.
type Criteria struct {
	Shape  Shape
	Artist string // Artist part of the query
	Venue  string // Place part of the query
	Text   string // Whole non-date text
	Date   DateInfo

	LikelyArtistOnly bool

	ArtistThreshold float64
	VenueThreshold  float64
	Threshold       float64 // Minimum combined score for unstructured shapes
	Limit           int
}

/*
Score ranks documents against criteria.

Description: Every poster is first gated on the components its shape demands
(AND semantics for compound shapes); survivors are scored by the first
applicable rule and ordered by exact-match tiers, then score, then poster ID.

Returns:
  - []ScoredCandidate: Deduplicated and capped at criteria.Limit
*/
func Score(documents []*catalog.PosterDocument, criteria Criteria) []ScoredCandidate {
	artistNeedle := trigram.Of(criteria.Artist)
	venueNeedle := strings.ToLower(strings.TrimSpace(criteria.Venue))
	textNeedle := trigram.Of(criteria.Text)

	seen := make(map[string]struct{}, len(documents))
	var candidates []ScoredCandidate

	for _, document := range documents {
		if _, dup := seen[document.ID]; dup {
			continue
		}
		seen[document.ID] = struct{}{}

		candidate := ScoredCandidate{PosterID: document.ID}
		candidate.Signals = measure(document, criteria, artistNeedle, venueNeedle, textNeedle)
		candidate.Flags = flag(document, criteria, candidate.Signals)

		score, eligible := combine(criteria, candidate)
		if !eligible {
			continue
		}
		candidate.Score = score
		candidates = append(candidates, candidate)
	}

	slices.SortStableFunc(candidates, compareCandidates)

	if criteria.Limit > 0 && len(candidates) > criteria.Limit {
		candidates = candidates[:criteria.Limit]
	}
	return candidates
}

// IDs returns the poster IDs of candidates in order.
func IDs(candidates []ScoredCandidate) []string {
	ids := make([]string, len(candidates))
	for i, candidate := range candidates {
		ids[i] = candidate.PosterID
	}
	return ids
}

// measure computes the raw per-field similarities.
func measure(document *catalog.PosterDocument, criteria Criteria, artistNeedle trigram.Set, venueNeedle string, textNeedle trigram.Set) Signals {
	var signals Signals

	for _, artist := range document.Artists {
		signals.Artist = max(signals.Artist, trigram.Compare(artistNeedle, trigram.Of(artist.Name)))
	}

	for _, detail := range document.Events {
		if venueNeedle != "" {
			signals.Venue = max(signals.Venue, catalog.VenueSimilarity(venueNeedle, detail.Venue))
			if containsVenue(detail.Venue, venueNeedle) {
				signals.VenueSubstring = 1
			}
		}
		if criteria.Text != "" {
			signals.Event = max(signals.Event, trigram.Compare(textNeedle, trigram.Of(detail.Name)))
		}
		if criteria.Date.HasDate {
			signals.Date = max(signals.Date, dateIndicator(detail.Event, criteria.Date))
		}
	}

	if criteria.Text != "" {
		signals.Text = max(
			trigram.Compare(textNeedle, trigram.Of(document.Title)),
			trigram.WordSimilarity(criteria.Text, document.Description),
		)
	}

	return signals
}

// flag derives the exact-match tiers.
func flag(document *catalog.PosterDocument, criteria Criteria, signals Signals) Flags {
	date := criteria.Date
	artistClears := criteria.Artist != "" && signals.Artist >= criteria.ArtistThreshold

	var flags Flags
	for _, detail := range document.Events {
		event := detail.Event
		yearMatch := date.Year != nil && event.Year == *date.Year
		monthDayMatch := date.HasMonthDay() && event.Month == *date.Month && event.Day == *date.Day

		flags.ExactDate = flags.ExactDate || (yearMatch && monthDayMatch)
		flags.MonthDay = flags.MonthDay || monthDayMatch
		flags.ArtistYear = flags.ArtistYear || (yearMatch && artistClears)
	}
	flags.ArtistMonthDay = flags.MonthDay && artistClears

	shape := criteria.Shape
	flags.AllComponents = (!shape.HasArtist() || artistClears) &&
		(!shape.HasVenue() || venueClears(criteria, signals)) &&
		(!shape.HasDate() || signals.Date > 0)

	return flags
}

// combine applies the shape gate and then the first matching scoring rule.
func combine(criteria Criteria, candidate ScoredCandidate) (float64, bool) {
	shape := criteria.Shape
	signals := candidate.Signals
	flags := candidate.Flags

	structured := shape.HasArtist() || shape.HasVenue()
	if structured && !flags.AllComponents {
		return 0, false
	}
	if shape == ShapeDateOnly && signals.Date == 0 {
		return 0, false
	}

	date := criteria.Date
	venue := max(signals.Venue, signals.VenueSubstring)

	switch {
	case flags.ArtistMonthDay && date.HasMonthDay() && shape.HasArtist():
		return forcedTopScore, true

	case flags.ExactDate:
		return forcedTopScore, true

	case shape == ShapeArtistDate && date.Year != nil && flags.ArtistYear:
		return signals.Artist * 2.5, true

	case shape == ShapeVenueOnly && venue >= criteria.VenueThreshold:
		return venue * 2.0, true

	case criteria.LikelyArtistOnly && signals.Artist >= 0.9:
		return signals.Artist * 2.0, true

	case shape.HasArtist() && shape.HasVenue():
		return (signals.Artist + venue) * 1.5, true
	}

	venueWeight := 1.0
	if shape == ShapeVenueOnly {
		venueWeight = 1.5
	}
	eventWeight := 1.0
	if date.HasDate {
		eventWeight = 1.5
	}

	score := max(
		signals.Artist*1.2,
		signals.Venue*venueWeight,
		signals.VenueSubstring*1.5,
		max(signals.Event, signals.Date)*eventWeight,
		signals.Text*0.8,
	)

	if !structured && score < criteria.Threshold {
		return 0, false
	}
	return score, true
}

func venueClears(criteria Criteria, signals Signals) bool {
	return signals.Venue >= criteria.VenueThreshold || signals.VenueSubstring >= criteria.VenueThreshold
}

// dateIndicator scores an event against the recognised date. Every recognised
// component must match; a matching year scores higher than month or day alone.
func dateIndicator(event catalog.Event, date DateInfo) float64 {
	if date.IsRange {
		if date.StartDate != nil && event.Date.Before(*date.StartDate) {
			return 0
		}
		if date.EndDate != nil && event.Date.After(*date.EndDate) {
			return 0
		}
	}
	if date.Year != nil && event.Year != *date.Year {
		return 0
	}
	if date.Month != nil && event.Month != *date.Month {
		return 0
	}
	if date.Day != nil && event.Day != *date.Day {
		return 0
	}

	switch {
	case date.Year != nil:
		return yearIndicator
	case date.Month != nil || date.Day != nil || date.IsRange:
		return partialIndicator
	}
	return 0
}

// containsVenue reports a literal mention of the venue name or city.
func containsVenue(venue catalog.Venue, needle string) bool {
	if utf8.RuneCountInString(needle) < minSubstringRunes {
		return false
	}

	name := strings.ToLower(venue.Name)
	city := strings.ToLower(venue.City)

	return strings.Contains(name, needle) || strings.Contains(city, needle) || (city != "" && strings.Contains(needle, city))
}

// compareCandidates orders by exact-match tiers, then score, then ID.
func compareCandidates(a, b ScoredCandidate) int {
	for _, tier := range [][2]bool{
		{a.ExactDate, b.ExactDate},
		{a.ArtistYear, b.ArtistYear},
		{a.MonthDay, b.MonthDay},
		{a.ArtistMonthDay, b.ArtistMonthDay},
		{a.AllComponents, b.AllComponents},
	} {
		if tier[0] != tier[1] {
			if tier[0] {
				return -1
			}
			return 1
		}
	}

	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return strings.Compare(a.PosterID, b.PosterID)
}
