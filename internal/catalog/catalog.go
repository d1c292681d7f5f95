// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog defines the read-only view of the poster catalogue consumed by
the search engine.

It owns the entity shapes (Poster, Artist, Venue, Event) and the [Repository]
facade through which every lookup flows.

Core Responsibility:

  - Eligibility: Only posters in the "active" status are ever returned.
  - Decomposition: Event dates are exposed as separate year/month/day fields for exact matching.
  - Similarity: Name lookups use pg_trgm-compatible trigram similarity on every backend.

Catalogue mutation (inserts, updates, migrations of data) belongs to the
management tooling, not to this package.
*/
package catalog

import "time"

// # Domain Enums

// Status represents the publication state of a poster.
type Status string

const (
	// StatusActive posters are visible to search.
	StatusActive Status = "active"

	// StatusDraft posters are still being prepared.
	StatusDraft Status = "draft"

	// StatusArchived posters are retired from the storefront.
	StatusArchived Status = "archived"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// # Core Entities

// Artist is a performer credited on posters and events.
type Artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Venue is the place an [Event] happens.
type Venue struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	State   *string `json:"state,omitempty"` // State or province, when the country uses one
	Country string  `json:"country"`
}

// Event is a single dated performance at a [Venue].
//
// Year, Month and Day mirror Date so lookups can match individual components.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Year      int       `json:"year"`
	Month     int       `json:"month"` // 1-12
	Day       int       `json:"day"`   // 1-31
	VenueID   int       `json:"venue_id"`
	ArtistIDs []int     `json:"artist_ids,omitempty"`
}

// Decompose fills Year, Month and Day from Date.
func (e *Event) Decompose() {
	e.Year = e.Date.Year()
	e.Month = int(e.Date.Month())
	e.Day = e.Date.Day()
}

// Poster is a catalogue item returned by search.
type Poster struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	ArtistIDs   []int     `json:"artist_ids,omitempty"`
	EventIDs    []string  `json:"event_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// # Aggregates

// EventDetail is an [Event] joined with its [Venue].
type EventDetail struct {
	Event
	Venue Venue `json:"venue"`
}

// PosterDocument is a [Poster] hydrated with everything the scorer compares against.
type PosterDocument struct {
	Poster
	Artists []Artist      `json:"artists"`
	Events  []EventDetail `json:"events"`
}

// ArtistMatch is an [Artist] with its similarity to a lookup string.
type ArtistMatch struct {
	Artist
	Similarity float64 `json:"similarity"`
}

// VenueMatch is a [Venue] with its best similarity across name, city, state and country.
type VenueMatch struct {
	Venue
	Similarity float64 `json:"similarity"`
}

// # Search & Filtering

// MatchMode controls how [PosterFilter] combines its ID sets.
type MatchMode int

const (
	// MatchAll requires every non-empty ID set to be linked.
	MatchAll MatchMode = iota

	// MatchAny accepts a link to any ID in any set.
	MatchAny
)

// EventFilter selects events by decomposed date components, date range, venue or artist.
// Nil and empty fields are ignored.
type EventFilter struct {
	Year      *int
	Month     *int
	Day       *int
	From      *time.Time // inclusive
	To        *time.Time // inclusive
	VenueIDs  []int
	ArtistIDs []int
}

// PosterFilter selects posters by linked artists and events.
type PosterFilter struct {
	ArtistIDs []int
	EventIDs  []string
	Match     MatchMode
	Limit     int // 0 means no limit
}

// CandidateFilter narrows the poster scan handed to the scorer.
// A poster qualifies when at least one linked event satisfies the date bounds.
type CandidateFilter struct {
	Year *int
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the filter selects every active poster.
func (f CandidateFilter) IsZero() bool {
	return f.Year == nil && f.From == nil && f.To == nil
}

// Filter holds browse parameters for artist and venue listings.
type Filter struct {
	Query string // Case-insensitive substring match
}

// # Field Identifiers

const (
	FieldID       = "id"
	FieldQuery    = "q"
	FieldTitle    = "title"
	FieldName     = "name"
	FieldStatus   = "status"
	FieldVenueID  = "venue_id"
	FieldDate     = "date"
	FieldArtistID = "artist_ids"
	FieldEventID  = "event_ids"
)
