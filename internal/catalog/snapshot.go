// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/taibuivan/gigposter/pkg/uuid"
)

// dateLayout is the calendar-day format used by snapshot files.
const dateLayout = "2006-01-02"

// # Snapshot Files

// Snapshot is a self-contained copy of the catalogue, used by the in-memory
// repository, the operator CLI and tests.
type Snapshot struct {
	Artists []ArtistRecord `toml:"artists"`
	Venues  []VenueRecord  `toml:"venues"`
	Events  []EventRecord  `toml:"events"`
	Posters []PosterRecord `toml:"posters"`
}

// ArtistRecord is the on-disk form of an [Artist].
type ArtistRecord struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

// VenueRecord is the on-disk form of a [Venue].
type VenueRecord struct {
	ID      int    `toml:"id"`
	Name    string `toml:"name"`
	City    string `toml:"city"`
	State   string `toml:"state,omitempty"`
	Country string `toml:"country"`
}

// EventRecord is the on-disk form of an [Event]. Date uses the YYYY-MM-DD layout.
type EventRecord struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	Date      string `toml:"date"`
	VenueID   int    `toml:"venue_id"`
	ArtistIDs []int  `toml:"artist_ids"`
}

// PosterRecord is the on-disk form of a [Poster]. An empty status means active.
type PosterRecord struct {
	ID          string   `toml:"id"`
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Status      string   `toml:"status,omitempty"`
	ArtistIDs   []int    `toml:"artist_ids"`
	EventIDs    []string `toml:"event_ids"`
}

// LoadSnapshot reads a TOML snapshot from path.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes a TOML snapshot document.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := toml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("catalog: decoding snapshot: %w", err)
	}
	return &snapshot, nil
}

// toEvent converts the record, assigning a fresh ID when the file omits one.
func (r EventRecord) toEvent() (Event, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return Event{}, fmt.Errorf("catalog: event %q has invalid date %q: %w", r.Name, r.Date, err)
	}

	event := Event{
		ID:        r.ID,
		Name:      r.Name,
		Date:      date,
		VenueID:   r.VenueID,
		ArtistIDs: r.ArtistIDs,
	}
	if event.ID == "" {
		event.ID = uuid.New()
	}
	event.Decompose()

	return event, nil
}

func (r PosterRecord) toPoster() Poster {
	status := Status(r.Status)
	if status == "" {
		status = StatusActive
	}

	poster := Poster{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
		ArtistIDs:   r.ArtistIDs,
		EventIDs:    r.EventIDs,
	}
	if poster.ID == "" {
		poster.ID = uuid.New()
	}

	return poster
}

func (r VenueRecord) toVenue() Venue {
	venue := Venue{ID: r.ID, Name: r.Name, City: r.City, Country: r.Country}
	if r.State != "" {
		state := r.State
		venue.State = &state
	}
	return venue
}
