// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/taibuivan/gigposter/internal/platform/apperr"
	"github.com/taibuivan/gigposter/pkg/trigram"
)

// # In-Memory Repository

// MemoryRepository implements [Repository] by filtering an immutable [Snapshot]
// in process. It is safe for concurrent use because nothing mutates it after
// construction.
type MemoryRepository struct {
	artists map[int]Artist
	venues  map[int]Venue
	events  map[string]Event
	posters map[string]Poster

	artistIDs []int
	venueIDs  []int
	posterIDs []string
}

// NewMemoryRepository indexes snapshot and validates every cross reference.
func NewMemoryRepository(snapshot Snapshot) (*MemoryRepository, error) {
	repository := &MemoryRepository{
		artists: make(map[int]Artist, len(snapshot.Artists)),
		venues:  make(map[int]Venue, len(snapshot.Venues)),
		events:  make(map[string]Event, len(snapshot.Events)),
		posters: make(map[string]Poster, len(snapshot.Posters)),
	}

	for _, record := range snapshot.Artists {
		repository.artists[record.ID] = Artist{ID: record.ID, Name: record.Name}
		repository.artistIDs = append(repository.artistIDs, record.ID)
	}

	for _, record := range snapshot.Venues {
		repository.venues[record.ID] = record.toVenue()
		repository.venueIDs = append(repository.venueIDs, record.ID)
	}

	for _, record := range snapshot.Events {
		event, err := record.toEvent()
		if err != nil {
			return nil, err
		}
		if _, ok := repository.venues[event.VenueID]; !ok {
			return nil, fmt.Errorf("catalog: event %q references unknown venue %d", event.Name, event.VenueID)
		}
		for _, artistID := range event.ArtistIDs {
			if _, ok := repository.artists[artistID]; !ok {
				return nil, fmt.Errorf("catalog: event %q references unknown artist %d", event.Name, artistID)
			}
		}
		repository.events[event.ID] = event
	}

	for _, record := range snapshot.Posters {
		poster := record.toPoster()
		if !poster.Status.IsValid() {
			return nil, fmt.Errorf("catalog: poster %q has invalid status %q", poster.Title, poster.Status)
		}
		for _, artistID := range poster.ArtistIDs {
			if _, ok := repository.artists[artistID]; !ok {
				return nil, fmt.Errorf("catalog: poster %q references unknown artist %d", poster.Title, artistID)
			}
		}
		for _, eventID := range poster.EventIDs {
			if _, ok := repository.events[eventID]; !ok {
				return nil, fmt.Errorf("catalog: poster %q references unknown event %q", poster.Title, eventID)
			}
		}
		repository.posters[poster.ID] = poster
		repository.posterIDs = append(repository.posterIDs, poster.ID)
	}

	slices.Sort(repository.artistIDs)
	slices.Sort(repository.venueIDs)
	slices.Sort(repository.posterIDs)

	return repository, nil
}

// FindArtists implements [Repository].
func (repository *MemoryRepository) FindArtists(context context.Context, name string, minSimilarity float64, limit int) ([]ArtistMatch, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	var matches []ArtistMatch
	for _, id := range repository.artistIDs {
		artist := repository.artists[id]
		lowered := strings.ToLower(artist.Name)
		similarity := trigram.Similarity(needle, lowered)

		if lowered == needle || strings.Contains(lowered, needle) || similarity >= minSimilarity {
			matches = append(matches, ArtistMatch{Artist: artist, Similarity: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return truncate(matches, limit), nil
}

// FindVenues implements [Repository].
func (repository *MemoryRepository) FindVenues(context context.Context, text string, minSimilarity float64, limit int) ([]VenueMatch, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, nil
	}

	var matches []VenueMatch
	for _, id := range repository.venueIDs {
		venue := repository.venues[id]
		similarity := VenueSimilarity(needle, venue)

		contains := strings.Contains(strings.ToLower(venue.Name), needle) ||
			strings.Contains(strings.ToLower(venue.City), needle)

		if contains || similarity >= minSimilarity {
			matches = append(matches, VenueMatch{Venue: venue, Similarity: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return truncate(matches, limit), nil
}

// FindEvents implements [Repository].
func (repository *MemoryRepository) FindEvents(context context.Context, filter EventFilter) ([]Event, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	var events []Event
	for _, event := range repository.events {
		if matchesEvent(event, filter) {
			events = append(events, event)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})

	return events, nil
}

// FindPosters implements [Repository].
func (repository *MemoryRepository) FindPosters(context context.Context, filter PosterFilter) ([]string, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	if len(filter.ArtistIDs) == 0 && len(filter.EventIDs) == 0 {
		return nil, nil
	}

	var ids []string
	for _, id := range repository.posterIDs {
		poster := repository.posters[id]
		if poster.Status != StatusActive {
			continue
		}

		linksArtist := intersects(poster.ArtistIDs, filter.ArtistIDs)
		linksEvent := intersects(poster.EventIDs, filter.EventIDs)

		var matched bool
		switch filter.Match {
		case MatchAny:
			matched = linksArtist || linksEvent
		default:
			matched = (len(filter.ArtistIDs) == 0 || linksArtist) && (len(filter.EventIDs) == 0 || linksEvent)
		}

		if matched {
			ids = append(ids, id)
		}
	}

	return truncate(ids, filter.Limit), nil
}

// ListCandidates implements [Repository].
func (repository *MemoryRepository) ListCandidates(context context.Context, filter CandidateFilter) ([]*PosterDocument, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	bounds := EventFilter{Year: filter.Year, From: filter.From, To: filter.To}

	var documents []*PosterDocument
	for _, id := range repository.posterIDs {
		poster := repository.posters[id]
		if poster.Status != StatusActive {
			continue
		}

		document := repository.hydrate(poster)
		if !filter.IsZero() && !slices.ContainsFunc(document.Events, func(detail EventDetail) bool {
			return matchesEvent(detail.Event, bounds)
		}) {
			continue
		}

		documents = append(documents, document)
	}

	return documents, nil
}

// SearchPosters implements [Repository].
func (repository *MemoryRepository) SearchPosters(context context.Context, text string, minSimilarity float64, limit, offset int) ([]*Poster, int, error) {
	if err := context.Err(); err != nil {
		return nil, 0, err
	}

	type scored struct {
		poster *Poster
		score  float64
	}

	var hits []scored
	for _, id := range repository.posterIDs {
		poster := repository.posters[id]
		if poster.Status != StatusActive {
			continue
		}

		score := 1.0
		if text != "" {
			score = max(trigram.Similarity(text, poster.Title), trigram.WordSimilarity(text, poster.Description))
		}
		if score >= minSimilarity {
			hits = append(hits, scored{poster: &poster, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	total := len(hits)
	if offset > total {
		offset = total
	}
	hits = truncate(hits[offset:], limit)

	posters := make([]*Poster, len(hits))
	for i, hit := range hits {
		posters[i] = hit.poster
	}

	return posters, total, nil
}

// GetPoster implements [Repository].
func (repository *MemoryRepository) GetPoster(context context.Context, id string) (*PosterDocument, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	poster, ok := repository.posters[id]
	if !ok || poster.Status != StatusActive {
		return nil, apperr.NotFound("Poster")
	}

	return repository.hydrate(poster), nil
}

// ListArtists implements [Repository].
func (repository *MemoryRepository) ListArtists(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error) {
	if err := context.Err(); err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(filter.Query)

	var artists []*Artist
	for _, id := range repository.artistIDs {
		artist := repository.artists[id]
		if needle == "" || strings.Contains(strings.ToLower(artist.Name), needle) {
			artists = append(artists, &artist)
		}
	}

	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].Name < artists[j].Name
	})

	return page(artists, limit, offset)
}

// ListVenues implements [Repository].
func (repository *MemoryRepository) ListVenues(context context.Context, filter Filter, limit, offset int) ([]*Venue, int, error) {
	if err := context.Err(); err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(filter.Query)

	var venues []*Venue
	for _, id := range repository.venueIDs {
		venue := repository.venues[id]
		if needle == "" ||
			strings.Contains(strings.ToLower(venue.Name), needle) ||
			strings.Contains(strings.ToLower(venue.City), needle) {
			venues = append(venues, &venue)
		}
	}

	sort.SliceStable(venues, func(i, j int) bool {
		return venues[i].Name < venues[j].Name
	})

	return page(venues, limit, offset)
}

// Ping implements [Repository]. The in-memory store is always reachable.
func (repository *MemoryRepository) Ping(context context.Context) error {
	return context.Err()
}

// # Helpers

// hydrate joins a poster with its artists and events. Links are resolved in ID order.
func (repository *MemoryRepository) hydrate(poster Poster) *PosterDocument {
	document := &PosterDocument{Poster: poster}

	artistIDs := slices.Clone(poster.ArtistIDs)
	slices.Sort(artistIDs)
	for _, id := range artistIDs {
		document.Artists = append(document.Artists, repository.artists[id])
	}

	eventIDs := slices.Clone(poster.EventIDs)
	slices.Sort(eventIDs)
	for _, id := range eventIDs {
		event := repository.events[id]
		document.Events = append(document.Events, EventDetail{Event: event, Venue: repository.venues[event.VenueID]})
	}

	return document
}

// VenueSimilarity returns the best trigram similarity of text against any
// descriptive field of venue.
func VenueSimilarity(text string, venue Venue) float64 {
	best := max(trigram.Similarity(text, venue.Name), trigram.Similarity(text, venue.City), trigram.Similarity(text, venue.Country))
	if venue.State != nil {
		best = max(best, trigram.Similarity(text, *venue.State))
	}
	return best
}

func matchesEvent(event Event, filter EventFilter) bool {
	if filter.Year != nil && event.Year != *filter.Year {
		return false
	}
	if filter.Month != nil && event.Month != *filter.Month {
		return false
	}
	if filter.Day != nil && event.Day != *filter.Day {
		return false
	}
	if filter.From != nil && event.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && event.Date.After(*filter.To) {
		return false
	}
	if len(filter.VenueIDs) > 0 && !slices.Contains(filter.VenueIDs, event.VenueID) {
		return false
	}
	if len(filter.ArtistIDs) > 0 && !intersects(event.ArtistIDs, filter.ArtistIDs) {
		return false
	}
	return true
}

func intersects[T comparable](have, want []T) bool {
	for _, value := range want {
		if slices.Contains(have, value) {
			return true
		}
	}
	return false
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func page[T any](items []T, limit, offset int) ([]T, int, error) {
	total := len(items)
	if offset > total {
		offset = total
	}
	return truncate(items[offset:], limit), total, nil
}
