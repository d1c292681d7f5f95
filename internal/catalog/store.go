// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// # Catalogue Data Access

// Repository is the read-only facade the search engine queries.
//
// Implementations must only ever surface posters in [StatusActive].
type Repository interface {

	/*
		FindArtists returns artists whose name equals, contains, or is trigram-similar to name.

		Parameters:
		  - context: context.Context
		  - name: string (Free text, compared case-insensitively)
		  - minSimilarity: float64 (Trigram cutoff for non-substring matches)
		  - limit: int (0 means no limit)

		Returns:
		  - []ArtistMatch: Ordered by similarity descending, then ID
		  - error: Storage failures
	*/
	FindArtists(context context.Context, name string, minSimilarity float64, limit int) ([]ArtistMatch, error)

	/*
		FindVenues returns venues whose name, city, state or country resembles text.

		Parameters:
		  - context: context.Context
		  - text: string
		  - minSimilarity: float64
		  - limit: int (0 means no limit)

		Returns:
		  - []VenueMatch: Ordered by similarity descending, then ID
		  - error: Storage failures
	*/
	FindVenues(context context.Context, text string, minSimilarity float64, limit int) ([]VenueMatch, error)

	/*
		FindEvents returns events matching the decomposed date, range, venue and artist filters.

		Returns:
		  - []Event: Ordered by date, then ID
		  - error: Storage failures
	*/
	FindEvents(context context.Context, filter EventFilter) ([]Event, error)

	/*
		FindPosters returns IDs of active posters linking the given artists and/or events.

		Returns:
		  - []string: Poster IDs in ascending order
		  - error: Storage failures
	*/
	FindPosters(context context.Context, filter PosterFilter) ([]string, error)

	/*
		ListCandidates returns hydrated active posters for in-process scoring.

		Returns:
		  - []*PosterDocument: Ordered by poster ID
		  - error: Storage failures
	*/
	ListCandidates(context context.Context, filter CandidateFilter) ([]*PosterDocument, error)

	/*
		SearchPosters pages through active posters by free-text similarity on title and description.

		Returns:
		  - []*Poster: The requested page, best match first
		  - int: Total number of matching posters
		  - error: Storage failures
	*/
	SearchPosters(context context.Context, text string, minSimilarity float64, limit, offset int) ([]*Poster, int, error)

	// GetPoster returns one active poster with its artists and events.
	GetPoster(context context.Context, id string) (*PosterDocument, error)

	// ListArtists returns a page of artists for browsing.
	ListArtists(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error)

	// ListVenues returns a page of venues for browsing.
	ListVenues(context context.Context, filter Filter, limit, offset int) ([]*Venue, int, error)

	// Ping reports whether the backing store is reachable.
	Ping(context context.Context) error
}
