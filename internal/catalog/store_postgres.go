// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
PostgreSQL implementation of the catalogue facade.

It relies on two Postgres features:
  - pg_trgm: 'similarity' and 'word_similarity' give the same scores as pkg/trigram.
  - JSON Aggregation: Linked artists and events are fetched in a single round-trip.

Every poster query is pinned to status = 'active'.
*/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/gigposter/internal/platform/apperr"
	"github.com/taibuivan/gigposter/internal/platform/database/schema"
	"github.com/taibuivan/gigposter/internal/platform/dberr"
	"github.com/taibuivan/gigposter/internal/platform/postgres"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed catalogue facade.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindArtists resolves artists by equality, substring, or trigram similarity.

Description: All three conditions are evaluated in one statement and ranked by
pg_trgm similarity, so an exact name always sorts first.
*/
func (repository *PostgresRepository) FindArtists(context context.Context, name string, minSimilarity float64, limit int) ([]ArtistMatch, error) {
	artist := schema.CatalogArtist
	query := fmt.Sprintf(`
		SELECT %s, %s, similarity(lower(%s), lower($1)) AS sim
		FROM %s
		WHERE lower(%s) = lower($1)
		   OR strpos(lower(%s), lower($1)) > 0
		   OR similarity(lower(%s), lower($1)) >= $2
		ORDER BY sim DESC, %s
		LIMIT NULLIF($3::int, 0)
	`,
		artist.ID, artist.Name, artist.Name,
		artist.Table,
		artist.Name, artist.Name, artist.Name,
		artist.ID,
	)

	rows, err := repository.pool.Query(context, query, strings.TrimSpace(name), minSimilarity, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "find_artists")
	}
	defer rows.Close()

	var matches []ArtistMatch
	for rows.Next() {
		var match ArtistMatch
		if err := rows.Scan(&match.ID, &match.Name, &match.Similarity); err != nil {
			return nil, dberr.Wrap(err, "scan_artist_match")
		}
		matches = append(matches, match)
	}

	return matches, dberr.Wrap(rows.Err(), "find_artists")
}

/*
FindVenues resolves venues by their best similarity across descriptive columns.
*/
func (repository *PostgresRepository) FindVenues(context context.Context, text string, minSimilarity float64, limit int) ([]VenueMatch, error) {
	venue := schema.CatalogVenue
	query := fmt.Sprintf(`
		SELECT id, name, city, state, country, sim
		FROM (
			SELECT %s AS id, %s AS name, %s AS city, %s AS state, %s AS country,
				GREATEST(
					similarity(lower(%s), lower($1)),
					similarity(lower(%s), lower($1)),
					similarity(lower(COALESCE(%s, '')), lower($1)),
					similarity(lower(%s), lower($1))
				) AS sim
			FROM %s
		) v
		WHERE strpos(lower(name), lower($1)) > 0
		   OR strpos(lower(city), lower($1)) > 0
		   OR sim >= $2
		ORDER BY sim DESC, id
		LIMIT NULLIF($3::int, 0)
	`,
		venue.ID, venue.Name, venue.City, venue.State, venue.Country,
		venue.Name, venue.City, venue.State, venue.Country,
		venue.Table,
	)

	rows, err := repository.pool.Query(context, query, strings.TrimSpace(text), minSimilarity, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "find_venues")
	}
	defer rows.Close()

	var matches []VenueMatch
	for rows.Next() {
		var match VenueMatch
		if err := rows.Scan(&match.ID, &match.Name, &match.City, &match.State, &match.Country, &match.Similarity); err != nil {
			return nil, dberr.Wrap(err, "scan_venue_match")
		}
		matches = append(matches, match)
	}

	return matches, dberr.Wrap(rows.Err(), "find_venues")
}

/*
FindEvents filters events on their decomposed date columns.

Description: The WHERE clause is assembled dynamically; only the filter fields
that are set contribute a predicate.
*/
func (repository *PostgresRepository) FindEvents(context context.Context, filter EventFilter) ([]Event, error) {
	event := schema.CatalogEvent
	link := schema.EventArtist

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT e.%s::text, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s,
			COALESCE((SELECT array_agg(l.%s ORDER BY l.%s) FROM %s l WHERE l.%s = e.%s), '{}')
		FROM %s e
		WHERE TRUE
	`,
		event.ID, event.Name, event.EventDate, event.Year, event.Month, event.Day, event.VenueID,
		link.ArtistID, link.ArtistID, link.Table, link.EventID, event.ID,
		event.Table,
	))

	// Decomposed date components
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = $%d", event.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}
	if filter.Month != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = $%d", event.Month, argID))
		args = append(args, *filter.Month)
		argID++
	}
	if filter.Day != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = $%d", event.Day, argID))
		args = append(args, *filter.Day)
		argID++
	}

	// Date range
	if filter.From != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s >= $%d", event.EventDate, argID))
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s <= $%d", event.EventDate, argID))
		args = append(args, *filter.To)
		argID++
	}

	// Venue and artist links
	if len(filter.VenueIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = ANY($%d)", event.VenueID, argID))
		args = append(args, filter.VenueIDs)
		argID++
	}
	if len(filter.ArtistIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND EXISTS (SELECT 1 FROM %s l WHERE l.%s = e.%s AND l.%s = ANY($%d))",
			link.Table, link.EventID, event.ID, link.ArtistID, argID))
		args = append(args, filter.ArtistIDs)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY e.%s, e.%s", event.EventDate, event.ID))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "find_events")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var item Event
		if err := rows.Scan(&item.ID, &item.Name, &item.Date, &item.Year, &item.Month, &item.Day, &item.VenueID, &item.ArtistIDs); err != nil {
			return nil, dberr.Wrap(err, "scan_event")
		}
		events = append(events, item)
	}

	return events, dberr.Wrap(rows.Err(), "find_events")
}

/*
FindPosters returns active posters linked to the requested artists and/or events.
*/
func (repository *PostgresRepository) FindPosters(context context.Context, filter PosterFilter) ([]string, error) {
	if len(filter.ArtistIDs) == 0 && len(filter.EventIDs) == 0 {
		return nil, nil
	}

	poster := schema.CatalogPoster
	posterArtist := schema.PosterArtist
	posterEvent := schema.PosterEvent

	var predicates []string
	if len(filter.ArtistIDs) > 0 {
		predicates = append(predicates, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s pa WHERE pa.%s = p.%s AND pa.%s = ANY($1))",
			posterArtist.Table, posterArtist.PosterID, poster.ID, posterArtist.ArtistID))
	}
	if len(filter.EventIDs) > 0 {
		predicates = append(predicates, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s pe WHERE pe.%s = p.%s AND pe.%s::text = ANY($2::text[]))",
			posterEvent.Table, posterEvent.PosterID, poster.ID, posterEvent.EventID))
	}

	joiner := " AND "
	if filter.Match == MatchAny {
		joiner = " OR "
	}

	query := fmt.Sprintf(`
		SELECT p.%s::text
		FROM %s p
		WHERE p.%s = '%s' AND (%s)
		ORDER BY p.%s
		LIMIT NULLIF($3::int, 0)
	`,
		poster.ID,
		poster.Table,
		poster.Status, StatusActive, strings.Join(predicates, joiner),
		poster.ID,
	)

	rows, err := repository.pool.Query(context, query, filter.ArtistIDs, filter.EventIDs, filter.Limit)
	if err != nil {
		return nil, dberr.Wrap(err, "find_posters")
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, dberr.Wrap(err, "find_posters")
}

/*
ListCandidates returns active posters hydrated with artists and events.

Description: Linked entities are aggregated into JSON arrays by correlated
sub-queries, avoiding N+1 round-trips. When the filter carries date bounds only
posters with at least one qualifying event are returned.
*/
func (repository *PostgresRepository) ListCandidates(context context.Context, filter CandidateFilter) ([]*PosterDocument, error) {
	poster := schema.CatalogPoster
	event := schema.CatalogEvent
	posterEvent := schema.PosterEvent

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(documentSelect())
	queryBuilder.WriteString(fmt.Sprintf(" WHERE p.%s = '%s'", poster.Status, StatusActive))

	if !filter.IsZero() {
		var bounds []string
		if filter.Year != nil {
			bounds = append(bounds, fmt.Sprintf("e.%s = $%d", event.Year, argID))
			args = append(args, *filter.Year)
			argID++
		}
		if filter.From != nil {
			bounds = append(bounds, fmt.Sprintf("e.%s >= $%d", event.EventDate, argID))
			args = append(args, *filter.From)
			argID++
		}
		if filter.To != nil {
			bounds = append(bounds, fmt.Sprintf("e.%s <= $%d", event.EventDate, argID))
			args = append(args, *filter.To)
		}

		queryBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s pe JOIN %s e ON e.%s = pe.%s
				WHERE pe.%s = p.%s AND %s
			)`,
			posterEvent.Table, event.Table, event.ID, posterEvent.EventID,
			posterEvent.PosterID, poster.ID, strings.Join(bounds, " AND "),
		))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY p.%s", poster.ID))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_candidates")
	}
	defer rows.Close()

	var documents []*PosterDocument
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, dberr.Wrap(rows.Err(), "list_candidates")
}

/*
SearchPosters pages through active posters ranked by title/description similarity.

Description: Uses COUNT(*) OVER() to return the total alongside the page.
*/
func (repository *PostgresRepository) SearchPosters(context context.Context, text string, minSimilarity float64, limit, offset int) ([]*Poster, int, error) {
	poster := schema.CatalogPoster
	query := fmt.Sprintf(`
		SELECT id, title, description, status, createdat, COUNT(*) OVER() AS total_count
		FROM (
			SELECT p.%s::text AS id, p.%s AS title, p.%s AS description, p.%s AS status, p.%s AS createdat,
				CASE WHEN $1 = '' THEN 1
				     ELSE GREATEST(similarity(lower(p.%s), lower($1)), word_similarity(lower($1), lower(p.%s)))
				END AS score
			FROM %s p
			WHERE p.%s = '%s'
		) ranked
		WHERE score >= $2
		ORDER BY score DESC, id
		LIMIT $3 OFFSET $4
	`,
		poster.ID, poster.Title, poster.Description, poster.Status, poster.CreatedAt,
		poster.Title, poster.Description,
		poster.Table,
		poster.Status, StatusActive,
	)

	rows, err := repository.pool.Query(context, query, strings.TrimSpace(text), minSimilarity, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_posters")
	}
	defer rows.Close()

	var posters []*Poster
	var totalCount int
	for rows.Next() {
		item := &Poster{}
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Status, &item.CreatedAt, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_poster")
		}
		posters = append(posters, item)
	}

	return posters, totalCount, dberr.Wrap(rows.Err(), "search_posters")
}

// GetPoster returns one active poster with its artists and events.
func (repository *PostgresRepository) GetPoster(context context.Context, id string) (*PosterDocument, error) {
	poster := schema.CatalogPoster
	query := documentSelect() + fmt.Sprintf(" WHERE p.%s::text = $1 AND p.%s = '%s'", poster.ID, poster.Status, StatusActive)

	rows, err := repository.pool.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_poster")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, dberr.Wrap(err, "get_poster")
		}
		return nil, apperr.NotFound("Poster")
	}

	return scanDocument(rows)
}

// ListArtists returns a page of artists filtered by a case-insensitive substring.
func (repository *PostgresRepository) ListArtists(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error) {
	artist := schema.CatalogArtist
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE $1 = '' OR %s ILIKE '%%' || $1 || '%%'
		ORDER BY %s ASC, %s
		LIMIT $2 OFFSET $3
	`,
		artist.ID, artist.Name,
		artist.Table,
		artist.Name,
		artist.Name, artist.ID,
	)

	rows, err := repository.pool.Query(context, query, filter.Query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_artists")
	}
	defer rows.Close()

	var artists []*Artist
	var total int
	for rows.Next() {
		item := &Artist{}
		if err := rows.Scan(&item.ID, &item.Name, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_artist")
		}
		artists = append(artists, item)
	}

	return artists, total, dberr.Wrap(rows.Err(), "list_artists")
}

// ListVenues returns a page of venues filtered by name or city substring.
func (repository *PostgresRepository) ListVenues(context context.Context, filter Filter, limit, offset int) ([]*Venue, int, error) {
	venue := schema.CatalogVenue
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE $1 = '' OR %s ILIKE '%%' || $1 || '%%' OR %s ILIKE '%%' || $1 || '%%'
		ORDER BY %s ASC, %s
		LIMIT $2 OFFSET $3
	`,
		venue.ID, venue.Name, venue.City, venue.State, venue.Country,
		venue.Table,
		venue.Name, venue.City,
		venue.Name, venue.ID,
	)

	rows, err := repository.pool.Query(context, query, filter.Query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_venues")
	}
	defer rows.Close()

	var venues []*Venue
	var total int
	for rows.Next() {
		item := &Venue{}
		if err := rows.Scan(&item.ID, &item.Name, &item.City, &item.State, &item.Country, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_venue")
		}
		venues = append(venues, item)
	}

	return venues, total, dberr.Wrap(rows.Err(), "list_venues")
}

// Ping implements [Repository]. A failed ping is reported as unavailable.
func (repository *PostgresRepository) Ping(context context.Context) error {
	if err := postgres.Ping(context, repository.pool); err != nil {
		return dberr.Unavailable(err)
	}
	return nil
}

// # Document Hydration

// documentSelect is the shared projection for hydrated poster rows.
func documentSelect() string {
	poster := schema.CatalogPoster
	artist := schema.CatalogArtist
	venue := schema.CatalogVenue
	event := schema.CatalogEvent
	posterArtist := schema.PosterArtist
	posterEvent := schema.PosterEvent

	return fmt.Sprintf(`
		SELECT p.%s::text, p.%s, p.%s, p.%s, p.%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', a.%s, 'name', a.%s) ORDER BY a.%s)
				FROM %s pa JOIN %s a ON a.%s = pa.%s
				WHERE pa.%s = p.%s
			), '[]') AS artists,
			COALESCE((
				SELECT json_agg(json_build_object(
					'id', e.%s::text,
					'name', e.%s,
					'date', to_char(e.%s, 'YYYY-MM-DD') || 'T00:00:00Z',
					'year', e.%s,
					'month', e.%s,
					'day', e.%s,
					'venue_id', e.%s,
					'venue', json_build_object('id', v.%s, 'name', v.%s, 'city', v.%s, 'state', v.%s, 'country', v.%s)
				) ORDER BY e.%s::text)
				FROM %s pe
				JOIN %s e ON e.%s = pe.%s
				JOIN %s v ON v.%s = e.%s
				WHERE pe.%s = p.%s
			), '[]') AS events
		FROM %s p
	`,
		poster.ID, poster.Title, poster.Description, poster.Status, poster.CreatedAt,
		artist.ID, artist.Name, artist.ID,
		posterArtist.Table, artist.Table, artist.ID, posterArtist.ArtistID,
		posterArtist.PosterID, poster.ID,
		event.ID, event.Name, event.EventDate, event.Year, event.Month, event.Day, event.VenueID,
		venue.ID, venue.Name, venue.City, venue.State, venue.Country,
		event.ID,
		posterEvent.Table,
		event.Table, event.ID, posterEvent.EventID,
		venue.Table, venue.ID, event.VenueID,
		posterEvent.PosterID, poster.ID,
		poster.Table,
	)
}

// scanDocument reads one [documentSelect] row.
func scanDocument(rows pgx.Rows) (*PosterDocument, error) {
	document := &PosterDocument{}
	var artistsJSON, eventsJSON []byte

	err := rows.Scan(
		&document.ID,
		&document.Title,
		&document.Description,
		&document.Status,
		&document.CreatedAt,
		&artistsJSON,
		&eventsJSON,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_poster_document")
	}

	if err := json.Unmarshal(artistsJSON, &document.Artists); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal artists: %w", err)
	}
	if err := json.Unmarshal(eventsJSON, &document.Events); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal events: %w", err)
	}

	for _, artist := range document.Artists {
		document.ArtistIDs = append(document.ArtistIDs, artist.ID)
	}
	for _, detail := range document.Events {
		document.EventIDs = append(document.EventIDs, detail.ID)
	}

	return document, nil
}
