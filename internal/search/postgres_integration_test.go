// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package search_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/platform/migration"
	pgstore "github.com/taibuivan/gigposter/internal/platform/postgres"
)

// startCatalogue boots PostgreSQL, applies the migrations and loads the fixture snapshot.
func startCatalogue(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("gigposter_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, "../../data/migrations", logger))

	pool, err := pgstore.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	snapshot, err := catalog.LoadSnapshot("testdata/catalog.toml")
	require.NoError(t, err)
	seed(t, pool, snapshot)

	return pool
}

func seed(t *testing.T, pool *pgxpool.Pool, snapshot *catalog.Snapshot) {
	t.Helper()
	ctx := context.Background()

	exec := func(sql string, args ...any) {
		_, err := pool.Exec(ctx, sql, args...)
		require.NoError(t, err)
	}

	for _, artist := range snapshot.Artists {
		exec(`INSERT INTO catalog.artist (id, name) VALUES ($1, $2)`, artist.ID, artist.Name)
	}
	for _, venue := range snapshot.Venues {
		var state *string
		if venue.State != "" {
			state = &venue.State
		}
		exec(`INSERT INTO catalog.venue (id, name, city, state, country) VALUES ($1, $2, $3, $4, $5)`,
			venue.ID, venue.Name, venue.City, state, venue.Country)
	}
	for _, event := range snapshot.Events {
		date, err := time.Parse("2006-01-02", event.Date)
		require.NoError(t, err)

		exec(`INSERT INTO catalog.event (id, name, eventdate, venueid) VALUES ($1, $2, $3, $4)`,
			event.ID, event.Name, date, event.VenueID)
		for _, artistID := range event.ArtistIDs {
			exec(`INSERT INTO catalog.eventartist (eventid, artistid) VALUES ($1, $2)`, event.ID, artistID)
		}
	}
	for _, poster := range snapshot.Posters {
		status := poster.Status
		if status == "" {
			status = string(catalog.StatusActive)
		}

		exec(`INSERT INTO catalog.poster (id, title, description, status) VALUES ($1, $2, $3, $4)`,
			poster.ID, poster.Title, poster.Description, status)
		for _, artistID := range poster.ArtistIDs {
			exec(`INSERT INTO catalog.posterartist (posterid, artistid) VALUES ($1, $2)`, poster.ID, artistID)
		}
		for _, eventID := range poster.EventIDs {
			exec(`INSERT INTO catalog.posterevent (posterid, eventid) VALUES ($1, $2)`, poster.ID, eventID)
		}
	}
}

/*
TestEngine_Postgres runs representative scenarios against the real catalogue schema.
*/
func TestEngine_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	repository := catalog.NewPostgresRepository(startCatalogue(t))
	engine := newEngine(t, repository)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"month_day_hit", "Phish 12/31", []string{phishNewYears}},
		{"month_day_miss", "Phish 1/1", []string{}},
		{"artist_and_city", "Grateful Dead Seattle", []string{deadSeattle}},
		{"artist_and_year", "Grateful Dead 2023", []string{deadSeattle, deadBoston}},
		{"draft_hidden", "Phish Boston", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := engine.Search(context.Background(), tt.query, 0)

			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, ids)
			assert.NotContains(t, ids, phishDraft)
		})
	}

	ids, err := engine.Search(context.Background(), "phsh", 0.35)
	require.NoError(t, err)
	assert.Contains(t, ids, phishNewYears)
}

/*
TestPostgresRepository_Browse checks the listing queries and poster hydration.
*/
func TestPostgresRepository_Browse(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	repository := catalog.NewPostgresRepository(startCatalogue(t))
	ctx := context.Background()

	require.NoError(t, repository.Ping(ctx))

	document, err := repository.GetPoster(ctx, sigurRosHarpa)
	require.NoError(t, err)
	assert.Equal(t, "Sigur Rós", document.Artists[0].Name)
	assert.Equal(t, "Reykjavik", document.Events[0].Venue.City)
	assert.Nil(t, document.Events[0].Venue.State)
	assert.Equal(t, 2013, document.Events[0].Year)

	_, err = repository.GetPoster(ctx, phishDraft)
	assert.Error(t, err)

	artists, total, err := repository.ListArtists(ctx, catalog.Filter{Query: "dead"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Grateful Dead", artists[0].Name)

	_, total, err = repository.SearchPosters(ctx, "", 0, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}
