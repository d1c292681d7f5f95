// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gigposter/internal/platform/apperr"
	"github.com/taibuivan/gigposter/internal/search"
)

// memoryCache is a map-backed [search.Cache] that can be told to fail.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*search.Resolution
	gets    int
	fail    bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*search.Resolution)}
}

func (cache *memoryCache) Get(_ context.Context, key string) (*search.Resolution, bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.gets++
	if cache.fail {
		return nil, false, errors.New("connection reset")
	}
	resolution, ok := cache.entries[key]
	if !ok {
		return nil, false, nil
	}
	copied := *resolution
	return &copied, true, nil
}

func (cache *memoryCache) Set(_ context.Context, key string, resolution *search.Resolution) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.fail {
		return errors.New("connection reset")
	}
	cache.entries[key] = resolution
	return nil
}

func newService(t *testing.T, cache search.Cache) *search.Service {
	t.Helper()
	return search.NewService(newEngine(t, fixtureRepository(t)), cache, search.Settings{}, quietLogger())
}

func thresholdPtr(v float64) *float64 { return &v }

/*
TestService_Search_Validation rejects oversized queries and out-of-range thresholds.
*/
func TestService_Search_Validation(t *testing.T) {
	service := newService(t, nil)

	tests := []struct {
		name    string
		request search.Request
		field   string
	}{
		{"query_too_long", search.Request{Query: strings.Repeat("x", 201)}, search.FieldQuery},
		{"threshold_above_one", search.Request{Query: "Phish", Threshold: thresholdPtr(1.5)}, search.FieldThreshold},
		{"threshold_negative", search.Request{Query: "Phish", Threshold: thresholdPtr(-0.1)}, search.FieldThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution, err := service.Search(context.Background(), tt.request)

			require.Error(t, err)
			assert.Nil(t, resolution)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}

/*
TestService_Search_ShortQuery returns an empty result, not an error.
*/
func TestService_Search_ShortQuery(t *testing.T) {
	service := newService(t, nil)

	resolution, err := service.Search(context.Background(), search.Request{Query: " a "})

	require.NoError(t, err)
	assert.Equal(t, []string{}, resolution.PosterIDs)
}

/*
TestService_Search_Cache stores results and serves repeated queries from the cache.
*/
func TestService_Search_Cache(t *testing.T) {
	cache := newMemoryCache()
	service := newService(t, cache)

	first, err := service.Search(context.Background(), search.Request{Query: "Phish 12/31"})
	require.NoError(t, err)
	assert.Equal(t, []string{phishNewYears}, first.PosterIDs)
	assert.Len(t, cache.entries, 1)

	second, err := service.Search(context.Background(), search.Request{Query: "  Phish   12/31 "})
	require.NoError(t, err)
	assert.Equal(t, first.PosterIDs, second.PosterIDs)
	assert.Equal(t, "  Phish   12/31 ", second.Query)
	assert.Len(t, cache.entries, 1)
	assert.Equal(t, 2, cache.gets)
}

/*
TestService_Search_CacheKeepsCase caches an abbreviation and the same letters
in lower case separately, since they resolve differently.
*/
func TestService_Search_CacheKeepsCase(t *testing.T) {
	cache := newMemoryCache()
	service := newService(t, cache)

	for _, query := range []string{"REM", "rem", "REM"} {
		resolution, err := service.Search(context.Background(), search.Request{Query: query})
		require.NoError(t, err)

		if query == "REM" {
			assert.Equal(t, []string{remAroundTheSun}, resolution.PosterIDs, query)
		} else {
			assert.Empty(t, resolution.PosterIDs, query)
		}
	}
	assert.Len(t, cache.entries, 2)
}

/*
TestService_Search_CacheFailure keeps answering when the cache is down.
*/
func TestService_Search_CacheFailure(t *testing.T) {
	cache := newMemoryCache()
	cache.fail = true
	service := newService(t, cache)

	resolution, err := service.Search(context.Background(), search.Request{Query: "Grateful Dead Seattle"})

	require.NoError(t, err)
	assert.Equal(t, []string{deadSeattle}, resolution.PosterIDs)
}

/*
TestCacheKey separates case, text and thresholds.
*/
func TestCacheKey(t *testing.T) {
	key := search.CacheKey("Phish 2024", 0.35)

	assert.True(t, strings.HasPrefix(key, "search:result:"))
	assert.Len(t, key, len("search:result:")+64)
	assert.Equal(t, key, search.CacheKey("Phish 2024", 0.35))
	assert.NotEqual(t, search.CacheKey("REM", 0.35), search.CacheKey("rem", 0.35))
	assert.NotEqual(t, key, search.CacheKey("phish 2024", 0.5))
	assert.NotEqual(t, key, search.CacheKey("phish 2023", 0.35))
}

// # HTTP

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/search", search.NewHandler(newService(t, nil)).Routes)
	return router
}

/*
TestHandler_Search exercises the query string contract of GET /search.
*/
func TestHandler_Search(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name     string
		target   string
		status   int
		contains []string
		excludes []string
	}{
		{
			name:     "ids_only",
			target:   "/search?q=Grateful+Dead+Seattle",
			status:   http.StatusOK,
			contains: []string{`"poster_ids":["` + deadSeattle + `"]`},
			excludes: []string{`"strategy"`},
		},
		{
			name:     "explain",
			target:   "/search?q=Grateful+Dead+Seattle&explain=true",
			status:   http.StatusOK,
			contains: []string{`"strategy":"artist_city"`, `"shape":"artist_venue"`},
		},
		{
			name:     "empty_query",
			target:   "/search?q=",
			status:   http.StatusOK,
			contains: []string{`"poster_ids":[]`},
		},
		{
			name:     "threshold_not_a_number",
			target:   "/search?q=Phish&threshold=abc",
			status:   http.StatusBadRequest,
			contains: []string{"VALIDATION_ERROR", "threshold"},
		},
		{
			name:     "threshold_out_of_range",
			target:   "/search?q=Phish&threshold=2",
			status:   http.StatusBadRequest,
			contains: []string{"VALIDATION_ERROR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, recorder.Code)
			for _, fragment := range tt.contains {
				assert.Contains(t, recorder.Body.String(), fragment)
			}
			for _, fragment := range tt.excludes {
				assert.NotContains(t, recorder.Body.String(), fragment)
			}
		})
	}
}
