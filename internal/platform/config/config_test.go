// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gigposter/internal/platform/config"
)

/*
TestLoad_Defaults reads the search defaults when only the database is configured.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gig")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 0.35, cfg.SearchThreshold)
	assert.Equal(t, 5*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, 4, cfg.SearchWorkers)
	assert.Equal(t, 3*time.Second, cfg.SearchTimeout)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_Invalid rejects missing and out-of-range settings.
*/
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing_database", map[string]string{"DATABASE_URL": ""}},
		{"threshold_zero", map[string]string{"SEARCH_THRESHOLD": "0"}},
		{"threshold_above_one", map[string]string{"SEARCH_THRESHOLD": "1.2"}},
		{"no_workers", map[string]string{"SEARCH_WORKERS": "0"}},
		{"bad_duration", map[string]string{"SEARCH_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/gig")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()

			assert.Error(t, err)
		})
	}
}

/*
TestConfig_AllowsOrigin matches exact origins, bare hosts and dotted suffixes.
*/
func TestConfig_AllowsOrigin(t *testing.T) {
	cfg := &config.Config{ExtraOrigins: []string{"https://posters.example.com", " gigs.test ", ".example.org", ""}}

	tests := []struct {
		origin   string
		expected bool
	}{
		{"https://posters.example.com", true},
		{"http://gigs.test", true},
		{"https://shop.example.org", true},
		{"https://example.com", false},
		{"https://evil-example.org.attacker.io", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.AllowsOrigin(tt.origin))
		})
	}
}
