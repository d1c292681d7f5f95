// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN tests scheme rewriting for golang-migrate.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"postgres", "postgres://u:p@db:5432/gig", "pgx5://u:p@db:5432/gig"},
		{"postgresql", "postgresql://u:p@db/gig?sslmode=disable", "pgx5://u:p@db/gig?sslmode=disable"},
		{"already_pgx5", "pgx5://db/gig", "pgx5://db/gig"},
		{"keyword_dsn", "host=db dbname=gig", "host=db dbname=gig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertToPgx5DSN(tt.input))
		})
	}
}

/*
TestRunUp_EmptyPath skips migrations when no directory is configured.
*/
func TestRunUp_EmptyPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.NoError(t, RunUp("postgres://unused", "", logger))
}
