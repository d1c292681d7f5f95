// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotPath = "../../internal/search/testdata/catalog.toml"

/*
TestCommand_Snapshot runs queries against the fixture snapshot.
*/
func TestCommand_Snapshot(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "artist_and_city",
			args:     []string{"--catalog", snapshotPath, "Grateful", "Dead", "Seattle"},
			contains: []string{"1 poster(s)", "a0000000-0000-4000-8000-000000000002", "KeyArena"},
		},
		{
			name:     "explain",
			args:     []string{"--catalog", snapshotPath, "--explain", "Phish 12/31"},
			contains: []string{"strategy:", "month:", "a0000000-0000-4000-8000-000000000001"},
		},
		{
			name:     "no_match",
			args:     []string{"--catalog", snapshotPath, "zzzzzz qqqqq"},
			contains: []string{"No posters found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := newCommand(&out).Run(context.Background(), append([]string{"postersearch"}, tt.args...))

			require.NoError(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, out.String(), fragment)
			}
		})
	}
}

/*
TestCommand_Errors rejects a missing query and a missing catalogue source.
*/
func TestCommand_Errors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	assert.Error(t, newCommand(&out).Run(context.Background(), []string{"postersearch", "--catalog", snapshotPath}))
	assert.Error(t, newCommand(&out).Run(context.Background(), []string{"postersearch", "Phish"}))
	assert.Error(t, newCommand(&out).Run(context.Background(), []string{"postersearch", "--catalog", "missing.toml", "Phish"}))
}
