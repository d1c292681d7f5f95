// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/gigposter/pkg/pagination"
)

/*
TestFromRequest clamps invalid page and limit values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected pagination.Params
		offset   int
	}{
		{"defaults", "/posters", pagination.Params{Page: 1, Limit: 20}, 0},
		{"explicit", "/posters?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}, 20},
		{"negative_page", "/posters?page=-2", pagination.Params{Page: 1, Limit: 20}, 0},
		{"limit_too_large", "/posters?limit=500", pagination.Params{Page: 1, Limit: 20}, 0},
		{"not_a_number", "/posters?page=two&limit=ten", pagination.Params{Page: 1, Limit: 20}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", tt.target, nil))

			assert.Equal(t, tt.expected, params)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta rounds the page count up.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 20, Total: 41, TotalPages: 3}, pagination.NewMeta(1, 20, 41))
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 41).TotalPages)
}
