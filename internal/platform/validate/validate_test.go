// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gigposter/internal/platform/apperr"
	"github.com/taibuivan/gigposter/internal/platform/validate"
)

/*
TestValidator_MaxLen counts runes, not bytes.
*/
func TestValidator_MaxLen(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"under_limit", "Sigur Rós", false},
		{"at_limit", strings.Repeat("ó", 10), false},
		{"over_limit", strings.Repeat("x", 11), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.MaxLen("q", tt.value, 10)

			assert.Equal(t, tt.hasError, v.HasErrors())
		})
	}
}

/*
TestValidator_UUID accepts canonical UUIDs of any version.
*/
func TestValidator_UUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"v4", "a0000000-0000-4000-8000-000000000001", true},
		{"v7_upper", "01920C1E-7B3A-7C4D-9E2F-0123456789AB", true},
		{"braced", "{a0000000-0000-4000-8000-000000000001}", false},
		{"urn", "urn:uuid:a0000000-0000-4000-8000-000000000001", false},
		{"garbage", "not-a-uuid", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.UUID("id", tt.value)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		MaxLen("q", "too long", 3).
		Custom("threshold", true, "Must be between 0 and 1").
		UUID("id", "nope").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 3)
	assert.Equal(t, "threshold", ae.Details[1].Field)
}

/*
TestValidator_Chain_Success returns nil when every rule passes.
*/
func TestValidator_Chain_Success(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		MaxLen("q", "Phish", 200).
		Custom("threshold", false, "Must be between 0 and 1").
		Err()

	assert.NoError(t, err)
}

/*
TestRequiredError builds a single-field validation error.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("threshold", "Must be a number")

	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "Must be a number", err.Details[0].Message)
}
