// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classes
//
//   - Not found: [pgx.ErrNoRows] becomes [ErrNotFound].
//   - Unavailable: connection failures become a SERVICE_UNAVAILABLE [apperr.AppError].
//   - Cancellation: context errors pass through untouched so callers can tell them apart.
//   - Everything else: INTERNAL_ERROR.
package dberr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/gigposter/internal/platform/apperr"
)

// CodeUnavailable is the [apperr.AppError] code for an unreachable backing store.
const CodeUnavailable = "CATALOG_UNAVAILABLE"

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Caller gave up; not a storage fault
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// 3. The store cannot be reached at all
	if isConnectivity(err) {
		return Unavailable(fmt.Errorf("%s: %w", action, err))
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// Unavailable creates a 503 [apperr.AppError] carrying cause for logging.
func Unavailable(cause error) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeUnavailable,
		Message:    "The catalogue is temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// IsUnavailable reports whether err (or any error in its chain) marks the store as unreachable.
func IsUnavailable(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == CodeUnavailable
}

// isConnectivity reports whether err came from dialing or talking to the server.
func isConnectivity(err error) bool {
	var connectError *pgconn.ConnectError
	if errors.As(err, &connectError) {
		return true
	}

	var opError *net.OpError
	return errors.As(err, &opError)
}
