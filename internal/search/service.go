// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	stdctx "context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/gigposter/internal/platform/apperr"
	"github.com/taibuivan/gigposter/internal/platform/constants"
	"github.com/taibuivan/gigposter/internal/platform/validate"
)

// Request field identifiers used in validation errors.
const (
	FieldQuery     = "q"
	FieldThreshold = "threshold"
)

// Settings are the service-level defaults applied to every request.
type Settings struct {
	Threshold float64       // Used when the request carries none
	Timeout   time.Duration // Deadline for one resolution; 0 disables it
}

// Request is one validated search call.
type Request struct {
	Query     string
	Threshold *float64
}

// Service wraps the [Engine] with input validation, a deadline and an optional result cache.
type Service struct {
	engine   *Engine
	cache    Cache
	settings Settings
	logger   *slog.Logger
}

// NewService builds the search use case. cache may be nil.
func NewService(engine *Engine, cache Cache, settings Settings, logger *slog.Logger) *Service {
	if settings.Threshold <= 0 || settings.Threshold > 1 {
		settings.Threshold = constants.SearchDefaultThreshold
	}
	return &Service{
		engine:   engine,
		cache:    cache,
		settings: settings,
		logger:   logger,
	}
}

/*
Search resolves a user query into ranked poster IDs.

Description: An empty or one-character query is not an error and yields an
empty result. Cache failures are logged and never fail the request.

Parameters:
  - context: stdctx.Context
  - request: Request

Returns:
  - *Resolution: IDs plus how they were found
  - error: VALIDATION_ERROR, CATALOG_UNAVAILABLE, or SERVICE_UNAVAILABLE on timeout
*/
func (service *Service) Search(context stdctx.Context, request Request) (*Resolution, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.MaxLen(FieldQuery, request.Query, constants.SearchMaxQueryLength)
	if request.Threshold != nil {
		value := *request.Threshold
		validator.Custom(FieldThreshold, math.IsNaN(value) || value < 0 || value > 1, "Must be between 0 and 1")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	threshold := service.settings.Threshold
	if request.Threshold != nil && *request.Threshold > 0 {
		threshold = *request.Threshold
	}

	cleaned, ok := Clean(request.Query)
	if !ok {
		return &Resolution{Query: request.Query, PosterIDs: []string{}}, nil
	}

	// ── 2. Cache lookup ───────────────────────────────────────────────────

	key := CacheKey(cleaned, threshold)
	if service.cache != nil {
		cached, hit, err := service.cache.Get(context, key)
		if err != nil {
			service.logger.Warn("search_cache_failed", slog.String("op", "get"), slog.Any("error", err))
		} else if hit {
			cached.Query = request.Query
			return cached, nil
		}
	}

	// ── 3. Resolution ─────────────────────────────────────────────────────

	resolveCtx := context
	if service.settings.Timeout > 0 {
		var cancel stdctx.CancelFunc
		resolveCtx, cancel = stdctx.WithTimeout(context, service.settings.Timeout)
		defer cancel()
	}

	started := time.Now()
	resolution, err := service.engine.Resolve(resolveCtx, request.Query, threshold)
	if err != nil {
		if errors.Is(err, stdctx.DeadlineExceeded) && context.Err() == nil {
			service.logger.Warn("search_timed_out", slog.String("query", cleaned), slog.Duration("timeout", service.settings.Timeout))
			return nil, apperr.ServiceUnavailable("Search took too long, please refine the query")
		}
		return nil, err
	}

	service.logger.Info("search_resolved",
		slog.String("query", cleaned),
		slog.String("strategy", resolution.Strategy),
		slog.String("shape", resolution.Shape),
		slog.Int("results", len(resolution.PosterIDs)),
		slog.Duration("elapsed", time.Since(started)),
	)

	// ── 4. Cache store ────────────────────────────────────────────────────

	if service.cache != nil {
		if err := service.cache.Set(context, key, resolution); err != nil {
			service.logger.Warn("search_cache_failed", slog.String("op", "set"), slog.Any("error", err))
		}
	}

	return resolution, nil
}

// Threshold returns the default cutoff applied when a request carries none.
func (service *Service) Threshold() float64 {
	return service.settings.Threshold
}
