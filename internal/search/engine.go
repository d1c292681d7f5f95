// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search resolves free-text catalogue queries into ranked poster IDs.

A query flows through four stages:

  - Normalisation: whitespace is collapsed and too-short input is rejected.
  - Date extraction: explicit, spelled-out and relative dates are split off.
  - Classification: the remainder is read as artist, place, or plain text.
  - Cascade: strategies are tried from most to least specific; the first with results wins.

The [Engine] holds no per-query state. Everything a query needs lives in
values built for that call, so one engine serves any number of goroutines.
*/
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/platform/constants"
	"github.com/taibuivan/gigposter/internal/platform/dberr"
)

// ErrCatalogRequired is returned by [NewEngine] without a catalogue.
var ErrCatalogRequired = errors.New("search: catalog repository is required")

// defaultPoolSize bounds concurrent combination attempts across all queries.
const defaultPoolSize = 4

// # Engine

// Engine runs the strategy cascade against a read-only catalogue.
type Engine struct {
	catalog    catalog.Repository
	lexicon    *Lexicon
	dates      *DateExtractor
	classifier *Classifier
	pool       *ants.Pool
	logger     *slog.Logger
	now        func() time.Time
	limit      int
}

// Option configures an [Engine].
type Option func(*Engine) error

// WithLogger sets the logger for recovered strategy failures.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(engine *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		engine.logger = logger
		return nil
	}
}

// WithLexicon replaces the embedded vocabulary.
func WithLexicon(lexicon *Lexicon) Option {
	return func(engine *Engine) error {
		if lexicon != nil {
			engine.lexicon = lexicon
		}
		return nil
	}
}

// WithPoolSize sets how many combination attempts may run at once.
func WithPoolSize(size int) Option {
	return func(engine *Engine) error {
		if size < 1 {
			size = 1
		}
		if engine.pool != nil {
			engine.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		engine.pool = pool
		return nil
	}
}

// WithClock fixes the reference time for relative dates such as "next month".
func WithClock(now func() time.Time) Option {
	return func(engine *Engine) error {
		if now != nil {
			engine.now = now
		}
		return nil
	}
}

// WithLimit caps how many poster IDs one query returns.
func WithLimit(limit int) Option {
	return func(engine *Engine) error {
		if limit > 0 {
			engine.limit = limit
		}
		return nil
	}
}

// NewEngine creates an engine over repository. Call [Engine.Release] when done.
func NewEngine(repository catalog.Repository, opts ...Option) (*Engine, error) {
	if repository == nil {
		return nil, ErrCatalogRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		catalog: repository,
		lexicon: DefaultLexicon(),
		pool:    pool,
		logger:  slog.Default(),
		now:     time.Now,
		limit:   constants.SearchResultLimit,
	}

	for _, opt := range opts {
		if optErr := opt(engine); optErr != nil {
			engine.Release()
			return nil, optErr
		}
	}

	engine.dates = NewDateExtractor(engine.lexicon, engine.now)
	engine.classifier = NewClassifier(engine.lexicon)

	return engine, nil
}

// Release frees the worker pool.
func (engine *Engine) Release() {
	if engine.pool != nil {
		engine.pool.Release()
	}
}

// # Resolution

// Resolution explains how a query was answered.
type Resolution struct {
	Query     string   `json:"query"`
	PosterIDs []string `json:"poster_ids"`
	Strategy  string   `json:"strategy,omitempty"`
	Shape     string   `json:"shape,omitempty"`
	Date      DateInfo `json:"date"`
	Terms     *Terms   `json:"terms,omitempty"`
}

/*
Search returns the IDs of the posters best matching text.

Parameters:
  - ctx: context.Context (Checked between strategies)
  - text: string (Raw user input)
  - threshold: float64 (Minimum score for the generic strategy; out of range uses the default)

Returns:
  - []string: Ranked poster IDs, empty but never nil when nothing matches
  - error: Only when the catalogue is unavailable or ctx is done
*/
func (engine *Engine) Search(ctx context.Context, text string, threshold float64) ([]string, error) {
	resolution, err := engine.Resolve(ctx, text, threshold)
	if err != nil {
		return nil, err
	}
	return resolution.PosterIDs, nil
}

// Resolve is [Engine.Search] with the winning strategy and the query reading attached.
func (engine *Engine) Resolve(ctx context.Context, text string, threshold float64) (*Resolution, error) {
	resolution := &Resolution{Query: text, PosterIDs: []string{}}

	cleaned, ok := Clean(text)
	if !ok {
		return resolution, nil
	}

	if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
		threshold = constants.SearchDefaultThreshold
	}

	info, terms := engine.read(cleaned)
	q := &query{text: cleaned, date: info, terms: terms, threshold: threshold}

	resolution.Date = info
	resolution.Terms = &terms
	resolution.Shape = terms.Shape.String()

	for _, step := range cascade {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.applies(q) {
			continue
		}

		ids, err := engine.attempt(ctx, step, q)

		// Partial work of an interrupted strategy is discarded.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if err != nil {
			if dberr.IsUnavailable(err) {
				return nil, err
			}
			engine.logger.Warn("search_strategy_failed",
				slog.String("strategy", step.name),
				slog.String("query", cleaned),
				slog.Any("error", err),
			)
			continue
		}

		if len(ids) > 0 {
			resolution.PosterIDs = ids
			resolution.Strategy = step.name
			engine.logger.Debug("search_resolved",
				slog.String("strategy", step.name),
				slog.String("shape", resolution.Shape),
				slog.Int("results", len(ids)),
			)
			return resolution, nil
		}

		if step.terminal {
			resolution.Strategy = step.name
			return resolution, nil
		}
	}

	return resolution, nil
}

// read extracts the date and classifies the rest of cleaned. A failing date
// parse degrades to a query without a date instead of failing the search.
func (engine *Engine) read(cleaned string) (DateInfo, Terms) {
	info, err := guard("date_extraction", func() DateInfo { return engine.dates.Extract(cleaned) })
	if err != nil {
		engine.logger.Warn("search_query_unreadable", slog.String("query", cleaned), slog.Any("error", err))
		info = DateInfo{RemainingText: cleaned}
	}

	terms, err := guard("classification", func() Terms { return engine.classifier.Classify(info) })
	if err != nil {
		engine.logger.Warn("search_query_unreadable", slog.String("query", cleaned), slog.Any("error", err))
		terms = Terms{Text: info.RemainingText, Tokens: strings.Fields(info.RemainingText), Shape: ShapeText}
		if info.HasDate {
			terms.Shape = ShapeArtistDate
		}
	}

	return info, terms
}

// guard runs step, converting a panic into an error.
func guard[T any](name string, step func() T) (result T, err error) {
	defer recoverInto(&err, name)
	return step(), nil
}

// attempt runs one strategy, converting a panic into an error.
func (engine *Engine) attempt(ctx context.Context, step strategy, q *query) (ids []string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("search: strategy %s panicked: %v", step.name, recovered)
		}
	}()
	return step.run(engine, ctx, q)
}
