// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/platform/constants"
	"github.com/taibuivan/gigposter/internal/platform/dberr"
	"github.com/taibuivan/gigposter/pkg/slice"
)

// query is the per-call state shared by the strategies of one resolution.
type query struct {
	text      string
	date      DateInfo
	terms     Terms
	threshold float64
}

// strategy is one row of the cascade: a predicate and a matcher.
type strategy struct {
	name    string
	applies func(q *query) bool
	run     func(engine *Engine, ctx context.Context, q *query) ([]string, error)

	// terminal stops the cascade when the strategy applied, even without results.
	terminal bool
}

// cascade lists the strategies from most to least specific. The first one
// returning posters wins; nothing is merged across rows.
var cascade = []strategy{
	{
		name:     "exact_month_day",
		applies:  func(q *query) bool { return q.date.HasMonthDay() && q.terms.Text != "" },
		run:      (*Engine).exactMonthDay,
		terminal: true,
	},
	{
		name: "artist_city_year",
		applies: func(q *query) bool {
			return q.date.HasYearScope() && q.terms.HasCity() && len(q.terms.Splits) > 0
		},
		run: (*Engine).artistCityYear,
	},
	{
		name: "artist_year",
		applies: func(q *query) bool {
			return q.date.HasYearScope() && !q.terms.HasCity() && q.terms.Text != ""
		},
		run: (*Engine).artistYear,
	},
	{
		name: "artist_city",
		applies: func(q *query) bool {
			return !q.date.HasDate && q.terms.HasCity() && len(q.terms.Splits) > 0
		},
		run: (*Engine).artistCity,
	},
	{
		name: "city_only",
		applies: func(q *query) bool {
			return q.terms.MultiWordCity && q.terms.CityRemainder == ""
		},
		run: (*Engine).cityOnly,
	},
	{
		name:    "multi_artist",
		applies: func(q *query) bool { return len(q.terms.OrArtists) >= 2 },
		run:     (*Engine).multiArtist,
	},
	{
		name: "spelling_variants",
		applies: func(q *query) bool {
			return q.terms.Text != "" && len(SpellingVariants(q.terms.Text)) > 0
		},
		run: (*Engine).spellingVariants,
	},
	{
		name:    "generic",
		applies: func(q *query) bool { return q.terms.Text != "" || q.date.HasDate },
		run:     (*Engine).generic,
	},
}

// # Strategies

// exactMonthDay resolves the artist near-exactly, then posters linking that
// artist to an event on the requested month and day.
func (engine *Engine) exactMonthDay(ctx context.Context, q *query) ([]string, error) {
	artistIDs, err := engine.resolveArtist(ctx, q.terms.Text)
	if err != nil || len(artistIDs) == 0 {
		return nil, err
	}

	events, err := engine.catalog.FindEvents(ctx, q.date.EventFilter())
	if err != nil || len(events) == 0 {
		return nil, err
	}

	return engine.catalog.FindPosters(ctx, catalog.PosterFilter{
		ArtistIDs: artistIDs,
		EventIDs:  slice.Map(events, func(event catalog.Event) string { return event.ID }),
		Match:     catalog.MatchAll,
		Limit:     engine.limit,
	})
}

// artistCityYear tries every artist/place split within the year or range.
func (engine *Engine) artistCityYear(ctx context.Context, q *query) ([]string, error) {
	return engine.splitSearch(ctx, q, ShapeArtistVenueDate, constants.SearchVenueThreshold)
}

// artistCity tries every artist/place split with no date constraint.
func (engine *Engine) artistCity(ctx context.Context, q *query) ([]string, error) {
	return engine.splitSearch(ctx, q, ShapeArtistVenue, constants.SearchVenueThreshold)
}

// artistYear tries the artist candidates in order within the year or range.
func (engine *Engine) artistYear(ctx context.Context, q *query) ([]string, error) {
	documents, err := engine.catalog.ListCandidates(ctx, q.date.CandidateFilter())
	if err != nil || len(documents) == 0 {
		return nil, err
	}

	attempts := slice.Map(q.terms.ArtistCandidates, func(artist string) attempt {
		return func(context.Context) ([]string, error) {
			return IDs(Score(documents, engine.criteria(q, ShapeArtistDate, artist, "", constants.SearchVenueThreshold))), nil
		}
	})

	return engine.firstNonEmpty(ctx, "artist_year", attempts)
}

// cityOnly searches by place alone, with a looser cutoff for multi-word names.
func (engine *Engine) cityOnly(ctx context.Context, q *query) ([]string, error) {
	documents, err := engine.catalog.ListCandidates(ctx, q.date.CandidateFilter())
	if err != nil {
		return nil, err
	}

	criteria := engine.criteria(q, ShapeVenueOnly, "", q.terms.City, constants.SearchCityThreshold)
	return IDs(Score(documents, criteria)), nil
}

// multiArtist unions independent single-artist searches in the order typed.
func (engine *Engine) multiArtist(ctx context.Context, q *query) ([]string, error) {
	documents, err := engine.catalog.ListCandidates(ctx, q.date.CandidateFilter())
	if err != nil || len(documents) == 0 {
		return nil, err
	}

	results := make([][]string, len(q.terms.OrArtists))
	errs := make([]error, len(q.terms.OrArtists))

	var group sync.WaitGroup
	for i, artist := range q.terms.OrArtists {
		engine.submit(&group, func() {
			defer recoverInto(&errs[i], "multi_artist")

			shape := ShapeText
			if q.date.HasDate {
				shape = ShapeArtistDate
			}
			criteria := engine.criteria(q, shape, artist, artist, constants.SearchVenueThreshold)
			criteria.Text = artist
			results[i] = IDs(Score(documents, criteria))
		})
	}
	group.Wait()

	var union []string
	for i, ids := range results {
		if errs[i] != nil {
			engine.logger.Warn("search_combination_failed",
				slog.String("strategy", "multi_artist"),
				slog.String("artist", q.terms.OrArtists[i]),
				slog.Any("error", errs[i]),
			)
			continue
		}
		for _, id := range ids {
			if !slices.Contains(union, id) {
				union = append(union, id)
			}
		}
	}

	if len(union) > engine.limit {
		union = union[:engine.limit]
	}
	return union, nil
}

// spellingVariants reruns the generic search for each alternate spelling.
// Variants run one after another: the generic search already fans out on the pool.
func (engine *Engine) spellingVariants(ctx context.Context, q *query) ([]string, error) {
	for _, variant := range SpellingVariants(q.terms.Text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info := q.date
		info.RemainingText = variant

		ids, err := engine.generic(ctx, &query{
			text:      q.text,
			date:      info,
			terms:     engine.classifier.Classify(info),
			threshold: q.threshold,
		})
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return ids, nil
		}
	}
	return nil, nil
}

// generic is the catch-all combined fuzzy search over the classified shape.
func (engine *Engine) generic(ctx context.Context, q *query) ([]string, error) {
	documents, err := engine.catalog.ListCandidates(ctx, q.date.CandidateFilter())
	if err != nil || len(documents) == 0 {
		return nil, err
	}

	terms := q.terms
	switch terms.Shape {
	case ShapeArtistVenue, ShapeArtistVenueDate:
		ids, err := engine.scoreSplits(ctx, q, documents, terms.Shape, constants.SearchVenueThreshold)
		if err != nil || len(ids) > 0 || terms.VenueSignal {
			return ids, err
		}

		// Three bare words were only presumed to be artist plus place. They may
		// still be one long artist name, which then has to match almost exactly;
		// a place alone never qualifies.
		shape := ShapeArtistName
		if q.date.HasDate {
			shape = ShapeArtistDate
		}
		criteria := engine.criteria(q, shape, terms.Text, "", constants.SearchVenueThreshold)
		criteria.ArtistThreshold = constants.SearchWholeNameThreshold
		return IDs(Score(documents, criteria)), nil

	case ShapeVenueOnly:
		venue := terms.City
		if venue == "" {
			venue = terms.Text
		}
		threshold := constants.SearchVenueThreshold
		if terms.MultiWordCity {
			threshold = constants.SearchCityThreshold
		}
		return IDs(Score(documents, engine.criteria(q, ShapeVenueOnly, "", venue, threshold))), nil

	case ShapeMultiArtist:
		return IDs(Score(documents, engine.criteria(q, ShapeText, terms.Text, terms.Text, constants.SearchVenueThreshold))), nil
	}

	return IDs(Score(documents, engine.criteria(q, terms.Shape, terms.Text, terms.Text, constants.SearchVenueThreshold))), nil
}

// # Shared Steps

// splitSearch loads the candidates once and scores every split against them.
func (engine *Engine) splitSearch(ctx context.Context, q *query, shape Shape, venueThreshold float64) ([]string, error) {
	documents, err := engine.catalog.ListCandidates(ctx, q.date.CandidateFilter())
	if err != nil || len(documents) == 0 {
		return nil, err
	}
	return engine.scoreSplits(ctx, q, documents, shape, venueThreshold)
}

func (engine *Engine) scoreSplits(ctx context.Context, q *query, documents []*catalog.PosterDocument, shape Shape, venueThreshold float64) ([]string, error) {
	attempts := slice.Map(q.terms.Splits, func(split Split) attempt {
		return func(context.Context) ([]string, error) {
			threshold := venueThreshold
			if split.Venue == q.terms.City && q.terms.MultiWordCity {
				threshold = min(threshold, constants.SearchCityThreshold)
			}
			return IDs(Score(documents, engine.criteria(q, shape, split.Artist, split.Venue, threshold))), nil
		}
	})
	return engine.firstNonEmpty(ctx, shape.String(), attempts)
}

/*
resolveArtist finds the artist a query names with the least fuzziness possible.

Description: Case-insensitive equality wins outright, then substring containment
in either direction, then the single best trigram match. Ties at the fuzzy
tier go to the higher Jaro-Winkler similarity.
*/
func (engine *Engine) resolveArtist(ctx context.Context, text string) ([]int, error) {
	matches, err := engine.catalog.FindArtists(ctx, text, constants.SearchArtistThreshold, 0)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))

	var equal, substring []int
	for _, match := range matches {
		name := strings.ToLower(match.Name)
		switch {
		case name == needle:
			equal = append(equal, match.ID)
		case strings.Contains(name, needle) || strings.Contains(needle, name):
			substring = append(substring, match.ID)
		}
	}
	if len(equal) > 0 {
		return equal, nil
	}
	if len(substring) > 0 {
		return substring, nil
	}
	if len(matches) == 0 {
		return nil, nil
	}

	best := matches[0]
	bestJW := edlib.JaroWinklerSimilarity(needle, strings.ToLower(best.Name))
	for _, match := range matches[1:] {
		if match.Similarity < best.Similarity {
			break
		}
		if jw := edlib.JaroWinklerSimilarity(needle, strings.ToLower(match.Name)); jw > bestJW {
			best, bestJW = match, jw
		}
	}

	return []int{best.ID}, nil
}

// criteria assembles one scoring pass for q.
func (engine *Engine) criteria(q *query, shape Shape, artist, venue string, venueThreshold float64) Criteria {
	return Criteria{
		Shape:            shape,
		Artist:           artist,
		Venue:            venue,
		Text:             q.terms.Text,
		Date:             q.date,
		LikelyArtistOnly: q.terms.LikelyArtistOnly,
		ArtistThreshold:  constants.SearchArtistThreshold,
		VenueThreshold:   venueThreshold,
		Threshold:        q.threshold,
		Limit:            engine.limit,
	}
}

// # Concurrent Combinations

// attempt is one candidate combination inside a strategy.
type attempt func(ctx context.Context) ([]string, error)

/*
firstNonEmpty runs attempts concurrently on the worker pool and returns the
result of the lowest-indexed attempt that found posters.

Description: The winner depends only on attempt order, never on completion
order. A failing attempt is logged and skipped unless the catalogue itself is
unavailable.
*/
func (engine *Engine) firstNonEmpty(ctx context.Context, name string, attempts []attempt) ([]string, error) {
	results := make([][]string, len(attempts))
	errs := make([]error, len(attempts))

	var group sync.WaitGroup
	for i, run := range attempts {
		engine.submit(&group, func() {
			defer recoverInto(&errs[i], name)
			results[i], errs[i] = run(ctx)
		})
	}
	group.Wait()

	for i := range attempts {
		if err := errs[i]; err != nil {
			if dberr.IsUnavailable(err) || ctx.Err() != nil {
				return nil, err
			}
			engine.logger.Warn("search_combination_failed",
				slog.String("strategy", name),
				slog.Int("combination", i),
				slog.Any("error", err),
			)
			continue
		}
		if len(results[i]) > 0 {
			return results[i], nil
		}
	}
	return nil, nil
}

// submit schedules task on the pool, running it inline if the pool refuses it.
func (engine *Engine) submit(group *sync.WaitGroup, task func()) {
	group.Add(1)
	wrapped := func() {
		defer group.Done()
		task()
	}
	if err := engine.pool.Submit(wrapped); err != nil {
		wrapped()
	}
}

func recoverInto(target *error, name string) {
	if recovered := recover(); recovered != nil {
		*target = fmt.Errorf("search: %s panicked: %v", name, recovered)
	}
}
