// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command postersearch runs the search engine from a terminal, against either
// a live PostgreSQL catalogue or a TOML catalogue snapshot.
//
//	postersearch --catalog catalog.toml "Phish 12/31"
//	postersearch --database-url postgres://... --explain "Grateful Dead Seattle"
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/platform/constants"
	pgstore "github.com/taibuivan/gigposter/internal/platform/postgres"
	"github.com/taibuivan/gigposter/internal/search"
)

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "postersearch",
		Usage:     "Resolve a free-text query to gig posters",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "TOML catalogue snapshot to search instead of PostgreSQL",
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL connection URL",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:  "lexicon",
				Usage: "TOML lexicon overriding the built-in vocabulary",
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Usage: "Minimum similarity for fuzzy matches",
				Value: constants.SearchDefaultThreshold,
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Show the detected shape, strategy and date",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log strategy attempts to stderr",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			text := strings.Join(command.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return cli.Exit("a query is required", 2)
			}

			repository, closeRepository, err := openRepository(ctx, command)
			if err != nil {
				return err
			}
			defer closeRepository()

			options := []search.Option{search.WithLogger(newLogger(command.Bool("debug")))}
			if path := command.String("lexicon"); path != "" {
				lexicon, err := search.LoadLexicon(path)
				if err != nil {
					return err
				}
				options = append(options, search.WithLexicon(lexicon))
			}

			engine, err := search.NewEngine(repository, options...)
			if err != nil {
				return err
			}
			defer engine.Release()

			resolution, err := engine.Resolve(ctx, text, command.Float("threshold"))
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			return render(ctx, out, repository, resolution, command.Bool("explain"))
		},
	}
}

// openRepository picks the snapshot when --catalog is set and PostgreSQL otherwise.
func openRepository(ctx context.Context, command *cli.Command) (catalog.Repository, func(), error) {
	if path := command.String("catalog"); path != "" {
		snapshot, err := catalog.LoadSnapshot(path)
		if err != nil {
			return nil, nil, err
		}
		repository, err := catalog.NewMemoryRepository(*snapshot)
		if err != nil {
			return nil, nil, err
		}
		return repository, func() {}, nil
	}

	dsn := command.String("database-url")
	if dsn == "" {
		return nil, nil, cli.Exit("either --catalog or --database-url is required", 2)
	}

	pool, err := pgstore.NewPool(ctx, dsn, newLogger(command.Bool("debug")))
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewPostgresRepository(pool), pool.Close, nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
