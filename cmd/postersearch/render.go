// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/search"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("33"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	explainStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))
)

// render prints the ranked posters, looking up titles for display.
func render(ctx context.Context, out io.Writer, repository catalog.Repository, resolution *search.Resolution, explain bool) error {
	if explain {
		fmt.Fprintln(out, explainStyle.Render(describe(resolution)))
	}

	if len(resolution.PosterIDs) == 0 {
		fmt.Fprintln(out, noDataStyle.Render("No posters found"))
		return nil
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d poster(s) for %q", len(resolution.PosterIDs), resolution.Query)))
	for i, id := range resolution.PosterIDs {
		document, err := repository.GetPoster(ctx, id)
		if err != nil {
			return fmt.Errorf("loading poster %s: %w", id, err)
		}
		fmt.Fprintf(out, "%2d. %s  %s\n", i+1, idStyle.Render(id), document.Poster.Title)
		if venues := venueNames(document); venues != "" {
			fmt.Fprintf(out, "    %s\n", metaStyle.Render(venues))
		}
	}
	return nil
}

func describe(resolution *search.Resolution) string {
	strategy := resolution.Strategy
	if strategy == "" {
		strategy = "none"
	}

	lines := []string{
		"shape:    " + resolution.Shape,
		"strategy: " + strategy,
	}
	if date := resolution.Date; date.HasDate {
		lines = append(lines, fmt.Sprintf("date:     %q", date.Phrase))
		if date.IsRange && date.StartDate != nil && date.EndDate != nil {
			lines = append(lines, fmt.Sprintf("range:    %s .. %s", date.StartDate.Format("2006-01-02"), date.EndDate.Format("2006-01-02")))
		}
		for _, part := range []struct {
			label string
			value *int
		}{{"year", date.Year}, {"month", date.Month}, {"day", date.Day}} {
			if part.value != nil {
				lines = append(lines, fmt.Sprintf("%-9s %d", part.label+":", *part.value))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func venueNames(document *catalog.PosterDocument) string {
	parts := make([]string, 0, len(document.Events))
	for _, detail := range document.Events {
		parts = append(parts, fmt.Sprintf("%s, %s · %s", detail.Venue.Name, detail.Venue.City, detail.Event.Date.Format("2006-01-02")))
	}
	return strings.Join(parts, " | ")
}
