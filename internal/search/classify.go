// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// # Query Shapes

// Shape is the structure the classifier guessed for a query.
type Shape int

const (
	// ShapeText is free text with no confidently detected components.
	ShapeText Shape = iota

	// ShapeArtistVenue is an artist followed or preceded by a place.
	ShapeArtistVenue

	// ShapeArtistDate is an artist with a date.
	ShapeArtistDate

	// ShapeArtistVenueDate is an artist, a place and a date.
	ShapeArtistVenueDate

	// ShapeVenueOnly names only a place.
	ShapeVenueOnly

	// ShapeMultiArtist is several artists joined by "or".
	ShapeMultiArtist

	// ShapeDateOnly is nothing but a date.
	ShapeDateOnly

	// ShapeArtistName reads the whole text as one artist name.
	ShapeArtistName
)

var shapeNames = map[Shape]string{
	ShapeText:            "text",
	ShapeArtistVenue:     "artist_venue",
	ShapeArtistDate:      "artist_date",
	ShapeArtistVenueDate: "artist_venue_date",
	ShapeVenueOnly:       "venue_only",
	ShapeMultiArtist:     "multi_artist",
	ShapeDateOnly:        "date_only",
	ShapeArtistName:      "artist_name",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// HasArtist reports whether the shape requires an artist match.
func (s Shape) HasArtist() bool {
	return s == ShapeArtistVenue || s == ShapeArtistDate || s == ShapeArtistVenueDate || s == ShapeArtistName
}

// HasVenue reports whether the shape requires a venue match.
func (s Shape) HasVenue() bool {
	return s == ShapeArtistVenue || s == ShapeArtistVenueDate || s == ShapeVenueOnly
}

// HasDate reports whether the shape requires a date match.
func (s Shape) HasDate() bool {
	return s == ShapeArtistDate || s == ShapeArtistVenueDate || s == ShapeDateOnly
}

// # Terms

// Split is one way of dividing the remaining text into an artist part and a place part.
type Split struct {
	Artist string `json:"artist"`
	Venue  string `json:"venue"`
}

// Terms is the classifier's reading of the non-date part of a query.
type Terms struct {
	// Text is the remaining text with stop words removed; it keeps short tokens.
	Text string `json:"text"`

	// Tokens are the words of Text longer than one character.
	Tokens []string `json:"tokens"`

	// City is a recognised city span (multi-word, or a known single-word city).
	City          string `json:"city,omitempty"`
	CityRemainder string `json:"city_remainder,omitempty"`
	MultiWordCity bool   `json:"multi_word_city,omitempty"`

	// VenueSignal is set when a venue keyword or known city appears.
	VenueSignal bool `json:"venue_signal"`

	// LikelyVenue adds the "three or more tokens" presumption to VenueSignal.
	LikelyVenue bool `json:"likely_venue"`

	// LikelyArtistOnly marks exactly two tokens with no venue evidence ("Flying Lotus").
	LikelyArtistOnly bool `json:"likely_artist_only"`

	ArtistCandidates []string `json:"artist_candidates,omitempty"`
	VenueCandidates  []string `json:"venue_candidates,omitempty"`
	Splits           []Split  `json:"splits,omitempty"`
	OrArtists        []string `json:"or_artists,omitempty"`

	Shape Shape `json:"-"`
}

// HasCity reports whether any place evidence was found.
func (terms Terms) HasCity() bool {
	return terms.City != "" || terms.VenueSignal
}

// # Classification

var orSeparator = regexp.MustCompile(`(?i)\s+or\s+`)

// Classifier labels the parts of a query. It is safe for concurrent use.
type Classifier struct {
	lexicon *Lexicon
}

func NewClassifier(lexicon *Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

/*
Classify reads the text left over after date extraction.

Description: "or" is detected before stop words are removed, since "or" is
itself a stop word. Everything else works on the filtered text.
*/
func (classifier *Classifier) Classify(info DateInfo) Terms {
	lexicon := classifier.lexicon

	terms := Terms{Text: lexicon.RemoveStopWords(info.RemainingText)}

	for _, token := range strings.Fields(terms.Text) {
		if utf8.RuneCountInString(token) > 1 {
			terms.Tokens = append(terms.Tokens, token)
		}
	}

	// Multi-artist "A or B"
	if parts := orSeparator.Split(info.RemainingText, -1); len(parts) > 1 {
		for _, part := range parts {
			part = lexicon.RemoveStopWords(strings.TrimSpace(part))
			if utf8.RuneCountInString(part) >= 2 && !slices.Contains(terms.OrArtists, part) {
				terms.OrArtists = append(terms.OrArtists, part)
			}
		}
		if len(terms.OrArtists) < 2 {
			terms.OrArtists = nil
		}
	}

	// Place evidence
	if start, end, ok := lexicon.MultiWordCity(terms.Text); ok {
		terms.City = terms.Text[start:end]
		terms.CityRemainder = collapse(terms.Text[:start] + " " + terms.Text[end:])
		terms.MultiWordCity = true
	} else {
		for i, token := range terms.Tokens {
			if lexicon.IsCity(token) {
				terms.City = token
				rest := slices.Concat(terms.Tokens[:i], terms.Tokens[i+1:])
				terms.CityRemainder = strings.Join(rest, " ")
				break
			}
		}
	}

	terms.VenueSignal = terms.City != "" || lexicon.HasVenueKeyword(terms.Text)
	terms.LikelyVenue = terms.VenueSignal || len(terms.Tokens) >= 3
	terms.LikelyArtistOnly = len(terms.Tokens) == 2 && !terms.LikelyVenue

	terms.ArtistCandidates = artistCandidates(terms.Text, terms.Tokens)
	terms.VenueCandidates = venueCandidates(terms.Text, terms.Tokens)
	terms.Splits = splits(terms)
	terms.Shape = shapeOf(terms, info)

	return terms
}

// artistCandidates lists substrings that may be the artist: the whole text,
// the first token, the first two, all but the last, all but the first two.
func artistCandidates(text string, tokens []string) []string {
	candidates := []string{text}
	if n := len(tokens); n > 0 {
		candidates = append(candidates, tokens[0])
		if n >= 2 {
			candidates = append(candidates, strings.Join(tokens[:2], " "), strings.Join(tokens[:n-1], " "))
		}
		if n >= 3 {
			candidates = append(candidates, strings.Join(tokens[2:], " "))
		}
	}
	return distinct(candidates)
}

// venueCandidates lists substrings that may be the place, most likely first:
// the last token, all but the first, the first token (a leading place), then
// for longer queries all but the first two and the last two, and finally the
// whole text.
func venueCandidates(text string, tokens []string) []string {
	var candidates []string
	if n := len(tokens); n > 0 {
		candidates = append(candidates, tokens[n-1])
		if n >= 2 {
			candidates = append(candidates, strings.Join(tokens[1:], " "), tokens[0])
		}
		if n >= 4 {
			candidates = append(candidates, strings.Join(tokens[2:], " "), strings.Join(tokens[n-2:], " "))
		}
	}
	candidates = append(candidates, text)
	return distinct(candidates)
}

// splits pairs a recognised city, then every venue candidate, with the words
// around it as the artist.
func splits(terms Terms) []Split {
	var result []Split
	add := func(artist, venue string) {
		if artist == "" || venue == "" {
			return
		}
		split := Split{Artist: artist, Venue: venue}
		if !slices.Contains(result, split) {
			result = append(result, split)
		}
	}

	if terms.City != "" {
		add(terms.CityRemainder, terms.City)
	}

	joined := strings.Join(terms.Tokens, " ")
	for _, venue := range terms.VenueCandidates {
		if artist, ok := strings.CutSuffix(joined, " "+venue); ok {
			add(artist, venue)
		} else if artist, ok := strings.CutPrefix(joined, venue+" "); ok {
			add(artist, venue)
		}
	}

	return result
}

func shapeOf(terms Terms, info DateInfo) Shape {
	switch {
	case len(terms.OrArtists) >= 2:
		return ShapeMultiArtist
	case terms.Text == "" && info.HasDate:
		return ShapeDateOnly
	case terms.City != "" && terms.CityRemainder == "":
		return ShapeVenueOnly
	case len(terms.Tokens) >= 2 && terms.LikelyVenue && len(terms.Splits) > 0:
		if info.HasDate {
			return ShapeArtistVenueDate
		}
		return ShapeArtistVenue
	case info.HasDate:
		return ShapeArtistDate
	}
	return ShapeText
}

func distinct(values []string) []string {
	var result []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" && !slices.Contains(result, value) {
			result = append(result, value)
		}
	}
	return result
}
