// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/gigposter/internal/platform/respond"
	"github.com/taibuivan/gigposter/internal/platform/validate"
	"github.com/taibuivan/gigposter/pkg/convert"
)

// Handler exposes the search engine over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the search endpoint under /search.
func (handler *Handler) Routes(router chi.Router) {
	router.Get("/", handler.search)
}

// Response is the default body of GET /search.
type Response struct {
	Query     string   `json:"query"`
	PosterIDs []string `json:"poster_ids"`
}

/*
GET /api/v1/search?q=&threshold=&explain=

Description: Resolves q into ranked poster IDs. With explain=true the body
also carries the winning strategy, the query shape and the extracted date.

Response:
  - 200: Response or Resolution
  - 400: Validation error
  - 503: Catalogue unavailable or search timed out
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	input := Request{Query: params.Get(FieldQuery)}

	if raw := strings.TrimSpace(params.Get(FieldThreshold)); raw != "" {
		threshold := convert.ToFloat64(raw)
		if threshold == 0 && strings.Trim(raw, "0.") != "" {
			respond.Error(writer, request, validate.RequiredError(FieldThreshold, "Must be a number between 0 and 1"))
			return
		}
		input.Threshold = &threshold
	}

	resolution, err := handler.service.Search(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if convert.ToBool(params.Get("explain")) {
		respond.OK(writer, resolution)
		return
	}

	respond.OK(writer, Response{Query: resolution.Query, PosterIDs: resolution.PosterIDs})
}
