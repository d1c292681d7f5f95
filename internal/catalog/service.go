package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/gigposter/internal/platform/constants"
	"github.com/taibuivan/gigposter/internal/platform/validate"
)

// Service exposes read-only browsing over the catalogue.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListPosters(context context.Context, filter Filter, limit, offset int) ([]*Poster, int, error) {
	validator := &validate.Validator{}
	validator.MaxLen(FieldQuery, filter.Query, constants.SearchMaxQueryLength)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	text := strings.TrimSpace(filter.Query)
	minSimilarity := 0.0
	if text != "" {
		minSimilarity = constants.BrowseSimilarity
	}

	return service.repo.SearchPosters(context, text, minSimilarity, limit, offset)
}

func (service *Service) GetPoster(context context.Context, id string) (*PosterDocument, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.GetPoster(context, id)
}

func (service *Service) ListArtists(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error) {
	return service.repo.ListArtists(context, filter, limit, offset)
}

func (service *Service) ListVenues(context context.Context, filter Filter, limit, offset int) ([]*Venue, int, error) {
	return service.repo.ListVenues(context, filter, limit, offset)
}

// Ping reports catalogue reachability to health probes.
func (service *Service) Ping(context context.Context) error {
	if err := service.repo.Ping(context); err != nil {
		service.logger.Warn("catalog_unreachable", slog.Any("error", err))
		return err
	}
	return nil
}
