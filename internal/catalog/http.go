package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/gigposter/internal/platform/request"
	"github.com/taibuivan/gigposter/internal/platform/respond"
	"github.com/taibuivan/gigposter/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PosterRoutes mounts poster browsing under /posters.
func (handler *Handler) PosterRoutes(router chi.Router) {
	router.Get("/", handler.listPosters)
	router.Get("/{id}", handler.getPoster)
}

// ArtistRoutes mounts artist browsing under /artists.
func (handler *Handler) ArtistRoutes(router chi.Router) {
	router.Get("/", handler.listArtists)
}

// VenueRoutes mounts venue browsing under /venues.
func (handler *Handler) VenueRoutes(router chi.Router) {
	router.Get("/", handler.listVenues)
}

func (handler *Handler) listPosters(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get(FieldQuery),
	}

	posters, total, err := handler.service.ListPosters(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posters, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getPoster(writer http.ResponseWriter, request *http.Request) {
	poster, err := handler.service.GetPoster(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, poster)
}

func (handler *Handler) listArtists(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get(FieldQuery),
	}

	artists, total, err := handler.service.ListArtists(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, artists, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listVenues(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get(FieldQuery),
	}

	venues, total, err := handler.service.ListVenues(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, venues, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
