package handlers

import (
	"net/http"
	"strings"

	"github.com/blakestevenson/moodreel/internal/catalog"
	"github.com/blakestevenson/moodreel/internal/history"
	"github.com/blakestevenson/moodreel/internal/httputil"
	"go.uber.org/zap"
)

const (
	// maxQueryLength bounds the mood prompt forwarded upstream
	maxQueryLength = 500

	// maxBodyBytes caps JSON and form request bodies
	maxBodyBytes = 4 << 10
)

// limitBody stops reading a request body past maxBodyBytes
func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
}

// CatalogHandler serves movie listings as JSON
type CatalogHandler struct {
	catalog catalog.Service
	history *history.Service
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler. history may be nil.
func NewCatalogHandler(service catalog.Service, history *history.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: service,
		history: history,
		logger:  logger,
	}
}

type recommendRequest struct {
	Query string `json:"query"`
}

type listResponse struct {
	Movies []catalog.MovieCard `json:"movies"`
}

// Recommend handles POST /api/recommendations
func (h *CatalogHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req recommendRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query, ok := normalizeQuery(req.Query)
	if !ok {
		httputil.RespondErrorMessage(w, http.StatusBadRequest, "query is too long")
		return
	}

	result := recommend(r, h.catalog, h.history, query)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// Trending handles GET /api/trending
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, listResponse{Movies: h.catalog.Trending(r.Context())})
}

// PopularMovies handles GET /api/movies/popular
func (h *CatalogHandler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, listResponse{Movies: h.catalog.PopularMovies(r.Context())})
}

// PopularShows handles GET /api/tv/popular
func (h *CatalogHandler) PopularShows(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, listResponse{Movies: h.catalog.PopularShows(r.Context())})
}

// Genres handles GET /api/genres
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	table := h.catalog.Genres(r.Context())
	if table == nil {
		table = catalog.GenreTable{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]catalog.GenreTable{"genres": table})
}

// normalizeQuery trims the query and rejects oversized input
func normalizeQuery(raw string) (string, bool) {
	query := strings.TrimSpace(raw)
	if len(query) > maxQueryLength {
		return "", false
	}
	return query, true
}

// recommend runs a recommendation and logs it for a signed-in user
func recommend(r *http.Request, service catalog.Service, hist *history.Service, query string) *catalog.Result {
	result := service.Recommend(r.Context(), query)

	if hist != nil && query != "" {
		if claims, ok := getUserClaims(r); ok {
			hist.Record(r.Context(), claims.UserID, query, len(result.Cards), result.Fallback)
		}
	}
	return result
}
