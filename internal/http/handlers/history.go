package handlers

import (
	"net/http"
	"strconv"

	"github.com/blakestevenson/moodreel/internal/history"
	"github.com/blakestevenson/moodreel/internal/httputil"
	"go.uber.org/zap"
)

// HistoryHandler serves a user's mood query log
type HistoryHandler struct {
	history *history.Service
	logger  *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *history.Service, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: service,
		logger:  logger,
	}
}

// List handles GET /api/me/moods
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := getUserClaims(r)
	if !ok {
		httputil.RespondErrorMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.history.List(r.Context(), claims.UserID, limit)
	if err != nil {
		httputil.LogError(h.logger, err, "failed to list mood history", zap.Int64("user_id", claims.UserID))
		httputil.RespondErrorMessage(w, http.StatusInternalServerError, "failed to list mood history")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"moods": entries,
	})
}
