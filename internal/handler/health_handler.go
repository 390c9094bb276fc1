package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/repository"
)

// HealthHandler reports liveness of the server and its database.
type HealthHandler struct {
	database repository.DatabaseHealth
	logger   zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(database repository.DatabaseHealth, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		database: database,
		logger:   logger.With().Str("handler", "health").Logger(),
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Check responds 200 when the database answers a ping, 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.database.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "degraded",
			Database: "unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "ok",
	})
}
