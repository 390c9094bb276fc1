// Package handler provides the HTTP API for the Uma movie catalogue.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// listResponse is the envelope for paginated collection responses.
type listResponse struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// writeJSON renders v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps err onto its HTTP status and renders the error envelope.
// Business-rule violations surface as 422, missing resources as 404 and
// credential failures as 401. Anything unrecognized is a 500: the real cause
// is logged and the client only sees a generic message.
func writeError(logger zerolog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	var noResource *domain.NoResourceError

	switch {
	case errors.As(err, &domainErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: domainErr.Error()})
	case errors.As(err, &noResource):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: noResource.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrActorExists),
		errors.Is(err, service.ErrGenreExists),
		errors.Is(err, service.ErrMovieExists),
		errors.Is(err, service.ErrUserExists):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.As(err, new(*requestError)):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: service.ErrInternalError.Error()})
	}
}
