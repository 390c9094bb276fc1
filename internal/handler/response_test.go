package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/service"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "domain rule violation",
			err:        domain.ErrRatingOutOfRange,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    domain.ErrRatingOutOfRange.Error(),
		},
		{
			name:       "wrapped domain rule violation",
			err:        errors.Join(errors.New("context"), domain.ErrActorInMovie),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing resource",
			err:        domain.ErrNoMovie,
			wantStatus: http.StatusNotFound,
			wantMsg:    domain.ErrNoMovie.Error(),
		},
		{
			name:       "invalid credentials",
			err:        service.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			err:        service.ErrInvalidToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "duplicate entity",
			err:        service.ErrMovieExists,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    service.ErrMovieExists.Error(),
		},
		{
			name:       "malformed request",
			err:        badRequest("name is required"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "name is required",
		},
		{
			name:       "unexpected error hides cause",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    service.ErrInternalError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)

			writeError(zerolog.Nop(), rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, body.Error, "connection refused")
			}
		})
	}
}
