package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/domain"
)

// TokenResolver resolves a bearer token to the user owning it.
type TokenResolver interface {
	GetByAPIToken(ctx context.Context, token string) (*domain.User, error)
}

// Middleware authenticates requests with a bearer API token.
type Middleware struct {
	resolver TokenResolver
	logger   zerolog.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(resolver TokenResolver, logger zerolog.Logger) *Middleware {
	return &Middleware{
		resolver: resolver,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// RequireUser rejects requests without a valid API token and injects the
// authenticated user into the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			m.unauthorized(w, "missing authorization token")
			return
		}

		user, err := m.resolver.GetByAPIToken(r.Context(), token)
		if err != nil {
			m.logger.Debug().Str("path", r.URL.Path).Msg("rejected invalid token")
			m.unauthorized(w, "invalid authorization token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// extractBearerToken reads the token from the Authorization header.
// Both "Bearer <token>" and a bare token value are accepted.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
