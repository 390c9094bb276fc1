package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/auth"
	"github.com/uma-movies/uma-server/internal/repository"
	"github.com/uma-movies/uma-server/internal/service"
)

// RouterConfig contains the collaborators needed to build the API router.
type RouterConfig struct {
	ActorService *service.ActorService
	GenreService *service.GenreService
	MovieService *service.MovieService
	UserService  *service.UserService
	Auth         *auth.Middleware
	Database     repository.DatabaseHealth
	MaxBodySize  int64
	Logger       zerolog.Logger
}

// NewRouter assembles the versioned API. Register and login are open;
// everything else under /v1 requires a bearer API token.
func NewRouter(cfg RouterConfig) http.Handler {
	actors := NewActorHandler(cfg.ActorService, cfg.Logger)
	genres := NewGenreHandler(cfg.GenreService, cfg.Logger)
	movies := NewMovieHandler(cfg.MovieService, cfg.Logger)
	users := NewUserHandler(cfg.UserService, cfg.Logger)
	health := NewHealthHandler(cfg.Database, cfg.Logger)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(cfg.Logger))
	r.Use(recoverer(cfg.Logger))
	r.Use(maxBody(cfg.MaxBodySize))

	r.Get("/health", health.Check)

	r.Route("/v1", func(r chi.Router) {
		users.RegisterOpenRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth.RequireUser)
			users.RegisterRoutes(r)
			actors.RegisterRoutes(r)
			genres.RegisterRoutes(r)
			movies.RegisterRoutes(r)
		})
	})

	return r
}
