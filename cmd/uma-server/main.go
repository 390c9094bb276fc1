// Package main is the entry point for the Uma movie catalogue server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/auth"
	"github.com/uma-movies/uma-server/internal/cache/memory"
	rediscache "github.com/uma-movies/uma-server/internal/cache/redis"
	"github.com/uma-movies/uma-server/internal/config"
	"github.com/uma-movies/uma-server/internal/handler"
	"github.com/uma-movies/uma-server/internal/metrics"
	"github.com/uma-movies/uma-server/internal/pkg/crypto"
	"github.com/uma-movies/uma-server/internal/repository"
	"github.com/uma-movies/uma-server/internal/repository/postgres"
	"github.com/uma-movies/uma-server/internal/repository/sqlite"
	"github.com/uma-movies/uma-server/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting uma server")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer backend.Database.Close()

	cache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	repos := backend.Repos
	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)

	actorService := service.NewActorService(repos.Actor, logger)
	genreService := service.NewGenreService(repos.Genre, repos.Movie, repos.Actor, logger)
	movieService := service.NewMovieService(repos.Movie, repos.Actor, repos.Genre, logger)
	userService := service.NewUserService(repos.User, repos.Movie, hasher, cache, cfg.Auth.TokenCacheTTL, logger)

	router := handler.NewRouter(handler.RouterConfig{
		ActorService: actorService,
		GenreService: genreService,
		MovieService: movieService,
		UserService:  userService,
		Auth:         auth.NewMiddleware(userService, logger),
		Database:     backend.Database,
		MaxBodySize:  cfg.Server.MaxBodySize,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("api server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			logger.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
	return nil
}

// newBackend selects the repository backend from the configured driver.
func newBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Backend, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return postgres.NewBackend(ctx, cfg.Database, logger)
	default:
		return sqlite.NewBackend(ctx, cfg.Database, logger)
	}
}

// newCache returns the redis-backed token cache when enabled, otherwise the
// in-process cache.
func newCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Cache, error) {
	if !cfg.Redis.Enabled {
		logger.Debug().Msg("redis disabled, using in-memory cache")
		return memory.NewCache(), nil
	}

	cache, err := rediscache.NewCache(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("addr", cfg.Redis.Addr()).Msg("connected to redis")
	return cache, nil
}

// newLogger builds the process logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(out)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
