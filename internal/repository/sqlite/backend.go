package sqlite

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/config"
	"github.com/uma-movies/uma-server/internal/repository"
)

// Open opens the SQLite database described by cfg without touching the
// schema.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	dbCfg := DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		dbCfg.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		dbCfg.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.CacheSize != 0 {
		dbCfg.CacheSize = cfg.CacheSize
	}
	if cfg.SynchronousMode != "" {
		dbCfg.SynchronousMode = cfg.SynchronousMode
	}

	return NewDB(ctx, dbCfg, logger)
}

// NewBackend opens the SQLite database described by cfg, runs pending
// migrations and wires up the full repository set.
func NewBackend(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*repository.Backend, error) {
	db, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &repository.Backend{
		Repos: &repository.Repositories{
			Actor: NewActorRepository(db),
			Genre: NewGenreRepository(db),
			Movie: NewMovieRepository(db),
			User:  NewUserRepository(db),
			Tx:    NewTxManager(db),
		},
		Database: db,
	}, nil
}
