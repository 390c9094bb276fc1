package postgres

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/config"
	"github.com/uma-movies/uma-server/internal/repository"
)

// NewBackend opens the PostgreSQL pool described by cfg, runs pending
// migrations and wires up the full repository set.
func NewBackend(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*repository.Backend, error) {
	db, err := NewDB(ctx, cfg, logger)
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
