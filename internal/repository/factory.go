// Package repository provides the data access layer for the Uma catalogue.
// This file contains the shared wiring types used when constructing
// repositories from configuration.
package repository

import (
	"context"
)

// Repositories holds all repository instances.
type Repositories struct {
	Actor ActorRepository
	Genre GenreRepository
	Movie MovieRepository
	User  UserRepository

	// Tx manages transactions spanning several of the repositories above.
	Tx TxManager
}

// DatabaseHealth is an interface for database health checks.
// This interface satisfies handler.DatabaseChecker for health endpoints.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}

// Backend bundles the repositories with their underlying database handle.
// The sqlite and postgres packages each provide a constructor returning one.
type Backend struct {
	Repos    *Repositories
	Database DatabaseHealth
}
