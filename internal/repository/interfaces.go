// Package repository defines data access interfaces for the Uma catalogue.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/uma-movies/uma-server/internal/domain"
)

// =============================================================================
// Actor Repository
// =============================================================================

// ActorRepository defines the interface for actor data access.
type ActorRepository interface {
	// Create creates a new actor.
	Create(ctx context.Context, actor *domain.Actor) error

	// GetByID retrieves an actor by ID.
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)

	// GetByName retrieves an actor by name.
	GetByName(ctx context.Context, name string) (*domain.Actor, error)

	// Update persists changes to an existing actor.
	Update(ctx context.Context, actor *domain.Actor) error

	// Delete deletes an actor by name.
	Delete(ctx context.Context, name string) error

	// List returns all actors with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.Actor], error)

	// ExistsByName checks if an actor with the given name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// =============================================================================
// Genre Repository
// =============================================================================

// GenreRepository defines the interface for genre data access.
// Genres are loaded as full aggregates: their movies carry complete rosters
// so derived actor listings can be computed from memory.
type GenreRepository interface {
	// Create creates a new genre.
	Create(ctx context.Context, genre *domain.Genre) error

	// GetByID retrieves a genre by ID.
	GetByID(ctx context.Context, id int64) (*domain.Genre, error)

	// GetByName retrieves a genre by name.
	GetByName(ctx context.Context, name string) (*domain.Genre, error)

	// Update persists the genre aggregate, including its movie and actor
	// membership lists, atomically.
	Update(ctx context.Context, genre *domain.Genre) error

	// Delete deletes a genre by name.
	Delete(ctx context.Context, name string) error

	// List returns all genres with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.Genre], error)

	// ExistsByName checks if a genre with the given name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// =============================================================================
// Movie Repository
// =============================================================================

// MovieRepository defines the interface for movie data access.
type MovieRepository interface {
	// Create creates a new movie.
	Create(ctx context.Context, movie *domain.Movie) error

	// GetByID retrieves a movie by ID, with its roster and ratings.
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)

	// GetByName retrieves a movie by name, with its roster and ratings.
	GetByName(ctx context.Context, name string) (*domain.Movie, error)

	// Update persists the movie aggregate, including roster, ratings and
	// genre assignment, atomically.
	Update(ctx context.Context, movie *domain.Movie) error

	// Delete deletes a movie by name.
	Delete(ctx context.Context, name string) error

	// List returns all movies with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.Movie], error)

	// ExistsByName checks if a movie with the given name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByAPIToken retrieves a user by API token.
	// This is the primary method used for request authentication.
	GetByAPIToken(ctx context.Context, token string) (*domain.User, error)

	// Update persists the user aggregate, including credentials and
	// favourites, atomically.
	Update(ctx context.Context, user *domain.User) error

	// Delete deletes a user by username.
	Delete(ctx context.Context, username string) error

	// List returns all users with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// =============================================================================
// Common Types
// =============================================================================

// ListOptions contains common pagination options.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int

	// OrderBy specifies the sort order.
	OrderBy string

	// Descending specifies descending order if true.
	Descending bool
}

// ListResult is a generic paginated list result.
type ListResult[T any] struct {
	// Items is the list of items.
	Items []*T

	// Total is the total number of items (without pagination).
	Total int64

	// Offset is the current offset.
	Offset int

	// Limit is the current limit.
	Limit int
}

// =============================================================================
// Transaction Support
// =============================================================================

// TxManager defines the interface for transaction management.
type TxManager interface {
	// WithTx executes the given function within a transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
