package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// userRepository implements repository.UserRepository for PostgreSQL.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.inTx(ctx, func(ctx context.Context, q Querier) error {
		var id int64
		err := q.QueryRow(ctx, `
			INSERT INTO users (username, password_hash, api_token)
			VALUES ($1, $2, $3)
			RETURNING id
		`,
			user.Username(),
			user.PasswordHash(),
			nullableToken(user.APIToken()),
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user %q", repository.ErrDuplicate, user.Username())
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		user.SetID(id)

		return insertFavourites(ctx, q, id, user.Favourites())
	})
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, r.db.conn(ctx), `WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return getUser(ctx, r.db.conn(ctx), `WHERE username = $1`, username)
}

// GetByAPIToken retrieves a user by API token.
func (r *userRepository) GetByAPIToken(ctx context.Context, token string) (*domain.User, error) {
	return getUser(ctx, r.db.conn(ctx), `WHERE api_token = $1`, token)
}

// Update persists the user aggregate atomically. The favourites list is
// rewritten wholesale so the stored state always mirrors the entity.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.inTx(ctx, func(ctx context.Context, q Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE users
			SET username = $1, password_hash = $2, api_token = $3, updated_at = now()
			WHERE id = $4
		`,
			user.Username(),
			user.PasswordHash(),
			nullableToken(user.APIToken()),
			user.ID(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user %q", repository.ErrDuplicate, user.Username())
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if _, err := q.Exec(ctx, `DELETE FROM user_favourites WHERE user_id = $1`, user.ID()); err != nil {
			return fmt.Errorf("failed to clear user favourites: %w", err)
		}
		return insertFavourites(ctx, q, user.ID(), user.Favourites())
	})
}

// Delete deletes a user by username.
func (r *userRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.db.conn(ctx).Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all users with pagination.
func (r *userRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	q := r.db.conn(ctx)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = int(total)
	}

	rows, err := q.Query(ctx, `
		SELECT id, username, password_hash, api_token
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var states []domain.UserState
	for rows.Next() {
		var state domain.UserState
		var token sql.NullString
		if err := rows.Scan(&state.ID, &state.Username, &state.PasswordHash, &token); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if token.Valid {
			state.APIToken = token.String
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	rows.Close()

	users := make([]*domain.User, 0, len(states))
	for _, state := range states {
		favourites, err := loadFavourites(ctx, q, state.ID)
		if err != nil {
			return nil, err
		}
		state.Favourites = favourites
		users = append(users, domain.RestoreUser(state))
	}

	return &repository.ListResult[domain.User]{
		Items:  users,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsByUsername checks if a user with the given username exists.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.db.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// getUser loads a user aggregate matching the WHERE clause.
func getUser(ctx context.Context, q Querier, where string, arg interface{}) (*domain.User, error) {
	row := q.QueryRow(ctx, `
		SELECT id, username, password_hash, api_token
		FROM users `+where, arg)

	var state domain.UserState
	var token sql.NullString
	if err := row.Scan(&state.ID, &state.Username, &state.PasswordHash, &token); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if token.Valid {
		state.APIToken = token.String
	}

	favourites, err := loadFavourites(ctx, q, state.ID)
	if err != nil {
		return nil, err
	}
	state.Favourites = favourites

	return domain.RestoreUser(state), nil
}

// loadFavourites loads a user's favourite movies in stored order.
// Favourites are loaded shallow (id and name); favourite listings and
// membership checks only need the movie name.
func loadFavourites(ctx context.Context, q Querier, userID int64) ([]*domain.Movie, error) {
	rows, err := q.Query(ctx, `
		SELECT m.id, m.name
		FROM user_favourites f
		JOIN movies m ON m.id = f.movie_id
		WHERE f.user_id = $1
		ORDER BY f.position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user favourites: %w", err)
	}
	defer rows.Close()

	var favourites []*domain.Movie
	for rows.Next() {
		var state domain.MovieState
		if err := rows.Scan(&state.ID, &state.Name); err != nil {
			return nil, fmt.Errorf("failed to scan favourite: %w", err)
		}
		favourites = append(favourites, domain.RestoreMovie(state))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favourites: %w", err)
	}

	return favourites, nil
}

// insertFavourites inserts favourite rows preserving their order.
func insertFavourites(ctx context.Context, q Querier, userID int64, favourites []*domain.Movie) error {
	for i, movie := range favourites {
		movieID, err := resolveMovieID(ctx, q, movie)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, `
			INSERT INTO user_favourites (user_id, movie_id, position) VALUES ($1, $2, $3)
		`, userID, movieID, i)
		if err != nil {
			return fmt.Errorf("failed to insert favourite: %w", err)
		}
	}
	return nil
}

// nullableToken maps an empty token to NULL so the unique index only
// applies to issued tokens.
func nullableToken(token string) sql.NullString {
	if token == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: token, Valid: true}
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
