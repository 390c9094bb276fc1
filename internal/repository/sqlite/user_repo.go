package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// userRepository implements repository.UserRepository for SQLite.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.inTx(ctx, func(ctx context.Context, q querier) error {
		result, err := q.ExecContext(ctx, `
			INSERT INTO users (username, password_hash, api_token)
			VALUES (?, ?, ?)
		`,
			user.Username(),
			user.PasswordHash(),
			nullableToken(user.APIToken()),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user %q", repository.ErrDuplicate, user.Username())
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %w", err)
		}
		user.SetID(id)

		return insertFavourites(ctx, q, id, user.Favourites())
	})
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, r.db.conn(ctx), `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return getUser(ctx, r.db.conn(ctx), `WHERE username = ?`, username)
}

// GetByAPIToken retrieves a user by API token.
func (r *userRepository) GetByAPIToken(ctx context.Context, token string) (*domain.User, error) {
	return getUser(ctx, r.db.conn(ctx), `WHERE api_token = ?`, token)
}

// Update persists the user aggregate atomically. The favourites list is
// rewritten wholesale so the stored state always mirrors the entity.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.inTx(ctx, func(ctx context.Context, q querier) error {
		result, err := q.ExecContext(ctx, `
			UPDATE users
			SET username = ?, password_hash = ?, api_token = ?, updated_at = ?
			WHERE id = ?
		`,
			user.Username(),
			user.PasswordHash(),
			nullableToken(user.APIToken()),
			time.Now().UTC().Format(time.RFC3339),
			user.ID(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user %q", repository.ErrDuplicate, user.Username())
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return repository.ErrNotFound
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM user_favourites WHERE user_id = ?`, user.ID()); err != nil {
			return fmt.Errorf("failed to clear user favourites: %w", err)
		}
		return insertFavourites(ctx, q, user.ID(), user.Favourites())
	})
}

// Delete deletes a user by username.
func (r *userRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all users with pagination.
func (r *userRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	q := r.db.conn(ctx)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, username, password_hash, api_token
		FROM users
		ORDER BY id
		LIMIT ? OFFSET ?
	`, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var states []domain.UserState
	for rows.Next() {
		state, err := scanUserState(rows)
		if err != nil {
			rows.Close()
			return nil, err
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
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// getUser loads a user aggregate matching the WHERE clause.
func getUser(ctx context.Context, q querier, where string, arg interface{}) (*domain.User, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, username, password_hash, api_token
		FROM users `+where, arg)

	state, err := scanUserState(row)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	favourites, err := loadFavourites(ctx, q, state.ID)
	if err != nil {
		return nil, err
	}
	state.Favourites = favourites

	return domain.RestoreUser(state), nil
}

// scanUserState scans a user row (id, username, password_hash, api_token).
func scanUserState(row scanner) (domain.UserState, error) {
	var state domain.UserState
	var token sql.NullString

	if err := row.Scan(&state.ID, &state.Username, &state.PasswordHash, &token); err != nil {
		return state, fmt.Errorf("failed to scan user: %w", err)
	}
	if token.Valid {
		state.APIToken = token.String
	}

	return state, nil
}

// loadFavourites loads a user's favourite movies in stored order.
// Favourites are loaded shallow (id and name); favourite listings and
// membership checks only need the movie name.
func loadFavourites(ctx context.Context, q querier, userID int64) ([]*domain.Movie, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT m.id, m.name
		FROM user_favourites f
		JOIN movies m ON m.id = f.movie_id
		WHERE f.user_id = ?
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
func insertFavourites(ctx context.Context, q querier, userID int64, favourites []*domain.Movie) error {
	for i, movie := range favourites {
		movieID, err := resolveMovieID(ctx, q, movie)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO user_favourites (user_id, movie_id, position) VALUES (?, ?, ?)
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
