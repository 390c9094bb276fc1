package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// genreRepository implements repository.GenreRepository for SQLite.
type genreRepository struct {
	db *DB
}

// NewGenreRepository creates a new SQLite genre repository.
func NewGenreRepository(db *DB) repository.GenreRepository {
	return &genreRepository{db: db}
}

// Create creates a new genre.
func (r *genreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	return r.db.inTx(ctx, func(ctx context.Context, q querier) error {
		result, err := q.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, genre.Name())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: genre %q", repository.ErrDuplicate, genre.Name())
			}
			return fmt.Errorf("failed to create genre: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %w", err)
		}
		genre.SetID(id)

		if err := insertGenreMovies(ctx, q, id, genre.Movies()); err != nil {
			return err
		}
		return insertGenreActors(ctx, q, id, genre.DirectActors())
	})
}

// GetByID retrieves a genre by ID as a full aggregate.
func (r *genreRepository) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	return getGenre(ctx, r.db.conn(ctx), `WHERE id = ?`, id)
}

// GetByName retrieves a genre by name as a full aggregate.
func (r *genreRepository) GetByName(ctx context.Context, name string) (*domain.Genre, error) {
	return getGenre(ctx, r.db.conn(ctx), `WHERE name = ?`, name)
}

// Update persists the genre aggregate atomically. Membership lists are
// rewritten wholesale so the stored state always mirrors the entity.
func (r *genreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	return r.db.inTx(ctx, func(ctx context.Context, q querier) error {
		result, err := q.ExecContext(ctx, `
			UPDATE genres SET name = ?, updated_at = ? WHERE id = ?
		`,
			genre.Name(),
			time.Now().UTC().Format(time.RFC3339),
			genre.ID(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: genre %q", repository.ErrDuplicate, genre.Name())
			}
			return fmt.Errorf("failed to update genre: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return repository.ErrNotFound
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM genre_movies WHERE genre_id = ?`, genre.ID()); err != nil {
			return fmt.Errorf("failed to clear genre movies: %w", err)
		}
		if err := insertGenreMovies(ctx, q, genre.ID(), genre.Movies()); err != nil {
			return err
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM genre_actors WHERE genre_id = ?`, genre.ID()); err != nil {
			return fmt.Errorf("failed to clear genre actors: %w", err)
		}
		return insertGenreActors(ctx, q, genre.ID(), genre.DirectActors())
	})
}

// Delete deletes a genre by name.
func (r *genreRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM genres WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all genres with pagination, each as a full aggregate.
func (r *genreRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Genre], error) {
	q := r.db.conn(ctx)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count genres: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, name FROM genres ORDER BY id LIMIT ? OFFSET ?
	`, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}

	type genreHead struct {
		id   int64
		name string
	}
	var heads []genreHead
	for rows.Next() {
		var h genreHead
		if err := rows.Scan(&h.id, &h.name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating genres: %w", err)
	}
	rows.Close()

	genres := make([]*domain.Genre, 0, len(heads))
	for _, h := range heads {
		genre, err := assembleGenre(ctx, q, h.id, h.name)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}

	return &repository.ListResult[domain.Genre]{
		Items:  genres,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsByName checks if a genre with the given name exists.
func (r *genreRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM genres WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check genre existence: %w", err)
	}
	return count > 0, nil
}

// getGenre loads a genre aggregate matching the WHERE clause.
func getGenre(ctx context.Context, q querier, where string, arg interface{}) (*domain.Genre, error) {
	row := q.QueryRowContext(ctx, `SELECT id, name FROM genres `+where, arg)

	var id int64
	var name string
	if err := row.Scan(&id, &name); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}

	return assembleGenre(ctx, q, id, name)
}

// assembleGenre loads the genre's member movies and direct actors.
// Member movies carry their full rosters so derived actor listings can be
// computed from the aggregate alone.
func assembleGenre(ctx context.Context, q querier, id int64, name string) (*domain.Genre, error) {
	movieRows, err := q.QueryContext(ctx, `
		SELECT movie_id FROM genre_movies WHERE genre_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load genre movies: %w", err)
	}

	var movieIDs []int64
	for movieRows.Next() {
		var movieID int64
		if err := movieRows.Scan(&movieID); err != nil {
			movieRows.Close()
			return nil, fmt.Errorf("failed to scan genre movie: %w", err)
		}
		movieIDs = append(movieIDs, movieID)
	}
	if err := movieRows.Err(); err != nil {
		movieRows.Close()
		return nil, fmt.Errorf("error iterating genre movies: %w", err)
	}
	movieRows.Close()

	movies := make([]*domain.Movie, 0, len(movieIDs))
	for _, movieID := range movieIDs {
		movie, err := getMovie(ctx, q, `WHERE id = ?`, movieID)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	actorRows, err := q.QueryContext(ctx, `
		SELECT a.id, a.name, a.birth, a.bio, a.image
		FROM genre_actors ga
		JOIN actors a ON a.id = ga.actor_id
		WHERE ga.genre_id = ?
		ORDER BY ga.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load genre actors: %w", err)
	}
	defer actorRows.Close()

	var actors []*domain.Actor
	for actorRows.Next() {
		actor, err := scanActor(actorRows)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	if err := actorRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genre actors: %w", err)
	}

	return domain.RestoreGenre(domain.GenreState{
		ID:     id,
		Name:   name,
		Movies: movies,
		Actors: actors,
	}), nil
}

// getGenreShallow loads a genre without its membership lists.
// Used when loading a movie, where the genre only contributes its name.
func getGenreShallow(ctx context.Context, q querier, id int64) (*domain.Genre, error) {
	row := q.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE id = ?`, id)

	var state domain.GenreState
	if err := row.Scan(&state.ID, &state.Name); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}

	return domain.RestoreGenre(state), nil
}

// insertGenreMovies inserts genre movie memberships preserving order.
func insertGenreMovies(ctx context.Context, q querier, genreID int64, movies []*domain.Movie) error {
	for i, movie := range movies {
		movieID, err := resolveMovieID(ctx, q, movie)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO genre_movies (genre_id, movie_id, position) VALUES (?, ?, ?)
		`, genreID, movieID, i)
		if err != nil {
			return fmt.Errorf("failed to insert genre movie: %w", err)
		}
	}
	return nil
}

// insertGenreActors inserts direct genre actor memberships preserving order.
func insertGenreActors(ctx context.Context, q querier, genreID int64, actors []*domain.Actor) error {
	for i, actor := range actors {
		actorID, err := resolveActorID(ctx, q, actor)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO genre_actors (genre_id, actor_id, position) VALUES (?, ?, ?)
		`, genreID, actorID, i)
		if err != nil {
			return fmt.Errorf("failed to insert genre actor: %w", err)
		}
	}
	return nil
}

// Ensure genreRepository implements repository.GenreRepository.
var _ repository.GenreRepository = (*genreRepository)(nil)
