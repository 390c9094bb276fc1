package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// movieRepository implements repository.MovieRepository for PostgreSQL.
type movieRepository struct {
	db *DB
}

// NewMovieRepository creates a new PostgreSQL movie repository.
func NewMovieRepository(db *DB) repository.MovieRepository {
	return &movieRepository{db: db}
}

// Create creates a new movie.
func (r *movieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	return r.db.inTx(ctx, func(ctx context.Context, q Querier) error {
		genreID, err := resolveGenreID(ctx, q, movie.Genre())
		if err != nil {
			return err
		}

		var id int64
		err = q.QueryRow(ctx, `
			INSERT INTO movies (name, genre_id, description, image)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			movie.Name(),
			genreID,
			movie.Description(),
			movie.Image(),
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: movie %q", repository.ErrDuplicate, movie.Name())
			}
			return fmt.Errorf("failed to create movie: %w", err)
		}
		movie.SetID(id)

		if err := insertRoster(ctx, q, id, movie.Roster()); err != nil {
			return err
		}
		return insertRatings(ctx, q, id, movie.Ratings())
	})
}

// GetByID retrieves a movie by ID, with its roster and ratings.
func (r *movieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	return getMovie(ctx, r.db.conn(ctx), `WHERE id = $1`, id)
}

// GetByName retrieves a movie by name, with its roster and ratings.
func (r *movieRepository) GetByName(ctx context.Context, name string) (*domain.Movie, error) {
	return getMovie(ctx, r.db.conn(ctx), `WHERE name = $1`, name)
}

// Update persists the movie aggregate atomically. The roster and ratings
// are rewritten wholesale so the stored state always mirrors the entity.
func (r *movieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	return r.db.inTx(ctx, func(ctx context.Context, q Querier) error {
		genreID, err := resolveGenreID(ctx, q, movie.Genre())
		if err != nil {
			return err
		}

		tag, err := q.Exec(ctx, `
			UPDATE movies
			SET name = $1, genre_id = $2, description = $3, image = $4, updated_at = now()
			WHERE id = $5
		`,
			movie.Name(),
			genreID,
			movie.Description(),
			movie.Image(),
			movie.ID(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: movie %q", repository.ErrDuplicate, movie.Name())
			}
			return fmt.Errorf("failed to update movie: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if _, err := q.Exec(ctx, `DELETE FROM movie_roster WHERE movie_id = $1`, movie.ID()); err != nil {
			return fmt.Errorf("failed to clear movie roster: %w", err)
		}
		if err := insertRoster(ctx, q, movie.ID(), movie.Roster()); err != nil {
			return err
		}

		if _, err := q.Exec(ctx, `DELETE FROM movie_ratings WHERE movie_id = $1`, movie.ID()); err != nil {
			return fmt.Errorf("failed to clear movie ratings: %w", err)
		}
		return insertRatings(ctx, q, movie.ID(), movie.Ratings())
	})
}

// Delete deletes a movie by name.
func (r *movieRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.conn(ctx).Exec(ctx, `DELETE FROM movies WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all movies with pagination, each with roster and ratings.
func (r *movieRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Movie], error) {
	q := r.db.conn(ctx)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = int(total)
	}

	rows, err := q.Query(ctx, `
		SELECT id, name, genre_id, description, image
		FROM movies
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	type movieRow struct {
		state   domain.MovieState
		genreID sql.NullInt64
	}

	var heads []movieRow
	for rows.Next() {
		var mr movieRow
		if err := rows.Scan(&mr.state.ID, &mr.state.Name, &mr.genreID, &mr.state.Description, &mr.state.Image); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		heads = append(heads, mr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}
	rows.Close()

	movies := make([]*domain.Movie, 0, len(heads))
	for _, mr := range heads {
		movie, err := assembleMovie(ctx, q, mr.state, mr.genreID)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	return &repository.ListResult[domain.Movie]{
		Items:  movies,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsByName checks if a movie with the given name exists.
func (r *movieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM movies WHERE name = $1`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check movie existence: %w", err)
	}
	return count > 0, nil
}

// getMovie loads a single movie aggregate matching the WHERE clause.
func getMovie(ctx context.Context, q Querier, where string, arg interface{}) (*domain.Movie, error) {
	row := q.QueryRow(ctx, `
		SELECT id, name, genre_id, description, image
		FROM movies `+where, arg)

	var state domain.MovieState
	var genreID sql.NullInt64
	if err := row.Scan(&state.ID, &state.Name, &genreID, &state.Description, &state.Image); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return assembleMovie(ctx, q, state, genreID)
}

// assembleMovie fills in the movie's genre, roster and ratings.
// The genre is loaded shallow (name only); loading it as a full aggregate
// would recurse back into movies.
func assembleMovie(ctx context.Context, q Querier, state domain.MovieState, genreID sql.NullInt64) (*domain.Movie, error) {
	if genreID.Valid {
		genre, err := getGenreShallow(ctx, q, genreID.Int64)
		if err != nil {
			return nil, err
		}
		state.Genre = genre
	}

	roster, err := loadRoster(ctx, q, state.ID)
	if err != nil {
		return nil, err
	}
	state.Roster = roster

	ratings, err := loadRatings(ctx, q, state.ID)
	if err != nil {
		return nil, err
	}
	state.Ratings = ratings

	return domain.RestoreMovie(state), nil
}

// loadRoster loads the roster entries for a movie in stored order.
func loadRoster(ctx context.Context, q Querier, movieID int64) ([]domain.Role, error) {
	rows, err := q.Query(ctx, `
		SELECT r.character_name, a.id, a.name, a.birth, a.bio, a.image
		FROM movie_roster r
		JOIN actors a ON a.id = r.actor_id
		WHERE r.movie_id = $1
		ORDER BY r.position
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie roster: %w", err)
	}
	defer rows.Close()

	var roster []domain.Role
	for rows.Next() {
		var character string
		var state domain.ActorState
		var birth time.Time
		if err := rows.Scan(&character, &state.ID, &state.Name, &birth, &state.Bio, &state.Image); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		state.Birth = birth
		roster = append(roster, domain.Role{
			Character: character,
			Actor:     domain.RestoreActor(state),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}

	return roster, nil
}

// loadRatings loads the per-user ratings for a movie.
func loadRatings(ctx context.Context, q Querier, movieID int64) (map[string]int, error) {
	rows, err := q.Query(ctx, `
		SELECT username, rating FROM movie_ratings WHERE movie_id = $1
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]int)
	for rows.Next() {
		var username string
		var rating int
		if err := rows.Scan(&username, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[username] = rating
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// insertRoster inserts roster entries preserving their order.
func insertRoster(ctx context.Context, q Querier, movieID int64, roster []domain.Role) error {
	for i, role := range roster {
		actorID, err := resolveActorID(ctx, q, role.Actor)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, `
			INSERT INTO movie_roster (movie_id, actor_id, character_name, position)
			VALUES ($1, $2, $3, $4)
		`, movieID, actorID, role.Character, i)
		if err != nil {
			return fmt.Errorf("failed to insert roster entry: %w", err)
		}
	}
	return nil
}

// insertRatings inserts the rating rows for a movie.
func insertRatings(ctx context.Context, q Querier, movieID int64, ratings map[string]int) error {
	for username, rating := range ratings {
		_, err := q.Exec(ctx, `
			INSERT INTO movie_ratings (movie_id, username, rating)
			VALUES ($1, $2, $3)
		`, movieID, username, rating)
		if err != nil {
			return fmt.Errorf("failed to insert rating: %w", err)
		}
	}
	return nil
}

// resolveGenreID returns the database ID for a genre reference, or NULL
// when the movie has no genre. Falls back to a name lookup for genre
// instances loaded shallow.
func resolveGenreID(ctx context.Context, q Querier, genre *domain.Genre) (sql.NullInt64, error) {
	if genre == nil {
		return sql.NullInt64{}, nil
	}
	if genre.ID() != 0 {
		return sql.NullInt64{Int64: genre.ID(), Valid: true}, nil
	}

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM genres WHERE name = $1`, genre.Name()).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return sql.NullInt64{}, fmt.Errorf("%w: genre %q", repository.ErrNotFound, genre.Name())
		}
		return sql.NullInt64{}, fmt.Errorf("failed to resolve genre: %w", err)
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// resolveMovieID returns the database ID for a movie reference, falling
// back to a name lookup for movie instances without a stored ID.
func resolveMovieID(ctx context.Context, q Querier, movie *domain.Movie) (int64, error) {
	if movie.ID() != 0 {
		return movie.ID(), nil
	}

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM movies WHERE name = $1`, movie.Name()).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("%w: movie %q", repository.ErrNotFound, movie.Name())
		}
		return 0, fmt.Errorf("failed to resolve movie: %w", err)
	}
	return id, nil
}

// Ensure movieRepository implements repository.MovieRepository.
var _ repository.MovieRepository = (*movieRepository)(nil)
