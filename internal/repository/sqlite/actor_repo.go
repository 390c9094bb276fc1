package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// actorRepository implements repository.ActorRepository for SQLite.
type actorRepository struct {
	db *DB
}

// NewActorRepository creates a new SQLite actor repository.
func NewActorRepository(db *DB) repository.ActorRepository {
	return &actorRepository{db: db}
}

// Create creates a new actor.
func (r *actorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	query := `
		INSERT INTO actors (name, birth, bio, image)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		actor.Name(),
		actor.Birth().UTC().Format(time.RFC3339),
		actor.Bio(),
		actor.Image(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: actor %q", repository.ErrDuplicate, actor.Name())
		}
		return fmt.Errorf("failed to create actor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	actor.SetID(id)

	return nil
}

// GetByID retrieves an actor by ID.
func (r *actorRepository) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	return getActorByID(ctx, r.db.conn(ctx), id)
}

// GetByName retrieves an actor by name.
func (r *actorRepository) GetByName(ctx context.Context, name string) (*domain.Actor, error) {
	return getActorByName(ctx, r.db.conn(ctx), name)
}

// Update persists changes to an existing actor.
func (r *actorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	query := `
		UPDATE actors
		SET name = ?, birth = ?, bio = ?, image = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		actor.Name(),
		actor.Birth().UTC().Format(time.RFC3339),
		actor.Bio(),
		actor.Image(),
		time.Now().UTC().Format(time.RFC3339),
		actor.ID(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: actor %q", repository.ErrDuplicate, actor.Name())
		}
		return fmt.Errorf("failed to update actor: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete deletes an actor by name.
func (r *actorRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM actors WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete actor: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all actors with pagination.
func (r *actorRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Actor], error) {
	q := r.db.conn(ctx)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM actors`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count actors: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	query := `
		SELECT id, name, birth, bio, image
		FROM actors
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := q.QueryContext(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	var actors []*domain.Actor
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actors: %w", err)
	}

	return &repository.ListResult[domain.Actor]{
		Items:  actors,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsByName checks if an actor with the given name exists.
func (r *actorRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM actors WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check actor existence: %w", err)
	}
	return count > 0, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanActor scans an actor row (id, name, birth, bio, image).
func scanActor(row scanner) (*domain.Actor, error) {
	var state domain.ActorState
	var birth string

	if err := row.Scan(&state.ID, &state.Name, &birth, &state.Bio, &state.Image); err != nil {
		return nil, fmt.Errorf("failed to scan actor: %w", err)
	}

	t, err := time.Parse(time.RFC3339, birth)
	if err != nil {
		return nil, fmt.Errorf("failed to parse actor birth date: %w", err)
	}
	state.Birth = t

	return domain.RestoreActor(state), nil
}

// getActorByID loads a single actor by ID using the given querier.
func getActorByID(ctx context.Context, q querier, id int64) (*domain.Actor, error) {
	row := q.QueryRowContext(ctx, `SELECT id, name, birth, bio, image FROM actors WHERE id = ?`, id)
	actor, err := scanActor(row)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return actor, nil
}

// getActorByName loads a single actor by name using the given querier.
func getActorByName(ctx context.Context, q querier, name string) (*domain.Actor, error) {
	row := q.QueryRowContext(ctx, `SELECT id, name, birth, bio, image FROM actors WHERE name = ?`, name)
	actor, err := scanActor(row)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return actor, nil
}

// Ensure actorRepository implements repository.ActorRepository.
var _ repository.ActorRepository = (*actorRepository)(nil)
