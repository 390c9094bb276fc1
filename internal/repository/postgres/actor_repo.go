package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// actorRepository implements repository.ActorRepository for PostgreSQL.
type actorRepository struct {
	db *DB
}

// NewActorRepository creates a new PostgreSQL actor repository.
func NewActorRepository(db *DB) repository.ActorRepository {
	return &actorRepository{db: db}
}

// Create creates a new actor.
func (r *actorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	query := `
		INSERT INTO actors (name, birth, bio, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.conn(ctx).QueryRow(ctx, query,
		actor.Name(),
		actor.Birth().UTC(),
		actor.Bio(),
		actor.Image(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: actor %q", repository.ErrDuplicate, actor.Name())
		}
		return fmt.Errorf("failed to create actor: %w", err)
	}
	actor.SetID(id)

	return nil
}

// GetByID retrieves an actor by ID.
func (r *actorRepository) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	return getActor(ctx, r.db.conn(ctx), `WHERE id = $1`, id)
}

// GetByName retrieves an actor by name.
func (r *actorRepository) GetByName(ctx context.Context, name string) (*domain.Actor, error) {
	return getActor(ctx, r.db.conn(ctx), `WHERE name = $1`, name)
}

// Update persists changes to an existing actor.
func (r *actorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	query := `
		UPDATE actors
		SET name = $1, birth = $2, bio = $3, image = $4, updated_at = now()
		WHERE id = $5
	`

	tag, err := r.db.conn(ctx).Exec(ctx, query,
		actor.Name(),
		actor.Birth().UTC(),
		actor.Bio(),
		actor.Image(),
		actor.ID(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: actor %q", repository.ErrDuplicate, actor.Name())
		}
		return fmt.Errorf("failed to update actor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete deletes an actor by name.
func (r *actorRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.conn(ctx).Exec(ctx, `DELETE FROM actors WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete actor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all actors with pagination.
func (r *actorRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Actor], error) {
	q := r.db.conn(ctx)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM actors`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count actors: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = int(total)
	}

	rows, err := q.Query(ctx, `
		SELECT id, name, birth, bio, image
		FROM actors
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	var actors []*domain.Actor
	for rows.Next() {
		var state domain.ActorState
		var birth time.Time
		if err := rows.Scan(&state.ID, &state.Name, &birth, &state.Bio, &state.Image); err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		state.Birth = birth
		actors = append(actors, domain.RestoreActor(state))
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
	err := r.db.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM actors WHERE name = $1`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check actor existence: %w", err)
	}
	return count > 0, nil
}

// getActor loads a single actor matching the WHERE clause.
func getActor(ctx context.Context, q Querier, where string, arg interface{}) (*domain.Actor, error) {
	row := q.QueryRow(ctx, `SELECT id, name, birth, bio, image FROM actors `+where, arg)

	var state domain.ActorState
	var birth time.Time
	if err := row.Scan(&state.ID, &state.Name, &birth, &state.Bio, &state.Image); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	state.Birth = birth

	return domain.RestoreActor(state), nil
}

// resolveActorID returns the database ID for an actor reference, falling
// back to a name lookup for actor instances without a stored ID.
func resolveActorID(ctx context.Context, q Querier, actor *domain.Actor) (int64, error) {
	if actor.ID() != 0 {
		return actor.ID(), nil
	}

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM actors WHERE name = $1`, actor.Name()).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("%w: actor %q", repository.ErrNotFound, actor.Name())
		}
		return 0, fmt.Errorf("failed to resolve actor: %w", err)
	}
	return id, nil
}

// Ensure actorRepository implements repository.ActorRepository.
var _ repository.ActorRepository = (*actorRepository)(nil)
