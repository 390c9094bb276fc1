package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// ActorService handles actor catalogue operations.
type ActorService struct {
	actorRepo repository.ActorRepository
	logger    zerolog.Logger
}

// NewActorService creates a new ActorService.
func NewActorService(actorRepo repository.ActorRepository, logger zerolog.Logger) *ActorService {
	return &ActorService{
		actorRepo: actorRepo,
		logger:    logger.With().Str("service", "actor").Logger(),
	}
}

// CreateActorInput contains the data needed to create a new actor.
type CreateActorInput struct {
	Name  string
	Birth time.Time
}

// Create creates a new actor.
func (s *ActorService) Create(ctx context.Context, input CreateActorInput) (*domain.Actor, error) {
	actor, err := domain.NewActor(input.Name, input.Birth)
	if err != nil {
		return nil, err
	}

	if err := s.actorRepo.Create(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActorExists
		}
		s.logger.Error().Err(err).Str("actor", input.Name).Msg("failed to create actor")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("actor", actor.Name()).Msg("actor created")

	return actor, nil
}

// ChangeActorInput contains the optional fields of an actor change.
// Nil fields are left untouched.
type ChangeActorInput struct {
	Name  string
	Birth *time.Time
	Bio   *string
	Image *string
}

// Change applies the given changes to an existing actor.
// All changes are persisted atomically; a single invalid field rejects the
// whole request.
func (s *ActorService) Change(ctx context.Context, input ChangeActorInput) (*domain.Actor, error) {
	actor, err := s.getActor(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Birth != nil {
		if err := actor.SetBirth(*input.Birth); err != nil {
			return nil, err
		}
	}
	if input.Bio != nil {
		if err := actor.SetBio(*input.Bio); err != nil {
			return nil, err
		}
	}
	if input.Image != nil {
		if err := actor.SetImage(*input.Image); err != nil {
			return nil, err
		}
	}

	if err := s.actorRepo.Update(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoActor
		}
		s.logger.Error().Err(err).Str("actor", input.Name).Msg("failed to update actor")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("actor", actor.Name()).Msg("actor updated")

	return actor, nil
}

// Remove deletes an actor by name.
func (s *ActorService) Remove(ctx context.Context, name string) error {
	if err := s.actorRepo.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoActor
		}
		s.logger.Error().Err(err).Str("actor", name).Msg("failed to delete actor")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("actor", name).Msg("actor removed")

	return nil
}

// Show returns a single actor by name.
func (s *ActorService) Show(ctx context.Context, name string) (*domain.Actor, error) {
	return s.getActor(ctx, name)
}

// List returns all actors.
func (s *ActorService) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Actor], error) {
	result, err := s.actorRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list actors")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return result, nil
}

// getActor resolves an actor by name, translating a missing row into the
// resource error the API contract expects.
func (s *ActorService) getActor(ctx context.Context, name string) (*domain.Actor, error) {
	actor, err := s.actorRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoActor
		}
		s.logger.Error().Err(err).Str("actor", name).Msg("failed to get actor")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return actor, nil
}
