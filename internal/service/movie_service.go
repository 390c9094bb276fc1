package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/metrics"
	"github.com/uma-movies/uma-server/internal/repository"
)

// MovieService handles movie catalogue operations.
type MovieService struct {
	movieRepo repository.MovieRepository
	actorRepo repository.ActorRepository
	genreRepo repository.GenreRepository
	logger    zerolog.Logger
}

// NewMovieService creates a new MovieService.
func NewMovieService(
	movieRepo repository.MovieRepository,
	actorRepo repository.ActorRepository,
	genreRepo repository.GenreRepository,
	logger zerolog.Logger,
) *MovieService {
	return &MovieService{
		movieRepo: movieRepo,
		actorRepo: actorRepo,
		genreRepo: genreRepo,
		logger:    logger.With().Str("service", "movie").Logger(),
	}
}

// Create creates a new movie.
func (s *MovieService) Create(ctx context.Context, name string) (*domain.Movie, error) {
	movie, err := domain.NewMovie(name)
	if err != nil {
		return nil, err
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMovieExists
		}
		s.logger.Error().Err(err).Str("movie", name).Msg("failed to create movie")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("movie", movie.Name()).Msg("movie created")

	return movie, nil
}

// ChangeMovieInput contains the optional fields of a movie change.
// Nil fields are left untouched.
type ChangeMovieInput struct {
	Name        string
	Genre       *string
	Rating      *int
	RatingUser  string
	Description *string
	Image       *string
}

// Change applies the given changes to an existing movie.
// All changes are persisted atomically; a single invalid field rejects the
// whole request.
func (s *MovieService) Change(ctx context.Context, input ChangeMovieInput) (*domain.Movie, error) {
	movie, err := s.getMovie(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Genre != nil {
		genre, err := s.genreRepo.GetByName(ctx, *input.Genre)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.ErrNoGenre
			}
			s.logger.Error().Err(err).Str("genre", *input.Genre).Msg("failed to get genre")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		movie.SetGenre(genre)
	}
	if input.Rating != nil {
		if err := movie.AddRating(input.RatingUser, *input.Rating); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := movie.SetDescription(*input.Description); err != nil {
			return nil, err
		}
	}
	if input.Image != nil {
		if err := movie.SetImage(*input.Image); err != nil {
			return nil, err
		}
	}

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoMovie
		}
		s.logger.Error().Err(err).Str("movie", input.Name).Msg("failed to update movie")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if input.Rating != nil {
		metrics.RatingsSubmittedTotal.Inc()
	}

	s.logger.Info().Str("movie", movie.Name()).Msg("movie updated")

	return movie, nil
}

// AddActor adds an actor to a movie's roster under the given character.
func (s *MovieService) AddActor(ctx context.Context, movieName, character, actorName string) (*domain.Movie, error) {
	movie, err := s.getMovie(ctx, movieName)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, actorName)
	if err != nil {
		return nil, err
	}

	if err := movie.AddActor(character, actor); err != nil {
		return nil, err
	}

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		s.logger.Error().Err(err).Str("movie", movieName).Str("actor", actorName).Msg("failed to add actor to movie")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("movie", movie.Name()).
		Str("actor", actor.Name()).
		Str("character", character).
		Msg("actor added to movie")

	return movie, nil
}

// RemoveActor removes an actor, under every character, from a movie's roster.
func (s *MovieService) RemoveActor(ctx context.Context, movieName, actorName string) (*domain.Movie, error) {
	movie, err := s.getMovie(ctx, movieName)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, actorName)
	if err != nil {
		return nil, err
	}

	if err := movie.RemoveActor(actor); err != nil {
		return nil, err
	}

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		s.logger.Error().Err(err).Str("movie", movieName).Str("actor", actorName).Msg("failed to remove actor from movie")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("movie", movie.Name()).
		Str("actor", actor.Name()).
		Msg("actor removed from movie")

	return movie, nil
}

// Remove deletes a movie by name.
func (s *MovieService) Remove(ctx context.Context, name string) error {
	if err := s.movieRepo.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoMovie
		}
		s.logger.Error().Err(err).Str("movie", name).Msg("failed to delete movie")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("movie", name).Msg("movie removed")

	return nil
}

// Show returns a single movie by name.
func (s *MovieService) Show(ctx context.Context, name string) (*domain.Movie, error) {
	return s.getMovie(ctx, name)
}

// List returns all movies.
func (s *MovieService) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Movie], error) {
	result, err := s.movieRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list movies")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return result, nil
}

func (s *MovieService) getMovie(ctx context.Context, name string) (*domain.Movie, error) {
	movie, err := s.movieRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoMovie
		}
		s.logger.Error().Err(err).Str("movie", name).Msg("failed to get movie")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return movie, nil
}

func (s *MovieService) getActor(ctx context.Context, name string) (*domain.Actor, error) {
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
