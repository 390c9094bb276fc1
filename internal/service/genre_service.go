package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/repository"
)

// GenreService handles genre catalogue operations.
type GenreService struct {
	genreRepo repository.GenreRepository
	movieRepo repository.MovieRepository
	actorRepo repository.ActorRepository
	logger    zerolog.Logger
}

// NewGenreService creates a new GenreService.
func NewGenreService(
	genreRepo repository.GenreRepository,
	movieRepo repository.MovieRepository,
	actorRepo repository.ActorRepository,
	logger zerolog.Logger,
) *GenreService {
	return &GenreService{
		genreRepo: genreRepo,
		movieRepo: movieRepo,
		actorRepo: actorRepo,
		logger:    logger.With().Str("service", "genre").Logger(),
	}
}

// Create creates a new genre.
func (s *GenreService) Create(ctx context.Context, name string) (*domain.Genre, error) {
	genre, err := domain.NewGenre(name)
	if err != nil {
		return nil, err
	}

	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrGenreExists
		}
		s.logger.Error().Err(err).Str("genre", name).Msg("failed to create genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("genre", genre.Name()).Msg("genre created")

	return genre, nil
}

// AddMovie adds a movie to a genre's member list.
func (s *GenreService) AddMovie(ctx context.Context, genreName, movieName string) (*domain.Genre, error) {
	genre, err := s.getGenre(ctx, genreName)
	if err != nil {
		return nil, err
	}

	movie, err := s.getMovie(ctx, movieName)
	if err != nil {
		return nil, err
	}

	if err := genre.AddMovie(movie); err != nil {
		return nil, err
	}

	if err := s.genreRepo.Update(ctx, genre); err != nil {
		s.logger.Error().Err(err).Str("genre", genreName).Str("movie", movieName).Msg("failed to add movie to genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("genre", genre.Name()).Str("movie", movie.Name()).Msg("movie added to genre")

	return genre, nil
}

// RemoveMovie removes a movie from a genre's member list.
func (s *GenreService) RemoveMovie(ctx context.Context, genreName, movieName string) (*domain.Genre, error) {
	genre, err := s.getGenre(ctx, genreName)
	if err != nil {
		return nil, err
	}

	movie, err := s.getMovie(ctx, movieName)
	if err != nil {
		return nil, err
	}

	if err := genre.RemoveMovie(movie); err != nil {
		return nil, err
	}

	if err := s.genreRepo.Update(ctx, genre); err != nil {
		s.logger.Error().Err(err).Str("genre", genreName).Str("movie", movieName).Msg("failed to remove movie from genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("genre", genre.Name()).Str("movie", movie.Name()).Msg("movie removed from genre")

	return genre, nil
}

// AddActor adds an actor directly to a genre.
func (s *GenreService) AddActor(ctx context.Context, genreName, actorName string) (*domain.Genre, error) {
	genre, err := s.getGenre(ctx, genreName)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, actorName)
	if err != nil {
		return nil, err
	}

	if err := genre.AddActor(actor); err != nil {
		return nil, err
	}

	if err := s.genreRepo.Update(ctx, genre); err != nil {
		s.logger.Error().Err(err).Str("genre", genreName).Str("actor", actorName).Msg("failed to add actor to genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("genre", genre.Name()).Str("actor", actor.Name()).Msg("actor added to genre")

	return genre, nil
}

// RemoveActor removes a directly attached actor from a genre.
func (s *GenreService) RemoveActor(ctx context.Context, genreName, actorName string) (*domain.Genre, error) {
	genre, err := s.getGenre(ctx, genreName)
	if err != nil {
		return nil, err
	}

	actor, err := s.getActor(ctx, actorName)
	if err != nil {
		return nil, err
	}

	if err := genre.RemoveActor(actor); err != nil {
		return nil, err
	}

	if err := s.genreRepo.Update(ctx, genre); err != nil {
		s.logger.Error().Err(err).Str("genre", genreName).Str("actor", actorName).Msg("failed to remove actor from genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("genre", genre.Name()).Str("actor", actor.Name()).Msg("actor removed from genre")

	return genre, nil
}

// Remove deletes a genre by name.
func (s *GenreService) Remove(ctx context.Context, name string) error {
	if err := s.genreRepo.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoGenre
		}
		s.logger.Error().Err(err).Str("genre", name).Msg("failed to delete genre")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("genre", name).Msg("genre removed")

	return nil
}

// Show returns a single genre by name.
func (s *GenreService) Show(ctx context.Context, name string) (*domain.Genre, error) {
	return s.getGenre(ctx, name)
}

// List returns all genres.
func (s *GenreService) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.Genre], error) {
	result, err := s.genreRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list genres")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return result, nil
}

func (s *GenreService) getGenre(ctx context.Context, name string) (*domain.Genre, error) {
	genre, err := s.genreRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoGenre
		}
		s.logger.Error().Err(err).Str("genre", name).Msg("failed to get genre")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return genre, nil
}

func (s *GenreService) getMovie(ctx context.Context, name string) (*domain.Movie, error) {
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

func (s *GenreService) getActor(ctx context.Context, name string) (*domain.Actor, error) {
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
