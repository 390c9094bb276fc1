package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/metrics"
	"github.com/uma-movies/uma-server/internal/repository"
)

// PasswordHasher hashes new passwords and verifies login attempts.
type PasswordHasher interface {
	domain.Hasher
	Verify(digest, plaintext string) bool
}

// UserService handles account and authentication operations.
type UserService struct {
	userRepo  repository.UserRepository
	movieRepo repository.MovieRepository
	hasher    PasswordHasher
	cache     repository.Cache
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewUserService creates a new UserService.
// The cache is optional; pass nil to resolve every token against the database.
func NewUserService(
	userRepo repository.UserRepository,
	movieRepo repository.MovieRepository,
	hasher PasswordHasher,
	cache repository.Cache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		movieRepo: movieRepo,
		hasher:    hasher,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("service", "user").Logger(),
	}
}

// RegisterInput contains the data needed to create a new account.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new user account. The account starts without an API
// token; one is issued on login.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Username, input.Password, s.hasher)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("username", user.Username()).Msg("user registered")

	return user, nil
}

// Login verifies the given credentials and issues a fresh API token,
// invalidating any previously issued one.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Don't expose whether the username exists.
			s.logger.Debug().Str("username", username).Msg("login attempt for unknown user")
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if !s.hasher.Verify(user.PasswordHash(), password) {
		s.logger.Debug().Str("username", username).Msg("invalid password during login")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	oldToken := user.APIToken()

	if err := user.GenerateAPIToken(); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to generate API token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to persist API token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.forgetToken(ctx, oldToken)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", user.Username()).Msg("user logged in")

	return user, nil
}

// Logout revokes the API token of the user owning the given token.
func (s *UserService) Logout(ctx context.Context, user *domain.User) error {
	oldToken := user.APIToken()
	user.ClearAPIToken()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username()).Msg("failed to revoke API token")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.forgetToken(ctx, oldToken)

	s.logger.Info().Str("username", user.Username()).Msg("user logged out")

	return nil
}

// GetByAPIToken resolves the user owning the given API token.
// Lookups are served from cache when one is configured.
func (s *UserService) GetByAPIToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	if user := s.cachedTokenLookup(ctx, token); user != nil {
		return user, nil
	}

	user, err := s.userRepo.GetByAPIToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error().Err(err).Msg("failed to resolve API token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.rememberToken(ctx, token, user.ID())

	return user, nil
}

// AddFavourite adds a movie to the user's favourites list.
func (s *UserService) AddFavourite(ctx context.Context, user *domain.User, movieName string) error {
	movie, err := s.getMovie(ctx, movieName)
	if err != nil {
		return err
	}

	if err := user.AddFavourite(movie); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username()).Str("movie", movieName).Msg("failed to add favourite")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("username", user.Username()).Str("movie", movie.Name()).Msg("favourite added")

	return nil
}

// RemoveFavourite removes a movie from the user's favourites list.
func (s *UserService) RemoveFavourite(ctx context.Context, user *domain.User, movieName string) error {
	movie, err := s.getMovie(ctx, movieName)
	if err != nil {
		return err
	}

	if err := user.RemoveFavourite(movie); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username()).Str("movie", movieName).Msg("failed to remove favourite")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("username", user.Username()).Str("movie", movie.Name()).Msg("favourite removed")

	return nil
}

// Show returns a single user by username.
func (s *UserService) Show(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoUser
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	result, err := s.userRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return result, nil
}

// Remove deletes a user by username.
func (s *UserService) Remove(ctx context.Context, username string) error {
	user, err := s.Show(ctx, username)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoUser
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to delete user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.forgetToken(ctx, user.APIToken())

	s.logger.Info().Str("username", username).Msg("user removed")

	return nil
}

func (s *UserService) getMovie(ctx context.Context, name string) (*domain.Movie, error) {
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

// cachedTokenLookup resolves a token from cache, verifying the stored user
// still owns it. Cache failures degrade to a database lookup.
func (s *UserService) cachedTokenLookup(ctx context.Context, token string) *domain.User {
	if s.cache == nil {
		return nil
	}

	key := repository.CacheKey{}.APIToken(token)
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("token cache unavailable")
		}
		return nil
	}

	id, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil || user.APIToken() != token {
		// Stale entry: the token was revoked or reissued.
		_ = s.cache.Delete(ctx, key)
		return nil
	}

	return user
}

func (s *UserService) rememberToken(ctx context.Context, token string, userID int64) {
	if s.cache == nil {
		return
	}
	key := repository.CacheKey{}.APIToken(token)
	if err := s.cache.Set(ctx, key, []byte(strconv.FormatInt(userID, 10)), s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache token lookup")
	}
}

func (s *UserService) forgetToken(ctx context.Context, token string) {
	if s.cache == nil || token == "" {
		return
	}
	key := repository.CacheKey{}.APIToken(token)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to evict token from cache")
	}
}
