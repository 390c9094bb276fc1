package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/metrics"
	"github.com/uma-movies/uma-server/internal/repository"
)

func mustUser(t *testing.T, username, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, password, plainHasher{})
	require.NoError(t, err)
	return user
}

func newUserService(users *MockUserRepository, movies *MockMovieRepository, cache repository.Cache) *UserService {
	return NewUserService(users, movies, plainHasher{}, cache, time.Minute, zerolog.Nop())
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name      string
		input     RegisterInput
		wantErr   error
		setupRepo func(*MockUserRepository)
	}{
		{
			name:  "success",
			input: RegisterInput{Username: "alice", Password: "supersecret"},
		},
		{
			name:    "username too short",
			input:   RegisterInput{Username: "al", Password: "supersecret"},
			wantErr: domain.ErrUsernameInvalid,
		},
		{
			name:    "password too short",
			input:   RegisterInput{Username: "alice", Password: "short"},
			wantErr: domain.ErrPasswordInvalid,
		},
		{
			name:    "already exists",
			input:   RegisterInput{Username: "alice", Password: "supersecret"},
			wantErr: ErrUserExists,
			setupRepo: func(m *MockUserRepository) {
				m.add(mustUser(t, "alice", "supersecret"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := NewMockUserRepository()
			if tt.setupRepo != nil {
				tt.setupRepo(users)
			}

			svc := newUserService(users, NewMockMovieRepository(), nil)
			user, err := svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, user.Username())
			// Registration never issues a token; that happens at login.
			assert.Empty(t, user.APIToken())
		})
	}
}

func TestUserService_Login(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "success",
			username: "alice",
			password: "supersecret",
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "notthepassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "supersecret",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := NewMockUserRepository()
			users.add(mustUser(t, "alice", "supersecret"))

			svc := newUserService(users, NewMockMovieRepository(), nil)
			user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, user.APIToken(), 40)
		})
	}
}

// Each login replaces the previous token, revoking it.
func TestUserService_LoginCountsOutcomes(t *testing.T) {
	users := NewMockUserRepository()
	users.add(mustUser(t, "alice", "supersecret"))
	svc := newUserService(users, NewMockMovieRepository(), nil)
	ctx := context.Background()

	successBefore := testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("failure"))

	_, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "notthepassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, successBefore+1,
		testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("success")))
	assert.Equal(t, failureBefore+2,
		testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("failure")))
}

func TestUserService_LoginRotatesToken(t *testing.T) {
	users := NewMockUserRepository()
	users.add(mustUser(t, "alice", "supersecret"))
	svc := newUserService(users, NewMockMovieRepository(), nil)
	ctx := context.Background()

	first, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	firstToken := first.APIToken()

	second, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, firstToken, second.APIToken())

	_, err = svc.GetByAPIToken(ctx, firstToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_Logout(t *testing.T) {
	users := NewMockUserRepository()
	users.add(mustUser(t, "alice", "supersecret"))
	svc := newUserService(users, NewMockMovieRepository(), nil)
	ctx := context.Background()

	user, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	token := user.APIToken()

	require.NoError(t, svc.Logout(ctx, user))
	assert.Empty(t, user.APIToken())

	_, err = svc.GetByAPIToken(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_GetByAPIToken(t *testing.T) {
	users := NewMockUserRepository()
	users.add(mustUser(t, "alice", "supersecret"))
	svc := newUserService(users, NewMockMovieRepository(), nil)
	ctx := context.Background()

	logged, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)

	user, err := svc.GetByAPIToken(ctx, logged.APIToken())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username())

	_, err = svc.GetByAPIToken(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.GetByAPIToken(ctx, "notatoken")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_TokenCache(t *testing.T) {
	users := NewMockUserRepository()
	users.add(mustUser(t, "alice", "supersecret"))
	cache := NewMockCache()
	svc := newUserService(users, NewMockMovieRepository(), cache)
	ctx := context.Background()

	logged, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	token := logged.APIToken()

	// First lookup misses the cache and fills it, the second hits.
	_, err = svc.GetByAPIToken(ctx, token)
	require.NoError(t, err)
	_, err = svc.GetByAPIToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	// Logout evicts the cached token.
	require.NoError(t, svc.Logout(ctx, logged))
	exists, err := cache.Exists(ctx, repository.CacheKey{}.APIToken(token))
	require.NoError(t, err)
	assert.False(t, exists)
}

// A cached token whose user has since rotated it must not authenticate,
// and the stale entry is dropped.
func TestUserService_StaleCacheEntry(t *testing.T) {
	users := NewMockUserRepository()
	user := users.add(mustUser(t, "alice", "supersecret"))
	cache := NewMockCache()
	svc := newUserService(users, NewMockMovieRepository(), cache)
	ctx := context.Background()

	logged, err := svc.Login(ctx, "alice", "supersecret")
	require.NoError(t, err)
	token := logged.APIToken()

	_, err = svc.GetByAPIToken(ctx, token)
	require.NoError(t, err)

	// Rotate the token behind the cache's back.
	require.NoError(t, user.GenerateAPIToken())
	require.NoError(t, users.Update(ctx, user))

	_, err = svc.GetByAPIToken(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)

	exists, err := cache.Exists(ctx, repository.CacheKey{}.APIToken(token))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserService_Favourites(t *testing.T) {
	users := NewMockUserRepository()
	user := users.add(mustUser(t, "alice", "supersecret"))
	movies := NewMockMovieRepository()
	movies.add(mustMovie(t, "Cast Away"))
	svc := newUserService(users, movies, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddFavourite(ctx, user, "Cast Away"))
	require.Len(t, user.Favourites(), 1)
	assert.Equal(t, "Cast Away", user.Favourites()[0].Name())

	err := svc.AddFavourite(ctx, user, "Cast Away")
	require.ErrorIs(t, err, domain.ErrMovieAlreadyFavourited)

	err = svc.AddFavourite(ctx, user, "Nope")
	require.ErrorIs(t, err, domain.ErrNoMovie)

	require.NoError(t, svc.RemoveFavourite(ctx, user, "Cast Away"))
	assert.Empty(t, user.Favourites())

	err = svc.RemoveFavourite(ctx, user, "Cast Away")
	require.ErrorIs(t, err, domain.ErrMovieNotFavourited)
}

func TestUserService_Remove(t *testing.T) {
	users := NewMockUserRepository()
	users.add(mustUser(t, "alice", "supersecret"))
	svc := newUserService(users, NewMockMovieRepository(), nil)
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, "alice"))

	_, err := svc.Show(ctx, "alice")
	require.ErrorIs(t, err, domain.ErrNoUser)
}
