package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHasher records the plaintext it was given and returns a fixed digest.
type stubHasher struct {
	plaintext string
	digest    string
	err       error
}

func (h *stubHasher) Hash(plaintext string) (string, error) {
	h.plaintext = plaintext
	if h.err != nil {
		return "", h.err
	}
	return h.digest, nil
}

func newTestUser(t *testing.T, username string) *User {
	t.Helper()
	user, err := NewUser(username, "password123", &stubHasher{digest: "hashedpassword"})
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	hasher := &stubHasher{digest: "hashedpassword"}

	user, err := NewUser("fred1E", "password123", hasher)

	require.NoError(t, err)
	assert.Equal(t, "fred1E", user.Username())
	assert.Equal(t, "password123", hasher.plaintext)
	assert.Equal(t, "hashedpassword", user.PasswordHash())
	assert.Empty(t, user.APIToken())
	assert.Empty(t, user.Favourites())
}

func TestUserUsernameInvalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{name: "too small", username: "fre"},
		{name: "too long", username: strings.Repeat("z", 17)},
		{name: "not ascii", username: "ÿÿÿÿÿÿÿ"},
		{name: "not alphanumeric", username: "123azxc*("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, "password123", &stubHasher{digest: "h"})
			assert.ErrorIs(t, err, ErrUsernameInvalid)
			assert.EqualError(t, err, "User username invalid")
		})
	}
}

func TestUserPasswordInvalid(t *testing.T) {
	for _, password := range []string{"passwor", strings.Repeat("v", 25)} {
		_, err := NewUser("potatoooo", password, &stubHasher{digest: "h"})
		assert.ErrorIs(t, err, ErrPasswordInvalid)
		assert.EqualError(t, err, "User password invalid")
	}
}

func TestUserGenerateAPIToken(t *testing.T) {
	user := newTestUser(t, "potatoooo")

	require.NoError(t, user.GenerateAPIToken())
	first := user.APIToken()
	assert.GreaterOrEqual(t, len(first), 32)

	// Regeneration replaces the token unconditionally.
	require.NoError(t, user.GenerateAPIToken())
	assert.NotEqual(t, first, user.APIToken())
}

func TestUserClearAPIToken(t *testing.T) {
	user := newTestUser(t, "potatoooo")
	require.NoError(t, user.GenerateAPIToken())

	user.ClearAPIToken()
	assert.Empty(t, user.APIToken())
}

func TestUserAddFavourite(t *testing.T) {
	user := newTestUser(t, "potatoooo")
	taken := newTestMovie(t, "taken")
	up := newTestMovie(t, "up")

	require.NoError(t, user.AddFavourite(taken))
	require.NoError(t, user.AddFavourite(up))

	favourites := user.Favourites()
	require.Len(t, favourites, 2)
	assert.Same(t, taken, favourites[0])
	assert.Same(t, up, favourites[1])
}

func TestUserAddFavouriteAlreadyExists(t *testing.T) {
	user := newTestUser(t, "potatoooo")
	require.NoError(t, user.AddFavourite(newTestMovie(t, "taken")))

	err := user.AddFavourite(newTestMovie(t, "taken"))

	assert.ErrorIs(t, err, ErrMovieAlreadyFavourited)
	assert.EqualError(t, err, "Movie already favourited")
	assert.Len(t, user.Favourites(), 1)
}

func TestUserRemoveFavourite(t *testing.T) {
	user := newTestUser(t, "potatoooo")
	require.NoError(t, user.AddFavourite(newTestMovie(t, "taken")))

	require.NoError(t, user.RemoveFavourite(newTestMovie(t, "taken")))
	assert.Empty(t, user.Favourites())
}

func TestUserRemoveFavouriteNotFavourited(t *testing.T) {
	user := newTestUser(t, "potatoooo")

	err := user.RemoveFavourite(newTestMovie(t, "taken"))

	assert.ErrorIs(t, err, ErrMovieNotFavourited)
	assert.EqualError(t, err, "Movie not favourited")
}

func TestUserSnapshotHidesCredentials(t *testing.T) {
	user := newTestUser(t, "potatoooo")
	require.NoError(t, user.GenerateAPIToken())
	require.NoError(t, user.AddFavourite(newTestMovie(t, "taken")))

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, "potatoooo", snapshot["username"])
	assert.Equal(t, []any{"taken"}, snapshot["favourites"])
	assert.NotContains(t, string(raw), user.APIToken())
	assert.NotContains(t, string(raw), "hashedpassword")
}

func TestRestoreUser(t *testing.T) {
	user := RestoreUser(UserState{
		ID:           3,
		Username:     "potatoooo",
		PasswordHash: "hashedpassword",
		APIToken:     "sometoken",
		Favourites:   []*Movie{newTestMovie(t, "taken")},
	})

	assert.Equal(t, int64(3), user.ID())
	assert.Equal(t, "potatoooo", user.Username())
	assert.Equal(t, "hashedpassword", user.PasswordHash())
	assert.Equal(t, "sometoken", user.APIToken())
	require.Len(t, user.Favourites(), 1)
}
