// Package integration provides end-to-end tests for the Uma catalogue API
// running against a real SQLite database.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uma-movies/uma-server/internal/auth"
	"github.com/uma-movies/uma-server/internal/config"
	"github.com/uma-movies/uma-server/internal/handler"
	"github.com/uma-movies/uma-server/internal/pkg/crypto"
	"github.com/uma-movies/uma-server/internal/repository"
	"github.com/uma-movies/uma-server/internal/repository/sqlite"
	"github.com/uma-movies/uma-server/internal/service"
)

// newStack opens a SQLite backend at dbPath and serves the full API on an
// httptest server.
func newStack(t *testing.T, dbPath string) (*httptest.Server, *repository.Backend) {
	t.Helper()

	logger := zerolog.Nop()
	backend, err := sqlite.NewBackend(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		Path:   dbPath,
	}, logger)
	require.NoError(t, err)

	repos := backend.Repos
	hasher := crypto.NewBcryptHasher(4)
	userService := service.NewUserService(repos.User, repos.Movie, hasher, nil, 0, logger)

	router := handler.NewRouter(handler.RouterConfig{
		ActorService: service.NewActorService(repos.Actor, logger),
		GenreService: service.NewGenreService(repos.Genre, repos.Movie, repos.Actor, logger),
		MovieService: service.NewMovieService(repos.Movie, repos.Actor, repos.Genre, logger),
		UserService:  userService,
		Auth:         auth.NewMiddleware(userService, logger),
		Database:     backend.Database,
		MaxBodySize:  1 << 20,
		Logger:       logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, backend
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func login(t *testing.T, base, username, password string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, base+"/v1/login", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"api_token"`
	}
	decodeBody(t, resp, &body)
	return body.Token
}

// The full catalogue flow against a real database: accounts, entities,
// membership, ratings and favourites, surviving a process restart.
func TestCatalogueEndToEnd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "uma.db")
	server, backend := newStack(t, dbPath)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/users", "",
		map[string]string{"username": "alice", "password": "supersecret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	token := login(t, server.URL, "alice", "supersecret")

	// Build up the catalogue.
	for path, body := range map[string]map[string]string{
		"/v1/genres": {"name": "Drama"},
		"/v1/movies": {"name": "Cast Away"},
		"/v1/actors": {"name": "Tom Hanks", "birth": "1956-07-09"},
	} {
		resp = doJSON(t, http.MethodPost, server.URL+path, token, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/v1/movies/Cast Away/actors", token,
		map[string]string{"actor": "Tom Hanks", "character": "Chuck Noland"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPatch, server.URL+"/v1/movies/Cast Away", token,
		map[string]any{"genre": "Drama", "rating": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/v1/genres/Drama/movies", token,
		map[string]string{"movie": "Cast Away"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/v1/users/me/favourites", token,
		map[string]string{"movie": "Cast Away"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Restart: close everything and reopen the same database file.
	server.Close()
	require.NoError(t, backend.Database.Close())

	server, backend = newStack(t, dbPath)
	defer backend.Database.Close()

	token = login(t, server.URL, "alice", "supersecret")

	var movie struct {
		Name   string            `json:"name"`
		Genre  *string           `json:"genre"`
		Actors map[string]string `json:"actors"`
		Rating float64           `json:"rating"`
	}
	resp = doJSON(t, http.MethodGet, server.URL+"/v1/movies/Cast Away", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &movie)

	require.NotNil(t, movie.Genre)
	assert.Equal(t, "Drama", *movie.Genre)
	assert.Equal(t, "Tom Hanks", movie.Actors["Chuck Noland"])
	assert.InDelta(t, 5.0, movie.Rating, 0.001)

	// The genre lists the movie and derives its actors from the roster.
	var genre struct {
		Movies []string `json:"movies"`
		Actors []string `json:"actors"`
	}
	resp = doJSON(t, http.MethodGet, server.URL+"/v1/genres/Drama", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &genre)

	assert.Equal(t, []string{"Cast Away"}, genre.Movies)
	assert.Contains(t, genre.Actors, "Tom Hanks")

	// Favourites survive too.
	var user struct {
		Favourites []string `json:"favourites"`
	}
	resp = doJSON(t, http.MethodGet, server.URL+"/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &user)
	assert.Equal(t, []string{"Cast Away"}, user.Favourites)
}

// Deleting an actor cascades out of rosters; deleting a genre leaves its
// movies in place without a genre.
func TestCatalogueDeletePropagation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "uma.db")
	server, backend := newStack(t, dbPath)
	defer backend.Database.Close()

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/users", "",
		map[string]string{"username": "alice", "password": "supersecret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	token := login(t, server.URL, "alice", "supersecret")

	for path, body := range map[string]map[string]string{
		"/v1/genres": {"name": "Drama"},
		"/v1/movies": {"name": "Cast Away"},
		"/v1/actors": {"name": "Tom Hanks", "birth": "1956-07-09"},
	} {
		resp = doJSON(t, http.MethodPost, server.URL+path, token, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/v1/movies/Cast Away/actors", token,
		map[string]string{"actor": "Tom Hanks", "character": "Chuck Noland"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPatch, server.URL+"/v1/movies/Cast Away", token,
		map[string]any{"genre": "Drama"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/v1/actors/Tom Hanks", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/v1/genres/Drama", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var movie struct {
		Genre  *string           `json:"genre"`
		Actors map[string]string `json:"actors"`
	}
	resp = doJSON(t, http.MethodGet, server.URL+"/v1/movies/Cast Away", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &movie)

	assert.Nil(t, movie.Genre)
	assert.Empty(t, movie.Actors)
}
