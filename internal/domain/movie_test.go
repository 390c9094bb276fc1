package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActor(t *testing.T, name string) *Actor {
	t.Helper()
	actor, err := NewActor(name, yesterday())
	require.NoError(t, err)
	return actor
}

func newTestMovie(t *testing.T, name string) *Movie {
	t.Helper()
	movie, err := NewMovie(name)
	require.NoError(t, err)
	return movie
}

func TestNewMovie(t *testing.T) {
	movie, err := NewMovie("what a name")

	require.NoError(t, err)
	assert.Equal(t, "what a name", movie.Name())
	assert.Empty(t, movie.Roster())
	assert.Zero(t, movie.Rating())
	assert.Nil(t, movie.Genre())
	assert.Empty(t, movie.Description())
	assert.Empty(t, movie.Image())
}

func TestMovieNameBounds(t *testing.T) {
	_, err := NewMovie("")
	assert.EqualError(t, err, "Movie name invalid")

	_, err = NewMovie(strings.Repeat("z", 256))
	assert.ErrorIs(t, err, ErrMovieNameInvalid)
}

func TestMovieSetGenre(t *testing.T) {
	movie := newTestMovie(t, "taken")
	action, err := NewGenre("action")
	require.NoError(t, err)

	movie.SetGenre(action)
	assert.Same(t, action, movie.Genre())

	// Last write wins, no history kept.
	thriller, err := NewGenre("thriller")
	require.NoError(t, err)
	movie.SetGenre(thriller)
	assert.Same(t, thriller, movie.Genre())
}

func TestMovieAddActor(t *testing.T) {
	movie := newTestMovie(t, "taken")
	actor := newTestActor(t, "liam neeson")

	require.NoError(t, movie.AddActor("bryan mills", actor))

	roster := movie.Roster()
	require.Len(t, roster, 1)
	assert.Equal(t, "bryan mills", roster[0].Character)
	assert.Same(t, actor, roster[0].Actor)
}

func TestMovieAddActorSameCharacterFails(t *testing.T) {
	movie := newTestMovie(t, "taken")
	actor := newTestActor(t, "liam neeson")
	require.NoError(t, movie.AddActor("bryan mills", actor))

	err := movie.AddActor("bryan mills", actor)

	assert.ErrorIs(t, err, ErrActorInMovie)
	assert.EqualError(t, err, "Actor already within movie")
	assert.Len(t, movie.Roster(), 1)
}

func TestMovieAddActorTwoCharacters(t *testing.T) {
	movie := newTestMovie(t, "the parent trap")
	actor := newTestActor(t, "lindsay lohan")

	require.NoError(t, movie.AddActor("hallie", actor))
	require.NoError(t, movie.AddActor("annie", actor))

	assert.Len(t, movie.Roster(), 2)
}

func TestMovieAddActorDuplicateMatchesByName(t *testing.T) {
	movie := newTestMovie(t, "taken")
	require.NoError(t, movie.AddActor("bryan mills", newTestActor(t, "liam neeson")))

	// A different in-memory instance with the same name is the same actor.
	err := movie.AddActor("bryan mills", newTestActor(t, "liam neeson"))
	assert.ErrorIs(t, err, ErrActorInMovie)
}

func TestMovieRemoveActorRemovesEveryRole(t *testing.T) {
	movie := newTestMovie(t, "the parent trap")
	lohan := newTestActor(t, "lindsay lohan")
	quaid := newTestActor(t, "dennis quaid")
	require.NoError(t, movie.AddActor("hallie", lohan))
	require.NoError(t, movie.AddActor("nick parker", quaid))
	require.NoError(t, movie.AddActor("annie", lohan))

	require.NoError(t, movie.RemoveActor(lohan))

	roster := movie.Roster()
	require.Len(t, roster, 1)
	assert.Equal(t, "nick parker", roster[0].Character)
}

func TestMovieRemoveActorNotWithin(t *testing.T) {
	movie := newTestMovie(t, "taken")

	err := movie.RemoveActor(newTestActor(t, "liam neeson"))

	assert.ErrorIs(t, err, ErrActorNotInMovie)
	assert.EqualError(t, err, "Actor not within movie")
}

func TestMovieAddRatingAverages(t *testing.T) {
	movie := newTestMovie(t, "taken")

	require.NoError(t, movie.AddRating("a", 0))
	require.NoError(t, movie.AddRating("b", 5))

	assert.Equal(t, 2.5, movie.Rating())
}

func TestMovieAddRatingOverwritesPerUser(t *testing.T) {
	movie := newTestMovie(t, "taken")

	require.NoError(t, movie.AddRating("u1", 5))
	require.NoError(t, movie.AddRating("u1", 3))
	assert.Equal(t, 3.0, movie.Rating())

	// Idempotent by key: the same rating twice changes nothing.
	require.NoError(t, movie.AddRating("u1", 3))
	assert.Equal(t, 3.0, movie.Rating())
}

func TestMovieRatingRoundsToOneDecimal(t *testing.T) {
	movie := newTestMovie(t, "taken")
	require.NoError(t, movie.AddRating("a", 5))
	require.NoError(t, movie.AddRating("b", 5))
	require.NoError(t, movie.AddRating("c", 4))

	assert.Equal(t, 4.7, movie.Rating())
}

func TestMovieRatingOutOfRange(t *testing.T) {
	movie := newTestMovie(t, "taken")

	for _, rating := range []int{-1, 6} {
		err := movie.AddRating("u1", rating)
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
		assert.EqualError(t, err, "Rating must be integer between 0 and 5 (inclusive)")
	}
	assert.Zero(t, movie.Rating())
}

func TestMovieSetDescription(t *testing.T) {
	movie := newTestMovie(t, "taken")

	require.NoError(t, movie.SetDescription("The national animal of Scotland is the unicorn"))
	assert.Equal(t, "The national animal of Scotland is the unicorn", movie.Description())

	err := movie.SetDescription(strings.Repeat("d", 3001))
	assert.ErrorIs(t, err, ErrMovieDescriptionTooLong)
	assert.Equal(t, "The national animal of Scotland is the unicorn", movie.Description())
}

func TestMovieSetImage(t *testing.T) {
	movie := newTestMovie(t, "taken")

	require.NoError(t, movie.SetImage(strings.Repeat("i", 512000)))

	err := movie.SetImage(strings.Repeat("i", 512001))
	assert.ErrorIs(t, err, ErrMovieImageTooLarge)
}

func TestMovieSnapshot(t *testing.T) {
	movie := newTestMovie(t, "taken")
	require.NoError(t, movie.AddActor("bryan mills", newTestActor(t, "liam neeson")))

	raw, err := json.Marshal(movie)
	require.NoError(t, err)

	var snapshot struct {
		Name   string            `json:"name"`
		Genre  *string           `json:"genre"`
		Actors map[string]string `json:"actors"`
		Rating float64           `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, "taken", snapshot.Name)
	assert.Nil(t, snapshot.Genre)
	assert.Equal(t, map[string]string{"bryan mills": "liam neeson"}, snapshot.Actors)
	assert.Zero(t, snapshot.Rating)

	// Unset optional fields serialize as explicit nulls, not omitted keys.
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	require.Contains(t, keys, "description")
	require.Contains(t, keys, "image")
	assert.Nil(t, keys["description"])
	assert.Nil(t, keys["image"])

	require.NoError(t, movie.AddRating("u1", 5))
	raw, err = json.Marshal(movie)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, 5.0, snapshot.Rating)

	// Overwrite, not average-of-history.
	require.NoError(t, movie.AddRating("u1", 3))
	raw, err = json.Marshal(movie)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, 3.0, snapshot.Rating)
}
