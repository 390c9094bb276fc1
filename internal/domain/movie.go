package domain

import (
	"encoding/json"
	"math"
)

// Role is a single roster entry: an actor playing a named character.
type Role struct {
	Character string
	Actor     *Actor
}

// Movie is a film record. It owns its roster of role assignments and its
// per-user rating map, and optionally references a genre.
type Movie struct {
	id          int64
	name        string
	genre       *Genre
	roster      []Role
	ratings     map[string]int
	description string
	image       string
}

// NewMovie creates a Movie with a validated name. Genre, roster, ratings,
// description and image all start empty.
func NewMovie(name string) (*Movie, error) {
	m := &Movie{ratings: make(map[string]int)}
	if err := m.SetName(name); err != nil {
		return nil, err
	}
	return m, nil
}

// ID returns the persistence-assigned identity, 0 until first saved.
func (m *Movie) ID() int64 {
	return m.id
}

// SetID records the identity assigned by the persistence layer.
func (m *Movie) SetID(id int64) {
	m.id = id
}

// Name returns the movie's name.
func (m *Movie) Name() string {
	return m.name
}

// Genre returns the movie's genre, nil when unset.
func (m *Movie) Genre() *Genre {
	return m.genre
}

// Roster returns a copy of the (character, actor) role assignments in
// insertion order.
func (m *Movie) Roster() []Role {
	roster := make([]Role, len(m.roster))
	copy(roster, m.roster)
	return roster
}

// Ratings returns a copy of the per-user rating map.
func (m *Movie) Ratings() map[string]int {
	ratings := make(map[string]int, len(m.ratings))
	for user, rating := range m.ratings {
		ratings[user] = rating
	}
	return ratings
}

// Rating returns the arithmetic mean of the current ratings rounded to one
// decimal place, or 0 when no ratings exist.
func (m *Movie) Rating() float64 {
	if len(m.ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range m.ratings {
		sum += rating
	}
	average := float64(sum) / float64(len(m.ratings))
	return math.Round(average*10) / 10
}

// Description returns the movie's description, empty when unset.
func (m *Movie) Description() string {
	return m.description
}

// Image returns the movie's encoded image, empty when unset.
func (m *Movie) Image() string {
	return m.image
}

// SetName validates that the name is between 1 and 255 bytes.
func (m *Movie) SetName(name string) error {
	if !validLength(name, nameMinLen, nameMaxLen) {
		return ErrMovieNameInvalid
	}
	m.name = name
	return nil
}

// SetGenre replaces the movie's genre unconditionally; last write wins.
func (m *Movie) SetGenre(genre *Genre) {
	m.genre = genre
}

// AddActor appends a role assignment to the roster. The same actor may
// appear under several characters, but not twice under the same one.
func (m *Movie) AddActor(character string, actor *Actor) error {
	for _, role := range m.rolesOf(actor) {
		if role.Character == character {
			return ErrActorInMovie
		}
	}
	m.roster = append(m.roster, Role{Character: character, Actor: actor})
	return nil
}

// RemoveActor removes every roster entry for the actor, regardless of
// character.
func (m *Movie) RemoveActor(actor *Actor) error {
	if len(m.rolesOf(actor)) == 0 {
		return ErrActorNotInMovie
	}
	kept := m.roster[:0]
	for _, role := range m.roster {
		if role.Actor.Name() != actor.Name() {
			kept = append(kept, role)
		}
	}
	m.roster = kept
	return nil
}

// AddRating records the rating given by a user, overwriting any prior
// rating from the same user.
func (m *Movie) AddRating(user string, rating int) error {
	if rating < 0 || rating > 5 {
		return ErrRatingOutOfRange
	}
	if m.ratings == nil {
		m.ratings = make(map[string]int)
	}
	m.ratings[user] = rating
	return nil
}

// SetDescription provides up to 3000 bytes for the description.
func (m *Movie) SetDescription(description string) error {
	if len(description) > textMaxLen {
		return ErrMovieDescriptionTooLong
	}
	m.description = description
	return nil
}

// SetImage allows up to ~500kB of encoded image data.
func (m *Movie) SetImage(image string) error {
	if len(image) > imageMaxLen {
		return ErrMovieImageTooLarge
	}
	m.image = image
	return nil
}

// rolesOf returns the roster entries for the actor, matched by name
// rather than identity.
func (m *Movie) rolesOf(actor *Actor) []Role {
	var roles []Role
	for _, role := range m.roster {
		if role.Actor.Name() == actor.Name() {
			roles = append(roles, role)
		}
	}
	return roles
}

// MarshalJSON emits the transport snapshot of the movie: nested names
// rather than nested objects, plus the derived average rating.
func (m *Movie) MarshalJSON() ([]byte, error) {
	actors := make(map[string]string, len(m.roster))
	for _, role := range m.roster {
		actors[role.Character] = role.Actor.Name()
	}

	var genre *string
	if m.genre != nil {
		name := m.genre.Name()
		genre = &name
	}

	// description and image are null until set, never omitted.
	return json.Marshal(struct {
		Name        string            `json:"name"`
		Genre       *string           `json:"genre"`
		Actors      map[string]string `json:"actors"`
		Rating      float64           `json:"rating"`
		Description *string           `json:"description"`
		Image       *string           `json:"image"`
	}{
		Name:        m.name,
		Genre:       genre,
		Actors:      actors,
		Rating:      m.Rating(),
		Description: nullableString(m.description),
		Image:       nullableString(m.image),
	})
}
