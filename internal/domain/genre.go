package domain

import (
	"encoding/json"
)

// Genre is a style/category of movies. It owns a direct list of member
// movies and a direct list of member actors; membership is keyed by name,
// not identity.
type Genre struct {
	id     int64
	name   string
	movies []*Movie
	actors []*Actor
}

// NewGenre creates a Genre with a validated name and empty member lists.
func NewGenre(name string) (*Genre, error) {
	g := &Genre{}
	if err := g.SetName(name); err != nil {
		return nil, err
	}
	return g, nil
}

// ID returns the persistence-assigned identity, 0 until first saved.
func (g *Genre) ID() int64 {
	return g.id
}

// SetID records the identity assigned by the persistence layer.
func (g *Genre) SetID(id int64) {
	g.id = id
}

// Name returns the genre's name.
func (g *Genre) Name() string {
	return g.name
}

// Movies returns the direct member movies in insertion order.
func (g *Genre) Movies() []*Movie {
	movies := make([]*Movie, len(g.movies))
	copy(movies, g.movies)
	return movies
}

// DirectActors returns the directly-added member actors in insertion
// order, without the actors reachable through member movies.
func (g *Genre) DirectActors() []*Actor {
	actors := make([]*Actor, len(g.actors))
	copy(actors, g.actors)
	return actors
}

// Actors returns every actor within the genre: actors appearing in any
// member movie's roster (movie order, then roster order) followed by the
// direct members, de-duplicated by name keeping the first occurrence.
// The set is recomputed on every call.
func (g *Genre) Actors() []*Actor {
	seen := make(map[string]struct{})
	var actors []*Actor

	appendUnique := func(actor *Actor) {
		if _, ok := seen[actor.Name()]; ok {
			return
		}
		seen[actor.Name()] = struct{}{}
		actors = append(actors, actor)
	}

	for _, movie := range g.movies {
		for _, role := range movie.Roster() {
			appendUnique(role.Actor)
		}
	}
	for _, actor := range g.actors {
		appendUnique(actor)
	}
	return actors
}

// SetName validates that the name is between 1 and 255 bytes.
func (g *Genre) SetName(name string) error {
	if !validLength(name, nameMinLen, nameMaxLen) {
		return ErrGenreNameInvalid
	}
	g.name = name
	return nil
}

// AddMovie appends the movie to the genre's direct list. A movie with the
// same name may not be a member twice, even as a different instance.
func (g *Genre) AddMovie(movie *Movie) error {
	if g.hasMovie(movie.Name()) {
		return ErrMovieInGenre
	}
	g.movies = append(g.movies, movie)
	return nil
}

// RemoveMovie removes the member movie with a matching name.
func (g *Genre) RemoveMovie(movie *Movie) error {
	for i, member := range g.movies {
		if member.Name() == movie.Name() {
			g.movies = append(g.movies[:i], g.movies[i+1:]...)
			return nil
		}
	}
	return ErrMovieNotInGenre
}

// AddActor appends the actor to the genre's direct list. Actors implied
// transitively through member movies are not consulted.
func (g *Genre) AddActor(actor *Actor) error {
	if g.hasDirectActor(actor.Name()) {
		return ErrActorInGenre
	}
	g.actors = append(g.actors, actor)
	return nil
}

// RemoveActor removes the direct member actor with a matching name.
func (g *Genre) RemoveActor(actor *Actor) error {
	for i, member := range g.actors {
		if member.Name() == actor.Name() {
			g.actors = append(g.actors[:i], g.actors[i+1:]...)
			return nil
		}
	}
	return ErrActorNotInGenre
}

func (g *Genre) hasMovie(name string) bool {
	for _, member := range g.movies {
		if member.Name() == name {
			return true
		}
	}
	return false
}

func (g *Genre) hasDirectActor(name string) bool {
	for _, member := range g.actors {
		if member.Name() == name {
			return true
		}
	}
	return false
}

// MarshalJSON emits the transport snapshot of the genre: member movie
// names and the derived full actor set as names.
func (g *Genre) MarshalJSON() ([]byte, error) {
	movies := make([]string, 0, len(g.movies))
	for _, movie := range g.movies {
		movies = append(movies, movie.Name())
	}

	all := g.Actors()
	actors := make([]string, 0, len(all))
	for _, actor := range all {
		actors = append(actors, actor.Name())
	}

	return json.Marshal(struct {
		Name   string   `json:"name"`
		Movies []string `json:"movies"`
		Actors []string `json:"actors"`
	}{
		Name:   g.name,
		Movies: movies,
		Actors: actors,
	})
}
