package domain

import "time"

// Rehydration constructors used by the persistence layer to rebuild
// entities from stored rows without re-running set-time validation
// (a stored birth date, for example, stays valid even if the row is
// older than the rules that admitted it).

// ActorState is the stored form of an Actor.
type ActorState struct {
	ID    int64
	Name  string
	Birth time.Time
	Bio   string
	Image string
}

// RestoreActor rebuilds an Actor from its stored state.
func RestoreActor(s ActorState) *Actor {
	return &Actor{
		id:    s.ID,
		name:  s.Name,
		birth: s.Birth,
		bio:   s.Bio,
		image: s.Image,
	}
}

// MovieState is the stored form of a Movie.
type MovieState struct {
	ID          int64
	Name        string
	Genre       *Genre
	Roster      []Role
	Ratings     map[string]int
	Description string
	Image       string
}

// RestoreMovie rebuilds a Movie from its stored state.
func RestoreMovie(s MovieState) *Movie {
	ratings := s.Ratings
	if ratings == nil {
		ratings = make(map[string]int)
	}
	return &Movie{
		id:          s.ID,
		name:        s.Name,
		genre:       s.Genre,
		roster:      s.Roster,
		ratings:     ratings,
		description: s.Description,
		image:       s.Image,
	}
}

// GenreState is the stored form of a Genre.
type GenreState struct {
	ID     int64
	Name   string
	Movies []*Movie
	Actors []*Actor
}

// RestoreGenre rebuilds a Genre from its stored state.
func RestoreGenre(s GenreState) *Genre {
	return &Genre{
		id:     s.ID,
		name:   s.Name,
		movies: s.Movies,
		actors: s.Actors,
	}
}

// UserState is the stored form of a User.
type UserState struct {
	ID           int64
	Username     string
	PasswordHash string
	APIToken     string
	Favourites   []*Movie
}

// RestoreUser rebuilds a User from its stored state.
func RestoreUser(s UserState) *User {
	return &User{
		id:           s.ID,
		username:     s.Username,
		passwordHash: s.PasswordHash,
		apiToken:     s.APIToken,
		favourites:   s.Favourites,
	}
}
