package domain

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
)

// Hasher derives an opaque digest from a plaintext password. The concrete
// implementation is injected at construction time; the domain never
// compares hashes itself.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// apiTokenLength is the number of characters in a generated API token.
const apiTokenLength = 40

// apiTokenChars is the printable charset tokens are drawn from.
const apiTokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// User is an account record. It owns its password hash, a rotating bearer
// API token and a set of favourite movies keyed by movie name.
type User struct {
	id           int64
	username     string
	passwordHash string
	apiToken     string
	favourites   []*Movie
}

// NewUser creates a User with a validated username and password. Only the
// hash of the password is retained.
func NewUser(username, password string, hasher Hasher) (*User, error) {
	if !validLength(username, usernameMinLen, usernameMaxLen) || !asciiAlphanumeric(username) {
		return nil, ErrUsernameInvalid
	}
	if !validLength(password, passwordMinLen, passwordMaxLen) {
		return nil, ErrPasswordInvalid
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{username: username, passwordHash: hash}, nil
}

// ID returns the persistence-assigned identity, 0 until first saved.
func (u *User) ID() int64 {
	return u.id
}

// SetID records the identity assigned by the persistence layer.
func (u *User) SetID(id int64) {
	u.id = id
}

// Username returns the account's username, the authentication identifier.
func (u *User) Username() string {
	return u.username
}

// PasswordHash returns the opaque password digest.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// APIToken returns the current bearer token, empty when logged out.
func (u *User) APIToken() string {
	return u.apiToken
}

// GenerateAPIToken replaces the current token with a fresh random one.
// Uniqueness across users is a persistence-layer constraint, not checked
// here.
func (u *User) GenerateAPIToken() error {
	raw := make([]byte, apiTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate api token: %w", err)
	}
	token := make([]byte, apiTokenLength)
	for i, b := range raw {
		token[i] = apiTokenChars[int(b)%len(apiTokenChars)]
	}
	u.apiToken = string(token)
	return nil
}

// ClearAPIToken unsets the token; subsequent lookups by it must fail.
func (u *User) ClearAPIToken() {
	u.apiToken = ""
}

// Favourites returns the favourite movies in insertion order.
func (u *User) Favourites() []*Movie {
	favourites := make([]*Movie, len(u.favourites))
	copy(favourites, u.favourites)
	return favourites
}

// AddFavourite adds the movie to the user's favourites; membership is
// keyed by movie name.
func (u *User) AddFavourite(movie *Movie) error {
	if u.hasFavourite(movie.Name()) {
		return ErrMovieAlreadyFavourited
	}
	u.favourites = append(u.favourites, movie)
	return nil
}

// RemoveFavourite removes the favourite with a matching name.
func (u *User) RemoveFavourite(movie *Movie) error {
	for i, favourite := range u.favourites {
		if favourite.Name() == movie.Name() {
			u.favourites = append(u.favourites[:i], u.favourites[i+1:]...)
			return nil
		}
	}
	return ErrMovieNotFavourited
}

func (u *User) hasFavourite(name string) bool {
	for _, favourite := range u.favourites {
		if favourite.Name() == name {
			return true
		}
	}
	return false
}

// MarshalJSON emits the transport snapshot of the user. The password hash
// and API token are never serialized.
func (u *User) MarshalJSON() ([]byte, error) {
	favourites := make([]string, 0, len(u.favourites))
	for _, favourite := range u.favourites {
		favourites = append(favourites, favourite.Name())
	}

	return json.Marshal(struct {
		Username   string   `json:"username"`
		Favourites []string `json:"favourites"`
	}{
		Username:   u.username,
		Favourites: favourites,
	})
}
