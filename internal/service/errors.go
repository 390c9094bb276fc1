// Package service provides business logic services for the Uma catalogue.
package service

import "errors"

// Common service errors.
var (
	// Duplicate creation errors
	ErrActorExists = errors.New("Actor already exists")
	ErrGenreExists = errors.New("Genre already exists")
	ErrMovieExists = errors.New("Movie already exists")
	ErrUserExists  = errors.New("User already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or revoked token")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
