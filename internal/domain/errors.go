// Package domain contains the core entities of the Uma movie catalogue:
// actors, movies, genres and users. Entities are pure in-memory values;
// they perform no I/O and hold no persistence state beyond their identity.
package domain

// A DomainError is a business-rule violation raised by an entity method.
// The message is part of the observable contract: callers and tests match
// on it. An operation that returns a DomainError leaves the entity in its
// prior valid state.
type DomainError struct {
	msg string
}

// NewDomainError creates a DomainError with the given message.
func NewDomainError(msg string) *DomainError {
	return &DomainError{msg: msg}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.msg
}

// A NoResourceError indicates that a lookup by name yielded nothing.
// It is raised by collaborators (services resolving entities for a request),
// never by the entities themselves.
type NoResourceError struct {
	msg string
}

// NewNoResourceError creates a NoResourceError with the given message.
func NewNoResourceError(msg string) *NoResourceError {
	return &NoResourceError{msg: msg}
}

// Error implements the error interface.
func (e *NoResourceError) Error() string {
	return e.msg
}

// Domain rule violations. The exact strings are contract surface.
var (
	// ===========================================
	// Actor
	// ===========================================

	// ErrActorNameInvalid indicates the actor name is outside 1-255 bytes.
	ErrActorNameInvalid = NewDomainError("Actor name invalid")

	// ErrBirthInFuture indicates the birth instant is later than now (UTC).
	ErrBirthInFuture = NewDomainError("Birth must be in the past")

	// ErrActorBioTooLong indicates the biography exceeds 3000 bytes.
	ErrActorBioTooLong = NewDomainError("Actor biography too long")

	// ErrActorImageTooLarge indicates the encoded image exceeds 512000 bytes.
	ErrActorImageTooLarge = NewDomainError("Actor image too large")

	// ===========================================
	// Movie
	// ===========================================

	// ErrMovieNameInvalid indicates the movie name is outside 1-255 bytes.
	ErrMovieNameInvalid = NewDomainError("Movie name invalid")

	// ErrActorInMovie indicates the actor already plays that character.
	ErrActorInMovie = NewDomainError("Actor already within movie")

	// ErrActorNotInMovie indicates the actor has no roles in the movie.
	ErrActorNotInMovie = NewDomainError("Actor not within movie")

	// ErrRatingOutOfRange indicates a rating outside [0,5].
	ErrRatingOutOfRange = NewDomainError("Rating must be integer between 0 and 5 (inclusive)")

	// ErrMovieDescriptionTooLong indicates the description exceeds 3000 bytes.
	ErrMovieDescriptionTooLong = NewDomainError("Movie description too long")

	// ErrMovieImageTooLarge indicates the encoded image exceeds 512000 bytes.
	ErrMovieImageTooLarge = NewDomainError("Movie image too large")

	// ===========================================
	// Genre
	// ===========================================

	// ErrGenreNameInvalid indicates the genre name is outside 1-255 bytes.
	ErrGenreNameInvalid = NewDomainError("Genre name invalid")

	// ErrMovieInGenre indicates a movie with the same name is already a member.
	ErrMovieInGenre = NewDomainError("Movie already within genre")

	// ErrMovieNotInGenre indicates no member movie has that name.
	ErrMovieNotInGenre = NewDomainError("Movie not within genre")

	// ErrActorInGenre indicates an actor with the same name is already a direct member.
	ErrActorInGenre = NewDomainError("Actor already within genre")

	// ErrActorNotInGenre indicates no direct member actor has that name.
	ErrActorNotInGenre = NewDomainError("Actor not within genre")

	// ===========================================
	// User
	// ===========================================

	// ErrUsernameInvalid indicates the username is not 4-16 ASCII alphanumeric bytes.
	ErrUsernameInvalid = NewDomainError("User username invalid")

	// ErrPasswordInvalid indicates the password is outside 8-24 bytes.
	ErrPasswordInvalid = NewDomainError("User password invalid")

	// ErrMovieAlreadyFavourited indicates the movie is already a favourite.
	ErrMovieAlreadyFavourited = NewDomainError("Movie already favourited")

	// ErrMovieNotFavourited indicates the movie is not a favourite.
	ErrMovieNotFavourited = NewDomainError("Movie not favourited")
)

// Missing-resource errors raised when a request names an entity that
// does not exist.
var (
	ErrNoActor = NewNoResourceError("Actor does not exist")
	ErrNoMovie = NewNoResourceError("Movie does not exist")
	ErrNoGenre = NewNoResourceError("Genre does not exist")
	ErrNoUser  = NewNoResourceError("User does not exist")
)
