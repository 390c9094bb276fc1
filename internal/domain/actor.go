package domain

import (
	"encoding/json"
	"time"
)

// Actor is a person record. Actors are independently valid and never
// reference movies or genres back; those relationships are owned by the
// other side.
type Actor struct {
	id    int64
	name  string
	birth time.Time
	bio   string
	image string
}

// NewActor creates an Actor with a validated name and birth instant.
func NewActor(name string, birth time.Time) (*Actor, error) {
	a := &Actor{}
	if err := a.SetName(name); err != nil {
		return nil, err
	}
	if err := a.SetBirth(birth); err != nil {
		return nil, err
	}
	return a, nil
}

// ID returns the persistence-assigned identity, 0 until first saved.
func (a *Actor) ID() int64 {
	return a.id
}

// SetID records the identity assigned by the persistence layer.
func (a *Actor) SetID(id int64) {
	a.id = id
}

// Name returns the actor's name.
func (a *Actor) Name() string {
	return a.name
}

// Birth returns the actor's date of birth.
func (a *Actor) Birth() time.Time {
	return a.birth
}

// Age returns the actor's age in whole years as of now (UTC), a derived
// read recomputed on every call.
func (a *Actor) Age() int {
	now := time.Now().UTC()
	birth := a.birth.UTC()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Bio returns the actor's biography, empty when unset.
func (a *Actor) Bio() string {
	return a.bio
}

// Image returns the actor's encoded image, empty when unset.
func (a *Actor) Image() string {
	return a.image
}

// SetName validates that the name is between 1 and 255 bytes.
func (a *Actor) SetName(name string) error {
	if !validLength(name, nameMinLen, nameMaxLen) {
		return ErrActorNameInvalid
	}
	a.name = name
	return nil
}

// SetBirth validates that the birth instant is not in the future.
// The comparison happens in UTC at set time; the value is not re-validated
// later.
func (a *Actor) SetBirth(birth time.Time) error {
	if birth.UTC().After(time.Now().UTC()) {
		return ErrBirthInFuture
	}
	a.birth = birth
	return nil
}

// SetBio provides up to 3000 bytes for the biography.
func (a *Actor) SetBio(bio string) error {
	if len(bio) > textMaxLen {
		return ErrActorBioTooLong
	}
	a.bio = bio
	return nil
}

// SetImage allows up to ~500kB of encoded image data.
func (a *Actor) SetImage(image string) error {
	if len(image) > imageMaxLen {
		return ErrActorImageTooLarge
	}
	a.image = image
	return nil
}

// MarshalJSON emits the transport snapshot of the actor.
func (a *Actor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string  `json:"name"`
		Birth string  `json:"birth"`
		Age   int     `json:"age"`
		Bio   *string `json:"bio"`
		Image *string `json:"image"`
	}{
		Name:  a.name,
		Birth: a.birth.Format(time.RFC3339),
		Age:   a.Age(),
		Bio:   nullableString(a.bio),
		Image: nullableString(a.image),
	})
}
