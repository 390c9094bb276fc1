package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yesterday() time.Time {
	return time.Now().UTC().Add(-24 * time.Hour)
}

func TestNewActor(t *testing.T) {
	birth := yesterday()

	actor, err := NewActor("sylvestor stallion", birth)

	require.NoError(t, err)
	assert.Equal(t, "sylvestor stallion", actor.Name())
	assert.Equal(t, birth, actor.Birth())
	assert.Empty(t, actor.Bio())
	assert.Empty(t, actor.Image())
	assert.Zero(t, actor.ID())
}

func TestActorSetName(t *testing.T) {
	actor, err := NewActor("sylvestor stallion", yesterday())
	require.NoError(t, err)

	require.NoError(t, actor.SetName("sandra ballsbooks"))
	assert.Equal(t, "sandra ballsbooks", actor.Name())
}

func TestActorNameBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "empty", value: "", wantErr: ErrActorNameInvalid},
		{name: "too long", value: strings.Repeat("z", 256), wantErr: ErrActorNameInvalid},
		{name: "min length", value: "z"},
		{name: "max length", value: strings.Repeat("z", 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewActor(tt.value, yesterday())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.EqualError(t, err, "Actor name invalid")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestActorSetNameFailureLeavesNameUnchanged(t *testing.T) {
	actor, err := NewActor("sylvestor stallion", yesterday())
	require.NoError(t, err)

	assert.ErrorIs(t, actor.SetName(""), ErrActorNameInvalid)
	assert.Equal(t, "sylvestor stallion", actor.Name())
}

func TestActorSetBirth(t *testing.T) {
	actor, err := NewActor("sylvestor stallion", yesterday())
	require.NoError(t, err)

	birth := time.Date(1946, time.July, 6, 0, 0, 0, 0, time.UTC)
	require.NoError(t, actor.SetBirth(birth))
	assert.Equal(t, birth, actor.Birth())
}

func TestActorBirthInFuture(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour)

	_, err := NewActor("sylvestor stallion", future)

	assert.ErrorIs(t, err, ErrBirthInFuture)
	assert.EqualError(t, err, "Birth must be in the past")
}

func TestActorAge(t *testing.T) {
	actor, err := NewActor("sylvestor stallion", time.Now().UTC().AddDate(-1, 0, -1))
	require.NoError(t, err)

	assert.Equal(t, 1, actor.Age())
}

func TestActorSetBio(t *testing.T) {
	actor, err := NewActor("sylvestor stallion", yesterday())
	require.NoError(t, err)

	require.NoError(t, actor.SetBio("started as a boxer"))
	assert.Equal(t, "started as a boxer", actor.Bio())

	err = actor.SetBio(strings.Repeat("b", 3001))
	assert.ErrorIs(t, err, ErrActorBioTooLong)
	assert.Equal(t, "started as a boxer", actor.Bio())
}

func TestActorSetImage(t *testing.T) {
	actor, err := NewActor("sylvestor stallion", yesterday())
	require.NoError(t, err)

	require.NoError(t, actor.SetImage("this is an image cough cough cough"))
	assert.Equal(t, "this is an image cough cough cough", actor.Image())

	err = actor.SetImage(strings.Repeat("i", 512001))
	assert.ErrorIs(t, err, ErrActorImageTooLarge)
	assert.Equal(t, "this is an image cough cough cough", actor.Image())
}

func TestActorSnapshot(t *testing.T) {
	birth := time.Date(1946, time.July, 6, 0, 0, 0, 0, time.UTC)
	actor, err := NewActor("sylvestor stallion", birth)
	require.NoError(t, err)
	require.NoError(t, actor.SetBio("started as a boxer"))

	raw, err := json.Marshal(actor)
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, "sylvestor stallion", snapshot["name"])
	assert.Equal(t, "1946-07-06T00:00:00Z", snapshot["birth"])
	assert.Equal(t, "started as a boxer", snapshot["bio"])
	assert.Contains(t, snapshot, "image")
	assert.Nil(t, snapshot["image"])
}

func TestRestoreActor(t *testing.T) {
	birth := time.Date(1946, time.July, 6, 0, 0, 0, 0, time.UTC)

	actor := RestoreActor(ActorState{
		ID:    7,
		Name:  "sylvestor stallion",
		Birth: birth,
		Bio:   "started as a boxer",
	})

	assert.Equal(t, int64(7), actor.ID())
	assert.Equal(t, "sylvestor stallion", actor.Name())
	assert.Equal(t, birth, actor.Birth())
	assert.Equal(t, "started as a boxer", actor.Bio())
}
