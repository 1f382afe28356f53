package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefStoreRoundTrip(t *testing.T) {
	store := NewPrefStore()

	store.Set("u1", "role", "student")
	store.Set("u1", "voice", "en-US-Chirp3-HD-Puck")

	role, ok := store.Get("u1", "role")
	require.True(t, ok)
	assert.Equal(t, "student", role)

	_, ok = store.Get("u1", "engine")
	assert.False(t, ok)
}

func TestPrefStoreRoleSwitchOverwrites(t *testing.T) {
	store := NewPrefStore()

	store.Set("u1", "role", "student")
	store.Set("u1", "role", "teacher")

	role, ok := store.Get("u1", "role")
	require.True(t, ok)
	assert.Equal(t, "teacher", role)
}

func TestPrefStoreClearIsPerUser(t *testing.T) {
	store := NewPrefStore()

	store.Set("u1", "role", "student")
	store.Set("u1", "voice", "a")
	store.Set("u2", "role", "teacher")

	store.Clear("u1")

	_, ok := store.Get("u1", "role")
	assert.False(t, ok)
	_, ok = store.Get("u1", "voice")
	assert.False(t, ok)

	role, ok := store.Get("u2", "role")
	require.True(t, ok)
	assert.Equal(t, "teacher", role)
}

func TestPrefStoreClearTwiceIsHarmless(t *testing.T) {
	store := NewPrefStore()
	store.Set("u1", "role", "student")
	store.Clear("u1")
	store.Clear("u1")

	_, ok := store.Get("u1", "role")
	assert.False(t, ok)
}
