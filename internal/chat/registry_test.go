package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAndRelease(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Reserve("alice"))
	assert.True(t, r.Reserved("alice"))

	r.Release("alice")
	assert.False(t, r.Reserved("alice"))

	// releasing an unreserved name is a no-op
	r.Release("alice")
	require.NoError(t, r.Reserve("alice"))
}

func TestReserveConflictIsCaseSensitive(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Reserve("Alice"))
	require.ErrorIs(t, r.Reserve("Alice"), ErrUsernameTaken)

	// different case is a different name
	require.NoError(t, r.Reserve("alice"))
}

func TestReserveBannedSubstringIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	require.ErrorIs(t, r.Reserve("bot"), ErrUsernameInvalid)
	require.ErrorIs(t, r.Reserve("RoBot99"), ErrUsernameInvalid)
	require.ErrorIs(t, r.Reserve("FUCKyou123"), ErrUsernameInvalid)

	assert.False(t, r.Reserved("bot"))
	assert.False(t, r.Reserved("RoBot99"))
}
