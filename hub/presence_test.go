package hub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresence_SetGetRemove(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Set("u1", 7)
	marker, online := presence.Get("u1")
	req.True(online)
	req.Equal(7, marker)

	// Last writer wins
	presence.Set("u1", 3)
	marker, _ = presence.Get("u1")
	req.Equal(3, marker)

	presence.Remove("u1")
	_, online = presence.Get("u1")
	req.False(online)

	// Removing an absent user is a no-op
	presence.Remove("ghost")
}

func TestPresence_Snapshot(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Set("u1", 1)
	presence.Set("u2", 2)

	snapshot := presence.Snapshot()
	req.Equal(map[string]int{"u1": 1, "u2": 2}, snapshot)

	// The snapshot is a copy, not a view
	snapshot["u3"] = 3
	_, online := presence.Get("u3")
	req.False(online)
}
