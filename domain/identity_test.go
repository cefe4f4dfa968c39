package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanAccess(t *testing.T) {
	req := require.New(t)

	// Default rooms are open to every authenticated role
	req.True(CanAccess("user", "user"))
	req.True(CanAccess("beta", "user"))
	req.True(CanAccess("admin", "user"))

	// Admins enter every room
	req.True(CanAccess("admin", "beta"))
	req.True(CanAccess("admin", "admin"))

	// Restricted rooms need an exact match
	req.True(CanAccess("beta", "beta"))
	req.False(CanAccess("gamma", "beta"))
	req.False(CanAccess("user", "beta"))
	req.False(CanAccess("beta", "admin"))
}

func TestSet_Contains(t *testing.T) {
	req := require.New(t)
	s := Set{"r1": {}, "r2": {}}
	req.True(s.Contains("r1"))
	req.False(s.Contains("r3"))
}
