package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminGate_PlainSecret(t *testing.T) {
	g := NewAdminGate("okinawa2026", "")
	assert.True(t, g.Configured())
	assert.NoError(t, g.Check("okinawa2026"))
	assert.ErrorIs(t, g.Check("okinawa2025"), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("okinawa2026 "), ErrUnauthorized)
	assert.ErrorIs(t, g.Check(""), ErrUnauthorized)
}

func TestAdminGate_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	g := NewAdminGate("ignored-when-hash-set", string(hash))
	assert.NoError(t, g.Check("s3cret"))
	assert.ErrorIs(t, g.Check("ignored-when-hash-set"), ErrUnauthorized)
}

func TestAdminGate_Misconfigured(t *testing.T) {
	g := NewAdminGate("", "")
	assert.False(t, g.Configured())
	assert.ErrorIs(t, g.Check("anything"), ErrMisconfigured)
	assert.ErrorIs(t, g.Check(""), ErrMisconfigured)
}
