package services

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AdminGate checks the single shared admin secret. Either a plain secret or a
// bcrypt hash of it may be configured; the hash wins when both are set.
type AdminGate struct {
	secret string
	hash   []byte
}

func NewAdminGate(secret, hash string) *AdminGate {
	g := &AdminGate{secret: secret}
	if hash != "" {
		g.hash = []byte(hash)
	}
	return g
}

// Configured reports whether any secret is set.
func (g *AdminGate) Configured() bool {
	return g.secret != "" || len(g.hash) > 0
}

// Check compares candidate against the server secret.
func (g *AdminGate) Check(candidate string) error {
	if !g.Configured() {
		return fmt.Errorf("%w: admin password not set", ErrMisconfigured)
	}
	if candidate == "" {
		return fmt.Errorf("%w: missing credential", ErrUnauthorized)
	}

	if len(g.hash) > 0 {
		if err := bcrypt.CompareHashAndPassword(g.hash, []byte(candidate)); err != nil {
			return fmt.Errorf("%w: invalid password", ErrUnauthorized)
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(g.secret), []byte(candidate)) != 1 {
		return fmt.Errorf("%w: invalid password", ErrUnauthorized)
	}
	return nil
}
