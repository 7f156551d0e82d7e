// Package hashing wraps bcrypt for credential storage and verification.
// Verification distinguishes a legitimate mismatch from a corrupt stored
// hash: the former is (false, nil), the latter is ErrInvalidHash, so
// operators can spot data corruption while end users see the same
// "invalid credentials" either way.
package hashing

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash signals that a stored hash is not valid bcrypt output.
var ErrInvalidHash = errors.New("stored password hash is malformed")

// DefaultCost matches the cost used for all seeded accounts.
const DefaultCost = 12

// Hasher produces and verifies salted bcrypt hashes with a fixed cost.
type Hasher struct {
	cost int
}

// New returns a Hasher. Costs outside bcrypt's supported range fall back
// to DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a new salted hash for storage.
func (h *Hasher) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Check reports whether plain matches the stored hash.
func (h *Hasher) Check(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// bcrypt only returns other errors for unparseable hashes
		return false, ErrInvalidHash
	}
}
