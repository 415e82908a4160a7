// Package cryptox hashes and checks account passwords with bcrypt.
package cryptox

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
const MaxPasswordLength = 72

var (
	// ErrMismatch is returned by CheckPassword when the password does not match.
	ErrMismatch = errors.New("password mismatch")
	// ErrTooLong is returned by HashPassword for passwords over MaxPasswordLength bytes.
	ErrTooLong = bcrypt.ErrPasswordTooLong
)

func normalizeCost(cost int) int {
	if cost == 0 {
		return bcrypt.DefaultCost
	}
	return cost
}

// HashPassword returns a bcrypt hash of password. A cost of 0 selects
// bcrypt.DefaultCost.
func HashPassword(password []byte, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, normalizeCost(cost))
}

// CheckPassword compares password with hash. It returns ErrMismatch for a
// wrong password and any other error for a malformed hash.
func CheckPassword(hash, password []byte) error {
	err := bcrypt.CompareHashAndPassword(hash, password)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// dummyHashes caches one throwaway hash per cost.
var dummyHashes sync.Map

func dummyHash(cost int) []byte {
	cost = normalizeCost(cost)
	if h, ok := dummyHashes.Load(cost); ok {
		return h.([]byte)
	}
	h, err := bcrypt.GenerateFromPassword([]byte("agentchat-dummy-password"), cost)
	if err != nil {
		h, _ = bcrypt.GenerateFromPassword([]byte("agentchat-dummy-password"), bcrypt.DefaultCost)
	}
	actual, _ := dummyHashes.LoadOrStore(cost, h)
	return actual.([]byte)
}

// BurnCompare performs a throwaway comparison against a hash of the given
// cost, so unknown usernames cost the same bcrypt work as wrong passwords.
func BurnCompare(password []byte, cost int) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(cost), password)
}
