package auth

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes and verifies passwords with bcrypt. Each hash carries its own salt.
type BcryptHasher struct {
	Cost int

	// dummy is compared against when the username does not exist, so that an unknown user
	// costs the same bcrypt work as a wrong password. It is hashed once, up front.
	dummy []byte
}

// NewBcryptHasher returns a hasher with the given work factor; out-of-range values fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// The input is random and never stored, so nothing can ever match it.
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt: cannot hash dummy password: %v", err))
	}
	return &BcryptHasher{Cost: cost, dummy: dummy}
}

// Hash returns the bcrypt hash of the password.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// CompareDummy performs one comparison against the dummy hash and discards the result.
func (h *BcryptHasher) CompareDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
