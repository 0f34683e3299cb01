package core

import "github.com/google/uuid"

// NewID returns a random (version 4) UUID string backed by crypto/rand.
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether id is a UUID as produced by NewID.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
