package utils

import "github.com/google/uuid"

// NewID returns a fresh run identifier.
func NewID() string {
	return uuid.New().String()
}
