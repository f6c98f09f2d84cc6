package util

import (
	"time"

	"github.com/google/uuid"
)

const (
	uuidV7Attempts = 10
	// a little over the 100ns clock resolution of a v7 id
	uuidV7Backoff = 200 * time.Nanosecond
)

// NewUUID returns a time ordered (v7) id, used for request correlation ids.
// If the v7 generator keeps failing it falls back to a random v4 id.
func NewUUID() string {
	for i := range uuidV7Attempts {
		id, err := uuid.NewV7()
		if err == nil {
			return id.String()
		}
		if i < uuidV7Attempts-1 {
			time.Sleep(uuidV7Backoff)
		}
	}
	return uuid.New().String()
}
