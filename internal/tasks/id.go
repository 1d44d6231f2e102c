package tasks

import "github.com/google/uuid"

// NewID returns a time-ordered random id (UUIDv7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
