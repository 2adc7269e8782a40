package crypto

import (
	"github.com/google/uuid"
)

// NewMessageID generates a random (version 4) message identifier.
func NewMessageID() string {
	return uuid.New().String()
}
