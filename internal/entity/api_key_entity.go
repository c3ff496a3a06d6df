package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserAPIKey stores a provider key sealed at rest; the plaintext only
// exists in memory while a request is being served.
type UserAPIKey struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Provider   string
	Ciphertext []byte
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
