package model

import (
	"time"

	"github.com/google/uuid"
)

type UserAPIKey struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_provider"`
	Provider   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_provider"`
	Ciphertext []byte    `gorm:"type:bytea;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (UserAPIKey) TableName() string {
	return "user_api_keys"
}
