package mapper

import (
	"time"

	"gorm.io/gorm"

	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) UserToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var deletedAt *time.Time
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.User{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    u.DeletedAt.Valid,
	}
}

func (m *UserMapper) UserToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if u.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *u.DeletedAt, Valid: true}
	} else if u.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	return &model.User{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *UserMapper) APIKeyToEntity(k *model.UserAPIKey) *entity.UserAPIKey {
	if k == nil {
		return nil
	}

	var updatedAt *time.Time
	if !k.UpdatedAt.IsZero() {
		t := k.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserAPIKey{
		Id:         k.Id,
		UserId:     k.UserId,
		Provider:   k.Provider,
		Ciphertext: k.Ciphertext,
		CreatedAt:  k.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *UserMapper) APIKeyToModel(k *entity.UserAPIKey) *model.UserAPIKey {
	if k == nil {
		return nil
	}

	var updatedAt time.Time
	if k.UpdatedAt != nil {
		updatedAt = *k.UpdatedAt
	}

	return &model.UserAPIKey{
		Id:         k.Id,
		UserId:     k.UserId,
		Provider:   k.Provider,
		Ciphertext: k.Ciphertext,
		CreatedAt:  k.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
