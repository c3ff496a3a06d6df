package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/specification"
)

type APIKeyRepository interface {
	Upsert(ctx context.Context, key *entity.UserAPIKey) error
	Delete(ctx context.Context, userId uuid.UUID, provider string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserAPIKey, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserAPIKey, error)
}
