package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/specification"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.ConversationMessage) error
	CreateMany(ctx context.Context, messages []*entity.ConversationMessage) error
	DeleteAllByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
