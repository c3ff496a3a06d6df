package unitofwork

import (
	"context"

	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	APIKeyRepository() contract.APIKeyRepository
}
