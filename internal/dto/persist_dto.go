package dto

import "github.com/google/uuid"

// PersistMessagesMessage is the payload carried on the PERSIST_MESSAGES
// topic: a full replace-list snapshot for one conversation.
type PersistMessagesMessage struct {
	UserId         uuid.UUID    `json:"user_id"`
	ConversationId uuid.UUID    `json:"conversation_id"`
	Messages       []MessageDTO `json:"messages"`
}
