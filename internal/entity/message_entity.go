package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is the normalized shape; historical rows stored bare URL
// strings or single objects, the mapper upgrades them on read.
type Attachment struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

type ConversationMessage struct {
	Id               uuid.UUID
	ConversationId   uuid.UUID
	Seq              int
	Content          string
	IsUser           bool
	AiModel          *string
	PromptTokens     int
	CompletionTokens int
	Attachments      []Attachment
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
