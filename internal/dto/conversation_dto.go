package dto

import "time"

type AttachmentDTO struct {
	Type     string `json:"type" validate:"required,oneof=image pdf"`
	URL      string `json:"url" validate:"required,url"`
	Filename string `json:"filename,omitempty"`
}

// MessageDTO mirrors the client-side message shape; Id is the position
// within the conversation, not a database key.
type MessageDTO struct {
	Id               int             `json:"id"`
	Content          string          `json:"content"`
	IsUser           bool            `json:"isUser"`
	AiModel          *string         `json:"aiModel,omitempty"`
	PromptTokens     int             `json:"promptTokens,omitempty"`
	CompletionTokens int             `json:"completionTokens,omitempty"`
	Attachments      []AttachmentDTO `json:"attachments,omitempty"`
}

// CreateConversationRequest carries the client-generated id; creation
// must be idempotent on it.
type CreateConversationRequest struct {
	Id    string `json:"id" validate:"required,uuid"`
	Title string `json:"title,omitempty"`
}

type ConversationSummaryResponse struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ConversationDetailResponse struct {
	Id        string       `json:"id"`
	Title     string       `json:"title"`
	Persona   string       `json:"persona"`
	Messages  []MessageDTO `json:"messages"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

type ReplaceMessagesRequest struct {
	Messages []MessageDTO `json:"messages" validate:"required"`
}

type DeleteManyRequest struct {
	Ids []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// PreviewResponse is the lightweight snapshot used by link previews and
// hover cards; served from cache when warm.
type PreviewResponse struct {
	Id           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	FirstMessage string    `json:"firstMessage,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
