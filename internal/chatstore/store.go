package chatstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

// Store adapts the conversation service to the chat.Store contract for
// one signed-in user. Failures collapse to the boolean result the state
// machine expects; only title updates keep their classified error.
type Store struct {
	conversations service.IConversationService
	userID        uuid.UUID
	log           logger.ILogger
}

func NewStore(conversations service.IConversationService, userID uuid.UUID, log logger.ILogger) *Store {
	return &Store{
		conversations: conversations,
		userID:        userID,
		log:           log,
	}
}

func (s *Store) FetchConversation(ctx context.Context, id string) (*chat.Conversation, bool) {
	conversationID, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}

	detail, err := s.conversations.Get(ctx, s.userID, conversationID)
	if err != nil {
		s.log.Warn("chatstore", "fetch conversation failed", map[string]interface{}{
			"conversation_id": id,
			"error":           err.Error(),
		})
		return nil, false
	}

	messages := make([]chat.Message, len(detail.Messages))
	for i, m := range detail.Messages {
		messages[i] = messageFromDTO(m)
	}
	return chat.RestoreConversation(detail.Id, detail.Title, detail.Persona, messages, detail.CreatedAt, detail.UpdatedAt), true
}

func (s *Store) CreateConversation(ctx context.Context, id, title string) bool {
	_, err := s.conversations.Create(ctx, s.userID, &dto.CreateConversationRequest{
		Id:    id,
		Title: title,
	})
	if err != nil {
		s.log.Warn("chatstore", "create conversation failed", map[string]interface{}{
			"conversation_id": id,
			"error":           err.Error(),
		})
		return false
	}
	return true
}

func (s *Store) UpdateConversationTitle(ctx context.Context, id, title string) error {
	conversationID, err := uuid.Parse(id)
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}
	return s.conversations.UpdateTitle(ctx, s.userID, conversationID, title)
}

func (s *Store) DeleteConversation(ctx context.Context, id string) bool {
	conversationID, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	if err := s.conversations.Delete(ctx, s.userID, conversationID); err != nil {
		s.log.Warn("chatstore", "delete conversation failed", map[string]interface{}{
			"conversation_id": id,
			"error":           err.Error(),
		})
		return false
	}
	return true
}

func (s *Store) SaveMessages(ctx context.Context, id string, messages []chat.Message) bool {
	conversationID, err := uuid.Parse(id)
	if err != nil {
		return false
	}

	dtos := make([]dto.MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = messageToDTO(m)
	}
	if err := s.conversations.ReplaceMessages(ctx, s.userID, conversationID, dtos); err != nil {
		s.log.Warn("chatstore", "save messages failed", map[string]interface{}{
			"conversation_id": id,
			"error":           err.Error(),
		})
		return false
	}
	return true
}

func (s *Store) FetchSummaries(ctx context.Context) ([]chat.Summary, bool) {
	summaries, err := s.conversations.List(ctx, s.userID)
	if err != nil {
		s.log.Warn("chatstore", "fetch summaries failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	out := make([]chat.Summary, len(summaries))
	for i, sum := range summaries {
		out[i] = chat.Summary{
			Id:        sum.Id,
			Title:     sum.Title,
			CreatedAt: sum.CreatedAt,
			UpdatedAt: sum.UpdatedAt,
		}
	}
	return out, true
}

func messageFromDTO(m dto.MessageDTO) chat.Message {
	model := ""
	if m.AiModel != nil {
		model = *m.AiModel
	}
	attachments := make([]chat.Attachment, len(m.Attachments))
	for i, a := range m.Attachments {
		attachments[i] = chat.Attachment{
			Type:     chat.AttachmentType(a.Type),
			URL:      a.URL,
			Filename: a.Filename,
		}
	}
	if len(attachments) == 0 {
		attachments = nil
	}
	return chat.Message{
		Id:               m.Id,
		Content:          m.Content,
		IsUser:           m.IsUser,
		AIModel:          model,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
		Attachments:      attachments,
	}
}

func messageToDTO(m chat.Message) dto.MessageDTO {
	var model *string
	if !m.IsUser && m.AIModel != "" {
		model = &m.AIModel
	}
	attachments := make([]dto.AttachmentDTO, len(m.Attachments))
	for i, a := range m.Attachments {
		attachments[i] = dto.AttachmentDTO{
			Type:     string(a.Type),
			URL:      a.URL,
			Filename: a.Filename,
		}
	}
	if len(attachments) == 0 {
		attachments = nil
	}
	return dto.MessageDTO{
		Id:               m.Id,
		Content:          m.Content,
		IsUser:           m.IsUser,
		AiModel:          model,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
		Attachments:      attachments,
	}
}
