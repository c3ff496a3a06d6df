package chatstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

// Assist adapts the assist service to the chat.Assist contract for one
// signed-in user.
type Assist struct {
	assist service.IAssistService
	userID uuid.UUID
}

func NewAssist(assist service.IAssistService, userID uuid.UUID) *Assist {
	return &Assist{assist: assist, userID: userID}
}

func (a *Assist) SuggestTitle(ctx context.Context, conversationID string, history []chat.Message) (string, error) {
	messages := make([]dto.MessageDTO, len(history))
	for i, m := range history {
		messages[i] = messageToDTO(m)
	}

	res, err := a.assist.SuggestTitle(ctx, a.userID, &dto.TitleSuggestionRequest{
		ConversationId: conversationID,
		Messages:       messages,
	})
	if err != nil {
		return "", err
	}
	return res.Title, nil
}

func (a *Assist) EnhancePrompt(ctx context.Context, _, prompt string) (string, error) {
	res, err := a.assist.EnhancePrompt(ctx, a.userID, &dto.EnhancePromptRequest{
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}
	return res.EnhancedPrompt, nil
}
