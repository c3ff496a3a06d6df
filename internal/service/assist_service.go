package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/constant"
	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
)

// RateAllower is the slice of ratelimit.Limiter this service needs.
type RateAllower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// transcriptWindow bounds how much history feeds the title model: the
// opening turns carry the topic, the closing turns carry where the
// conversation ended up.
const (
	transcriptHeadTurns = 3
	transcriptTailTurns = 7
	transcriptWindowMax = transcriptHeadTurns + transcriptTailTurns
)

type IAssistService interface {
	SuggestTitle(ctx context.Context, userID uuid.UUID, req *dto.TitleSuggestionRequest) (*dto.TitleSuggestionResponse, error)
	EnhancePrompt(ctx context.Context, userID uuid.UUID, req *dto.EnhancePromptRequest) (*dto.EnhancePromptResponse, error)
}

type assistService struct {
	resolver IProviderResolver
	limiter  RateAllower
	timeout  time.Duration
	log      logger.ILogger
}

func NewAssistService(resolver IProviderResolver, limiter RateAllower, timeout time.Duration, log logger.ILogger) IAssistService {
	return &assistService{
		resolver: resolver,
		limiter:  limiter,
		timeout:  timeout,
		log:      log,
	}
}

func (s *assistService) SuggestTitle(ctx context.Context, userID uuid.UUID, req *dto.TitleSuggestionRequest) (*dto.TitleSuggestionResponse, error) {
	if err := s.allow(ctx, userID, "title"); err != nil {
		return nil, err
	}

	provider, _, err := s.resolver.Resolve(ctx, userID, req.Model)
	if err != nil {
		return nil, MapProviderError(err)
	}

	transcript := buildTranscript(req.Messages)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ChatNameSuggestionPrompt},
		{Role: constant.ChatMessageRoleUser, Content: transcript},
	}
	raw, err := provider.Chat(ctx, history, llm.WithTemperature(0.7), llm.WithMaxTokens(30))
	if err != nil {
		return nil, MapProviderError(err)
	}

	title := CleanSuggestedTitle(raw)
	if title == "" {
		return nil, chat.NewStatusError(500, "model returned an empty title")
	}

	s.log.Debug("assist", "title suggested", map[string]interface{}{
		"conversation_id": req.ConversationId,
		"title":           title,
	})
	return &dto.TitleSuggestionResponse{Title: title}, nil
}

func (s *assistService) EnhancePrompt(ctx context.Context, userID uuid.UUID, req *dto.EnhancePromptRequest) (*dto.EnhancePromptResponse, error) {
	if err := s.allow(ctx, userID, "enhance"); err != nil {
		return nil, err
	}

	provider, _, err := s.resolver.Resolve(ctx, userID, req.Model)
	if err != nil {
		return nil, MapProviderError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.PromptEnhancementPrompt},
		{Role: constant.ChatMessageRoleUser, Content: req.Prompt},
	}
	raw, err := provider.Chat(ctx, history, llm.WithTemperature(0.3))
	if err != nil {
		return nil, MapProviderError(err)
	}

	enhanced := strings.TrimSpace(raw)
	if strings.HasPrefix(enhanced, constant.PromptEnhancementRefusal) {
		// The model declines gibberish or empty prompts with a fixed
		// sentinel; surface that as a client error, not a server one.
		return nil, chat.NewStatusError(400, "prompt could not be enhanced")
	}
	if enhanced == "" {
		return nil, chat.NewStatusError(500, "model returned an empty prompt")
	}

	return &dto.EnhancePromptResponse{EnhancedPrompt: enhanced}, nil
}

func (s *assistService) allow(ctx context.Context, userID uuid.UUID, op string) error {
	ok, err := s.limiter.Allow(ctx, fmt.Sprintf("%s:%s", op, userID))
	if err != nil {
		s.log.Warn("assist", "rate limiter unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return chat.NewStatusError(429, "rate limit check failed")
	}
	if !ok {
		return chat.NewStatusError(429, "rate limit exceeded")
	}
	return nil
}

// buildTranscript flattens history into a role-labelled transcript,
// windowed when the conversation runs long.
func buildTranscript(messages []dto.MessageDTO) string {
	windowed := messages
	if len(messages) > transcriptWindowMax {
		windowed = make([]dto.MessageDTO, 0, transcriptWindowMax)
		windowed = append(windowed, messages[:transcriptHeadTurns]...)
		windowed = append(windowed, messages[len(messages)-transcriptTailTurns:]...)
	}

	var b strings.Builder
	for _, m := range windowed {
		role := "Assistant"
		if m.IsUser {
			role = "User"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// CleanSuggestedTitle strips markdown heading markers and wrapping
// quotes the model tends to add despite the prompt.
func CleanSuggestedTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.TrimLeft(title, "#")
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(title)
}
