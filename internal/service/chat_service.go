package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/constant"
	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/websocket"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/events"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
	pktNats "github.com/SuryaSekhar14/s3rd-chat/pkg/nats"
)

type IChatService interface {
	// Send runs one full exchange: persist the user turn, stream the
	// assistant turn over the socket, persist the result. It returns once
	// the generation finishes, fails, or is stopped.
	Send(ctx context.Context, userID uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)

	// Stop cancels the in-flight generation for one conversation, if any.
	Stop(userID uuid.UUID, conversationID string)

	// HandleSocketCommand parses a client frame from the socket and
	// dispatches it. Wired as the hub's command handler.
	HandleSocketCommand(userID uuid.UUID, raw []byte)
}

type chatService struct {
	conversationService IConversationService
	assistService       IAssistService
	resolver            IProviderResolver
	hub                 *websocket.Hub
	eventPublisher      *pktNats.Publisher
	streamLog           logger.ILogger
	log                 logger.ILogger

	// active tracks in-flight generations so a stop command can cancel
	// them and a second send on the same conversation is rejected.
	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func NewChatService(
	conversationService IConversationService,
	assistService IAssistService,
	resolver IProviderResolver,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	streamLog logger.ILogger,
	log logger.ILogger,
) IChatService {
	return &chatService{
		conversationService: conversationService,
		assistService:       assistService,
		resolver:            resolver,
		hub:                 hub,
		eventPublisher:      eventPublisher,
		streamLog:           streamLog,
		log:                 log,
		active:              make(map[string]context.CancelFunc),
	}
}

func (s *chatService) Send(ctx context.Context, userID uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	conversationID, err := uuid.Parse(req.ConversationId)
	if err != nil {
		return nil, chat.NewStatusError(400, "invalid conversation id")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, chat.NewStatusError(400, "message cannot be empty")
	}

	detail, err := s.conversationService.Get(ctx, userID, conversationID)
	if err != nil {
		if chat.StatusCode(err) != 404 {
			return nil, err
		}
		// First send with a fresh client-generated id creates the stub;
		// creation is idempotent on the id.
		if _, err := s.conversationService.Create(ctx, userID, &dto.CreateConversationRequest{
			Id:    req.ConversationId,
			Title: chat.DefaultTitle,
		}); err != nil {
			return nil, err
		}
		detail = &dto.ConversationDetailResponse{
			Id:    req.ConversationId,
			Title: chat.DefaultTitle,
		}
	}
	firstExchange := len(detail.Messages) == 0

	genCtx, err := s.begin(ctx, userID, req.ConversationId)
	if err != nil {
		return nil, err
	}
	defer s.finish(userID, req.ConversationId)

	provider, model, err := s.resolver.Resolve(ctx, userID, req.Model)
	if err != nil {
		return nil, MapProviderError(err)
	}

	history := s.buildHistory(detail, req)

	userTurn := dto.MessageDTO{
		Id:          len(detail.Messages),
		Content:     req.Message,
		IsUser:      true,
		Attachments: req.Attachments,
	}
	if err := s.conversationService.AppendMessage(ctx, userID, conversationID, userTurn); err != nil {
		return nil, err
	}

	result, err := provider.ChatStream(genCtx, history, func(delta string) {
		s.push(userID, websocket.TokenFrame(req.ConversationId, delta))
	}, llm.WithModel(model))

	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			// Stopped by the user; the partial output is discarded.
			s.streamLog.Info("stream", "generation stopped", map[string]interface{}{
				"conversation_id": req.ConversationId,
				"model":           model,
			})
			return &dto.SendChatResponse{
				ConversationId: req.ConversationId,
				AiModel:        model,
				Stopped:        true,
			}, nil
		}
		mapped := MapProviderError(err)
		s.push(userID, websocket.ErrorFrame(req.ConversationId, chat.StatusCode(mapped), chat.UserMessage(chat.OpSendMessage, mapped)))
		s.streamLog.Error("stream", "generation failed", map[string]interface{}{
			"conversation_id": req.ConversationId,
			"model":           model,
			"error":           err.Error(),
		})
		return nil, mapped
	}

	s.push(userID, websocket.FinishedFrame(req.ConversationId, result.Content, result.Usage.PromptTokens, result.Usage.CompletionTokens))
	s.streamLog.Info("stream", "generation finished", map[string]interface{}{
		"conversation_id":   req.ConversationId,
		"model":             model,
		"prompt_tokens":     result.Usage.PromptTokens,
		"completion_tokens": result.Usage.CompletionTokens,
	})

	assistantTurn := dto.MessageDTO{
		Id:               len(detail.Messages) + 1,
		Content:          result.Content,
		IsUser:           false,
		AiModel:          &model,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
	}
	if err := s.conversationService.AppendMessage(ctx, userID, conversationID, assistantTurn); err != nil {
		// The exchange already streamed; losing the row is a server bug
		// worth surfacing, not swallowing.
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewMessageExchanged(
			userID.String(), req.ConversationId, model,
			result.Usage.PromptTokens, result.Usage.CompletionTokens,
		)); err != nil {
			s.log.Warn("chat", "failed to publish exchange event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	resp := &dto.SendChatResponse{
		ConversationId:   req.ConversationId,
		Content:          result.Content,
		AiModel:          model,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
	}

	if firstExchange && detail.Title == chat.DefaultTitle {
		resp.SuggestedTitle = s.suggestTitle(ctx, userID, conversationID, req.Message, result.Content)
	}
	return resp, nil
}

func (s *chatService) Stop(userID uuid.UUID, conversationID string) {
	s.mu.Lock()
	cancel, ok := s.active[generationKey(userID, conversationID)]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *chatService) HandleSocketCommand(userID uuid.UUID, raw []byte) {
	var cmd dto.StopCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		s.log.Warn("chat", "unparseable socket command", map[string]interface{}{
			"user_id": userID.String(),
		})
		return
	}
	if cmd.Type == "stop" && cmd.ConversationId != "" {
		s.Stop(userID, cmd.ConversationId)
	}
}

// begin registers the generation and returns its cancellable context.
// A conversation only ever has one generation in flight.
func (s *chatService) begin(ctx context.Context, userID uuid.UUID, conversationID string) (context.Context, error) {
	key := generationKey(userID, conversationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.active[key]; exists {
		return nil, chat.NewStatusError(429, "generation already in progress")
	}
	genCtx, cancel := context.WithCancel(ctx)
	s.active[key] = cancel
	return genCtx, nil
}

func (s *chatService) finish(userID uuid.UUID, conversationID string) {
	key := generationKey(userID, conversationID)

	s.mu.Lock()
	cancel, ok := s.active[key]
	delete(s.active, key)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// buildHistory assembles the provider payload: persona system prompt,
// extracted document text, prior turns, then the new user turn with any
// image attachments folded in.
func (s *chatService) buildHistory(detail *dto.ConversationDetailResponse, req *dto.SendChatRequest) []llm.Message {
	persona := req.Persona
	if persona == "" {
		persona = detail.Persona
	}
	systemPrompt := constant.SystemPromptFor(persona)

	var images []string
	for _, a := range req.Attachments {
		if a.Type == "image" {
			images = append(images, a.URL)
		}
	}
	if len(req.PDFContext) > 0 {
		systemPrompt += "\n\nThe user attached a document. Its extracted content follows; use it when answering:\n\n" +
			strings.Join(req.PDFContext, "\n\n")
	}

	history := make([]llm.Message, 0, len(detail.Messages)+2)
	history = append(history, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	for _, m := range detail.Messages {
		role := constant.ChatMessageRoleAssistant
		if m.IsUser {
			role = constant.ChatMessageRoleUser
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	history = append(history, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: req.Message,
		Images:  images,
	})
	return history
}

// suggestTitle runs the auto-title flow after the first exchange. It is
// best effort: failures keep the default title and are only logged.
func (s *chatService) suggestTitle(ctx context.Context, userID, conversationID uuid.UUID, userContent, assistantContent string) string {
	suggestion, err := s.assistService.SuggestTitle(ctx, userID, &dto.TitleSuggestionRequest{
		ConversationId: conversationID.String(),
		Messages: []dto.MessageDTO{
			{Content: userContent, IsUser: true},
			{Content: assistantContent, IsUser: false},
		},
	})
	if err != nil {
		s.log.Warn("chat", "auto title suggestion failed", map[string]interface{}{
			"conversation_id": conversationID.String(),
			"error":           err.Error(),
		})
		return ""
	}

	if err := s.conversationService.UpdateTitle(ctx, userID, conversationID, suggestion.Title); err != nil {
		s.log.Warn("chat", "auto title update failed", map[string]interface{}{
			"conversation_id": conversationID.String(),
			"error":           err.Error(),
		})
		return ""
	}

	s.push(userID, websocket.TitleFrame(conversationID.String(), suggestion.Title))
	return suggestion.Title
}

// push delivers a frame when a hub is attached; library embedders run
// without one.
func (s *chatService) push(userID uuid.UUID, frame websocket.Frame) {
	if s.hub != nil {
		s.hub.Send(userID, frame)
	}
}

func generationKey(userID uuid.UUID, conversationID string) string {
	return userID.String() + ":" + conversationID
}
