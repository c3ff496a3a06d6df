package chatstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/constant"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/internal/websocket"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
)

// Sink receives stream outcomes. *chat.Controller satisfies it.
type Sink interface {
	OnStreamFinished(conversationID, finalText string, usage chat.Usage)
	OnStreamError(conversationID string, err error)
}

// Streamer runs generations against the resolved provider and reports
// outcomes to the bound sink. Each conversation has at most one
// generation in flight; Stop cancels it and suppresses the callbacks.
type Streamer struct {
	resolver service.IProviderResolver
	hub      *websocket.Hub
	userID   uuid.UUID
	log      logger.ILogger

	mu     sync.Mutex
	sink   Sink
	active map[string]context.CancelFunc
}

func NewStreamer(resolver service.IProviderResolver, hub *websocket.Hub, userID uuid.UUID, log logger.ILogger) *Streamer {
	return &Streamer{
		resolver: resolver,
		hub:      hub,
		userID:   userID,
		log:      log,
		active:   make(map[string]context.CancelFunc),
	}
}

// Bind attaches the outcome sink. The controller is constructed after
// the streamer, so this cannot happen in NewStreamer.
func (s *Streamer) Bind(sink Sink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

func (s *Streamer) Dispatch(ctx context.Context, req chat.StreamRequest) error {
	provider, model, err := s.resolver.Resolve(ctx, s.userID, req.Model)
	if err != nil {
		return service.MapProviderError(err)
	}

	s.mu.Lock()
	if _, exists := s.active[req.ConversationID]; exists {
		s.mu.Unlock()
		return chat.NewStatusError(429, "generation already in progress")
	}
	genCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.active[req.ConversationID] = cancel
	s.mu.Unlock()

	history := buildHistory(req)

	go s.run(genCtx, provider, model, req.ConversationID, history)
	return nil
}

func (s *Streamer) Stop(conversationID string) {
	s.mu.Lock()
	cancel, ok := s.active[conversationID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Streamer) run(ctx context.Context, provider llm.LLMProvider, model, conversationID string, history []llm.Message) {
	defer s.release(conversationID)

	result, err := provider.ChatStream(ctx, history, func(delta string) {
		if s.hub != nil {
			s.hub.Send(s.userID, websocket.TokenFrame(conversationID, delta))
		}
	}, llm.WithModel(model))

	sink := s.currentSink()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Stopped; the controller already reset its state, so no
			// callback fires and the partial output is dropped.
			s.log.Info("streamer", "generation stopped", map[string]interface{}{
				"conversation_id": conversationID,
			})
			return
		}
		if sink != nil {
			sink.OnStreamError(conversationID, service.MapProviderError(err))
		}
		return
	}

	if sink != nil {
		sink.OnStreamFinished(conversationID, result.Content, chat.Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
		})
	}
}

func (s *Streamer) release(conversationID string) {
	s.mu.Lock()
	cancel, ok := s.active[conversationID]
	delete(s.active, conversationID)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Streamer) currentSink() Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink
}

// buildHistory turns a stream request into the provider payload. Image
// and document context ride on the system prompt and the final user
// turn, same as the synchronous send path.
func buildHistory(req chat.StreamRequest) []llm.Message {
	systemPrompt := constant.SystemPromptFor(req.Persona)
	if len(req.PDFContext) > 0 {
		systemPrompt += "\n\nUse the following document excerpts when answering:\n"
		for _, excerpt := range req.PDFContext {
			systemPrompt += "\n" + excerpt
		}
	}

	history := make([]llm.Message, 0, len(req.Messages)+1)
	history = append(history, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	for i, m := range req.Messages {
		role := constant.ChatMessageRoleAssistant
		if m.IsUser {
			role = constant.ChatMessageRoleUser
		}
		msg := llm.Message{Role: role, Content: m.Content}
		if i == len(req.Messages)-1 && m.IsUser && req.ImageURL != "" {
			msg.Images = []string{req.ImageURL}
		}
		history = append(history, msg)
	}
	return history
}
