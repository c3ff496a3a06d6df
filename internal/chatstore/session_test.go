package chatstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/chatstore"
	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
)

type streamProvider struct {
	reply string
	err   error
	block chan struct{}
}

func (p *streamProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *streamProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *streamProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string), options ...llm.Option) (*llm.Result, error) {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	onDelta(p.reply)
	return &llm.Result{
		Content: p.reply,
		Usage:   llm.Usage{PromptTokens: 10, CompletionTokens: 5},
	}, nil
}

type staticResolver struct {
	provider llm.LLMProvider
	model    string
}

func (r *staticResolver) Resolve(ctx context.Context, userID uuid.UUID, model string) (llm.LLMProvider, string, error) {
	return r.provider, r.model, nil
}

type staticAssist struct {
	title string
}

func (a *staticAssist) SuggestTitle(ctx context.Context, userID uuid.UUID, req *dto.TitleSuggestionRequest) (*dto.TitleSuggestionResponse, error) {
	return &dto.TitleSuggestionResponse{Title: a.title}, nil
}

func (a *staticAssist) EnhancePrompt(ctx context.Context, userID uuid.UUID, req *dto.EnhancePromptRequest) (*dto.EnhancePromptResponse, error) {
	return &dto.EnhancePromptResponse{EnhancedPrompt: "enhanced: " + req.Prompt}, nil
}

func TestSessionFullExchange(t *testing.T) {
	conversations := &fakeConversationService{}
	provider := &streamProvider{reply: "Shinjuku is a good base."}
	session := chatstore.NewSession(
		uuid.New(),
		conversations,
		&staticAssist{title: "Tokyo Trip"},
		&staticResolver{provider: provider, model: "gpt-4o"},
		nil,
		"gpt-4o",
		logger.NewNopLogger(),
	)

	require.NoError(t, session.Controller.Submit(context.Background(), "Where should I stay in Tokyo?", nil, nil))
	require.NotNil(t, conversations.created())
	assert.Equal(t, chat.DefaultTitle, conversations.created().Title)

	require.Eventually(t, func() bool {
		return session.Controller.State() == chat.StateReady && len(conversations.replacedMessages()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	active := session.Controller.Active()
	require.NotNil(t, active)
	require.Len(t, active.Messages, 2)
	assert.Equal(t, "Shinjuku is a good base.", active.Messages[1].Content)
	assert.Equal(t, "gpt-4o", active.Messages[1].AIModel)
	assert.Equal(t, 5, active.Messages[1].CompletionTokens)

	saved := conversations.replacedMessages()
	require.NotNil(t, saved[1].AiModel)
	assert.Equal(t, "gpt-4o", *saved[1].AiModel)
}

func TestSessionStopDiscardsGeneration(t *testing.T) {
	conversations := &fakeConversationService{}
	provider := &streamProvider{reply: "never delivered", block: make(chan struct{})}
	session := chatstore.NewSession(
		uuid.New(),
		conversations,
		&staticAssist{},
		&staticResolver{provider: provider, model: "gpt-4o"},
		nil,
		"gpt-4o",
		logger.NewNopLogger(),
	)

	require.NoError(t, session.Controller.Submit(context.Background(), "hello", nil, nil))
	require.Eventually(t, func() bool {
		return session.Controller.Generating()
	}, 2*time.Second, 10*time.Millisecond)

	session.Controller.Stop()

	assert.Equal(t, chat.StateReady, session.Controller.State())
	active := session.Controller.Active()
	require.NotNil(t, active)

	// Only the user turn remains; the cancelled stream must not append.
	assert.Len(t, active.Messages, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, session.Controller.Active().Messages, 1)
	assert.Empty(t, conversations.replacedMessages())
}

func TestSessionStreamErrorSetsUserMessage(t *testing.T) {
	conversations := &fakeConversationService{}
	provider := &streamProvider{err: context.DeadlineExceeded}
	session := chatstore.NewSession(
		uuid.New(),
		conversations,
		&staticAssist{},
		&staticResolver{provider: provider, model: "gpt-4o"},
		nil,
		"gpt-4o",
		logger.NewNopLogger(),
	)

	require.NoError(t, session.Controller.Submit(context.Background(), "hello", nil, nil))
	require.Eventually(t, func() bool {
		return session.Controller.State() == chat.StateReady && session.Controller.LastError() != ""
	}, 2*time.Second, 10*time.Millisecond)

	assert.Len(t, session.Controller.Active().Messages, 1)
	assert.Empty(t, conversations.replacedMessages())
}
