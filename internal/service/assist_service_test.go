package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
)

const defaultTestTimeout = 5 * time.Second

type fakeProvider struct {
	lastHistory []llm.Message
	reply       string
	err         error
	calls       int
}

func (f *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	f.lastHistory = history
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string), opts ...llm.Option) (*llm.Result, error) {
	content, err := f.Chat(ctx, history, opts...)
	if err != nil {
		return nil, err
	}
	onDelta(content)
	return &llm.Result{Content: content}, nil
}

type fakeResolver struct {
	provider llm.LLMProvider
}

func (f *fakeResolver) Resolve(context.Context, uuid.UUID, string) (llm.LLMProvider, string, error) {
	return f.provider, "gpt-4o-mini", nil
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, error) {
	return f.allowed, f.err
}

func newAssist(p llm.LLMProvider, limiter service.RateAllower) service.IAssistService {
	return service.NewAssistService(&fakeResolver{provider: p}, limiter, defaultTestTimeout, logger.NewNopLogger())
}

func titleRequest(messages []dto.MessageDTO) *dto.TitleSuggestionRequest {
	return &dto.TitleSuggestionRequest{
		ConversationId: uuid.NewString(),
		Messages:       messages,
	}
}

func TestSuggestTitleCleansModelOutput(t *testing.T) {
	provider := &fakeProvider{reply: "## \"Tokyo Trip Planning\"\n"}
	svc := newAssist(provider, &fakeLimiter{allowed: true})

	resp, err := svc.SuggestTitle(context.Background(), uuid.New(), titleRequest([]dto.MessageDTO{
		{Content: "help me plan a trip to tokyo", IsUser: true},
	}))

	require.NoError(t, err)
	assert.Equal(t, "Tokyo Trip Planning", resp.Title)
}

func TestSuggestTitleWindowsLongHistory(t *testing.T) {
	provider := &fakeProvider{reply: "Long Chat"}
	svc := newAssist(provider, &fakeLimiter{allowed: true})

	messages := make([]dto.MessageDTO, 15)
	for i := range messages {
		messages[i] = dto.MessageDTO{Content: fmt.Sprintf("turn-%02d", i), IsUser: i%2 == 0}
	}

	_, err := svc.SuggestTitle(context.Background(), uuid.New(), titleRequest(messages))
	require.NoError(t, err)

	require.Len(t, provider.lastHistory, 2)
	transcript := provider.lastHistory[1].Content

	for _, kept := range []string{"turn-00", "turn-02", "turn-08", "turn-14"} {
		assert.Contains(t, transcript, kept)
	}
	for _, dropped := range []string{"turn-03", "turn-05", "turn-07"} {
		assert.NotContains(t, transcript, dropped)
	}
}

func TestSuggestTitleLabelsRoles(t *testing.T) {
	provider := &fakeProvider{reply: "Roles"}
	svc := newAssist(provider, &fakeLimiter{allowed: true})

	_, err := svc.SuggestTitle(context.Background(), uuid.New(), titleRequest([]dto.MessageDTO{
		{Content: "question", IsUser: true},
		{Content: "answer", IsUser: false},
	}))
	require.NoError(t, err)

	transcript := provider.lastHistory[1].Content
	assert.Contains(t, transcript, "User: question")
	assert.Contains(t, transcript, "Assistant: answer")
}

func TestSuggestTitleRateLimited(t *testing.T) {
	provider := &fakeProvider{reply: "never"}
	svc := newAssist(provider, &fakeLimiter{allowed: false})

	_, err := svc.SuggestTitle(context.Background(), uuid.New(), titleRequest([]dto.MessageDTO{
		{Content: "hello", IsUser: true},
	}))

	require.Error(t, err)
	assert.Equal(t, 429, chat.StatusCode(err))
	assert.Zero(t, provider.calls)
}

func TestSuggestTitleTimeoutMapsTo408(t *testing.T) {
	provider := &fakeProvider{err: context.DeadlineExceeded}
	svc := newAssist(provider, &fakeLimiter{allowed: true})

	_, err := svc.SuggestTitle(context.Background(), uuid.New(), titleRequest([]dto.MessageDTO{
		{Content: "hello", IsUser: true},
	}))

	require.Error(t, err)
	assert.Equal(t, 408, chat.StatusCode(err))
}

func TestEnhancePromptRefusalSentinel(t *testing.T) {
	provider := &fakeProvider{reply: "Cannot"}
	svc := newAssist(provider, &fakeLimiter{allowed: true})

	_, err := svc.EnhancePrompt(context.Background(), uuid.New(), &dto.EnhancePromptRequest{Prompt: "asdfgh"})

	require.Error(t, err)
	assert.Equal(t, 400, chat.StatusCode(err))
}

func TestEnhancePromptReturnsTrimmedResult(t *testing.T) {
	provider := &fakeProvider{reply: "  Write a haiku about autumn leaves.  \n"}
	svc := newAssist(provider, &fakeLimiter{allowed: true})

	resp, err := svc.EnhancePrompt(context.Background(), uuid.New(), &dto.EnhancePromptRequest{Prompt: "haiku autumn"})

	require.NoError(t, err)
	assert.Equal(t, "Write a haiku about autumn leaves.", resp.EnhancedPrompt)
	assert.False(t, strings.HasPrefix(resp.EnhancedPrompt, " "))
}

func TestCleanSuggestedTitle(t *testing.T) {
	cases := map[string]string{
		"# Heading":            "Heading",
		"### Deep Heading":     "Deep Heading",
		"\"Quoted Title\"":     "Quoted Title",
		"'Single Quoted'":      "Single Quoted",
		"  Plain Title  ":      "Plain Title",
		"## \" Mixed Case \"":  "Mixed Case",
		"":                     "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, service.CleanSuggestedTitle(raw), "raw=%q", raw)
	}
}
