package chatstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/chatstore"
	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

type fakeConversationService struct {
	detail    *dto.ConversationDetailResponse
	summaries []*dto.ConversationSummaryResponse
	err       error
	titleErr  error

	// guarded; the streamer reports saves from its own goroutine
	mu         sync.Mutex
	replaced   []dto.MessageDTO
	createdReq *dto.CreateConversationRequest
}

func (f *fakeConversationService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationSummaryResponse, error) {
	f.mu.Lock()
	f.createdReq = req
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ConversationSummaryResponse{Id: req.Id, Title: req.Title}, nil
}

func (f *fakeConversationService) created() *dto.CreateConversationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createdReq
}

func (f *fakeConversationService) replacedMessages() []dto.MessageDTO {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replaced
}

func (f *fakeConversationService) List(ctx context.Context, userID uuid.UUID) ([]*dto.ConversationSummaryResponse, error) {
	return f.summaries, f.err
}

func (f *fakeConversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*dto.ConversationDetailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeConversationService) UpdateTitle(ctx context.Context, userID, conversationID uuid.UUID, title string) error {
	return f.titleErr
}

func (f *fakeConversationService) Delete(ctx context.Context, userID, conversationID uuid.UUID) error {
	return f.err
}

func (f *fakeConversationService) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return f.err
}

func (f *fakeConversationService) ReplaceMessages(ctx context.Context, userID, conversationID uuid.UUID, messages []dto.MessageDTO) error {
	f.mu.Lock()
	f.replaced = messages
	f.mu.Unlock()
	return f.err
}

func (f *fakeConversationService) AppendMessage(ctx context.Context, userID, conversationID uuid.UUID, message dto.MessageDTO) error {
	return f.err
}

func (f *fakeConversationService) Preview(ctx context.Context, conversationID uuid.UUID) (*dto.PreviewResponse, error) {
	return nil, f.err
}

func newTestStore(fake *fakeConversationService) *chatstore.Store {
	return chatstore.NewStore(fake, uuid.New(), logger.NewNopLogger())
}

func TestFetchConversationMapsDetail(t *testing.T) {
	id := uuid.NewString()
	model := "gpt-4o"
	fake := &fakeConversationService{
		detail: &dto.ConversationDetailResponse{
			Id:      id,
			Title:   "Tokyo Trip Planning",
			Persona: "travel",
			Messages: []dto.MessageDTO{
				{Id: 0, Content: "Where should I stay?", IsUser: true},
				{Id: 1, Content: "Consider Shinjuku.", IsUser: false, AiModel: &model, PromptTokens: 12, CompletionTokens: 34},
			},
			CreatedAt: time.Now().Add(-time.Hour),
			UpdatedAt: time.Now(),
		},
	}

	conv, ok := newTestStore(fake).FetchConversation(context.Background(), id)
	require.True(t, ok)
	require.NotNil(t, conv)

	assert.Equal(t, "Tokyo Trip Planning", conv.Title)
	assert.Equal(t, "travel", conv.Persona)
	require.Len(t, conv.Messages, 2)
	assert.True(t, conv.Messages[0].IsUser)
	assert.Equal(t, "gpt-4o", conv.Messages[1].AIModel)
	assert.Equal(t, 34, conv.Messages[1].CompletionTokens)
}

func TestFetchConversationFailuresCollapseToFalse(t *testing.T) {
	store := newTestStore(&fakeConversationService{err: errors.New("db down")})

	conv, ok := store.FetchConversation(context.Background(), uuid.NewString())
	assert.False(t, ok)
	assert.Nil(t, conv)

	conv, ok = store.FetchConversation(context.Background(), "not-a-uuid")
	assert.False(t, ok)
	assert.Nil(t, conv)
}

func TestCreateConversationReportsOutcome(t *testing.T) {
	fake := &fakeConversationService{}
	store := newTestStore(fake)

	id := uuid.NewString()
	assert.True(t, store.CreateConversation(context.Background(), id, chat.DefaultTitle))
	require.NotNil(t, fake.createdReq)
	assert.Equal(t, id, fake.createdReq.Id)
	assert.Equal(t, chat.DefaultTitle, fake.createdReq.Title)

	fake.err = errors.New("db down")
	assert.False(t, store.CreateConversation(context.Background(), uuid.NewString(), chat.DefaultTitle))
}

func TestUpdateTitlePassesClassifiedErrorThrough(t *testing.T) {
	fake := &fakeConversationService{titleErr: chat.NewStatusError(404, "conversation not found")}
	store := newTestStore(fake)

	err := store.UpdateConversationTitle(context.Background(), uuid.NewString(), "Renamed")
	require.Error(t, err)
	assert.Equal(t, 404, chat.StatusCode(err))

	err = store.UpdateConversationTitle(context.Background(), "not-a-uuid", "Renamed")
	require.Error(t, err)
	assert.Equal(t, 400, chat.StatusCode(err))
}

func TestSaveMessagesMapsModelPointer(t *testing.T) {
	fake := &fakeConversationService{}
	store := newTestStore(fake)

	ok := store.SaveMessages(context.Background(), uuid.NewString(), []chat.Message{
		{Id: 0, Content: "hi", IsUser: true},
		{Id: 1, Content: "hello", IsUser: false, AIModel: "gpt-4o"},
	})
	require.True(t, ok)
	require.Len(t, fake.replaced, 2)

	assert.Nil(t, fake.replaced[0].AiModel)
	require.NotNil(t, fake.replaced[1].AiModel)
	assert.Equal(t, "gpt-4o", *fake.replaced[1].AiModel)

	fake.err = errors.New("db down")
	assert.False(t, store.SaveMessages(context.Background(), uuid.NewString(), nil))
}

func TestFetchSummariesMapsList(t *testing.T) {
	now := time.Now()
	fake := &fakeConversationService{
		summaries: []*dto.ConversationSummaryResponse{
			{Id: uuid.NewString(), Title: "First", CreatedAt: now.Add(-time.Minute), UpdatedAt: now},
			{Id: uuid.NewString(), Title: "Second", CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour)},
		},
	}
	store := newTestStore(fake)

	summaries, ok := store.FetchSummaries(context.Background())
	require.True(t, ok)
	require.Len(t, summaries, 2)
	assert.Equal(t, "First", summaries[0].Title)
	assert.False(t, summaries[0].Active)

	fake.err = errors.New("db down")
	_, ok = store.FetchSummaries(context.Background())
	assert.False(t, ok)
}
