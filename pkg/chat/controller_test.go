package chat_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

type fakeStore struct {
	mu sync.Mutex

	conversations map[string]*chat.Conversation
	summaries     []chat.Summary
	titles        map[string]string
	saved         map[string][]chat.Message

	createCalls int
	saveCalls   int
	titleCalls  int
	deleteCalls int

	failCreate bool
	failSave   bool
	failFetch  bool
	failDelete bool
	titleErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: make(map[string]*chat.Conversation),
		titles:        make(map[string]string),
		saved:         make(map[string][]chat.Message),
	}
}

func (f *fakeStore) FetchConversation(_ context.Context, id string) (*chat.Conversation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch {
		return nil, false
	}
	conv, ok := f.conversations[id]
	if !ok {
		return nil, false
	}
	return conv, true
}

func (f *fakeStore) CreateConversation(_ context.Context, id, title string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate {
		return false
	}
	f.titles[id] = title
	return true
}

func (f *fakeStore) UpdateConversationTitle(_ context.Context, id, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls++
	if f.titleErr != nil {
		return f.titleErr
	}
	f.titles[id] = title
	return nil
}

func (f *fakeStore) DeleteConversation(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failDelete {
		return false
	}
	delete(f.titles, id)
	delete(f.conversations, id)
	return true
}

func (f *fakeStore) SaveMessages(_ context.Context, id string, messages []chat.Message) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.failSave {
		return false
	}
	f.saved[id] = messages
	return true
}

func (f *fakeStore) FetchSummaries(_ context.Context) ([]chat.Summary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]chat.Summary, len(f.summaries))
	copy(out, f.summaries)
	return out, true
}

type fakeStreamer struct {
	mu        sync.Mutex
	dispatches []chat.StreamRequest
	stops      []string
	err        error
}

func (f *fakeStreamer) Dispatch(_ context.Context, req chat.StreamRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.dispatches = append(f.dispatches, req)
	return nil
}

func (f *fakeStreamer) Stop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops = append(f.stops, id)
}

func (f *fakeStreamer) dispatchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dispatches)
}

type fakeAssist struct {
	mu          sync.Mutex
	titleCalls  int
	enhanceCalls int
	title       string
	enhanced    string
	titleErr    error
	enhanceErr  error
}

func (f *fakeAssist) SuggestTitle(_ context.Context, _ string, _ []chat.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls++
	return f.title, f.titleErr
}

func (f *fakeAssist) EnhancePrompt(_ context.Context, _ string, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enhanceCalls++
	return f.enhanced, f.enhanceErr
}

func newController(store *fakeStore, streamer *fakeStreamer, assist *fakeAssist) *chat.Controller {
	return chat.NewController(store, streamer, assist, nil, logger.NewNopLogger(), "gpt-4o-mini")
}

func TestSubmitNewChatHappyPath(t *testing.T) {
	store := newFakeStore()
	streamer := &fakeStreamer{}
	assist := &fakeAssist{title: "Greeting"}
	ctrl := newController(store, streamer, assist)

	require.NoError(t, ctrl.Submit(context.Background(), "Hello", nil, nil))

	// Conversation created remotely, user message visible locally.
	assert.Equal(t, 1, store.createCalls)
	active := ctrl.Active()
	require.NotNil(t, active)
	require.Len(t, active.Messages, 1)
	assert.Equal(t, "Hello", active.Messages[0].Content)
	assert.True(t, active.Messages[0].IsUser)
	assert.Equal(t, chat.StateGenerating, ctrl.State())

	// Stream completes with usage accounting.
	ctrl.OnStreamFinished(active.Id, "Hi there", chat.Usage{PromptTokens: 5, CompletionTokens: 3})

	require.Len(t, active.Messages, 2)
	reply := active.Messages[1]
	assert.Equal(t, "Hi there", reply.Content)
	assert.False(t, reply.IsUser)
	assert.Equal(t, "gpt-4o-mini", reply.AIModel)
	assert.Equal(t, 5, reply.PromptTokens)
	assert.Equal(t, 3, reply.CompletionTokens)
	assert.Equal(t, chat.StateReady, ctrl.State())

	// First exchange with the default title triggers a suggestion.
	assert.Equal(t, 1, assist.titleCalls)
	assert.Equal(t, "Greeting", store.titles[active.Id])
	assert.Equal(t, 1, store.saveCalls)
}

func TestSubmitDroppedWhileGenerating(t *testing.T) {
	store := newFakeStore()
	streamer := &fakeStreamer{}
	ctrl := newController(store, streamer, &fakeAssist{})

	require.NoError(t, ctrl.Submit(context.Background(), "first", nil, nil))
	require.Equal(t, chat.StateGenerating, ctrl.State())

	for i := 0; i < 5; i++ {
		require.NoError(t, ctrl.Submit(context.Background(), "again", nil, nil))
	}

	// Drop, don't queue: exactly one generation request dispatched.
	assert.Equal(t, 1, streamer.dispatchCount())
	assert.Len(t, ctrl.Active().Messages, 1)
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	store := newFakeStore()
	streamer := &fakeStreamer{}
	ctrl := newController(store, streamer, &fakeAssist{})

	require.NoError(t, ctrl.Submit(context.Background(), "   ", nil, nil))

	assert.Equal(t, 0, store.createCalls)
	assert.Equal(t, 0, streamer.dispatchCount())
	assert.Equal(t, chat.StateIdle, ctrl.State())
}

func TestSubmitAbortsWhenCreateFails(t *testing.T) {
	store := newFakeStore()
	store.failCreate = true
	streamer := &fakeStreamer{}
	ctrl := newController(store, streamer, &fakeAssist{})

	err := ctrl.Submit(context.Background(), "Hello", nil, nil)
	require.ErrorIs(t, err, chat.ErrCreateFailed)

	assert.Nil(t, ctrl.Active())
	assert.Equal(t, 0, streamer.dispatchCount())
	assert.NotEmpty(t, ctrl.LastError())
}

func TestLoadPreservesMessageOrder(t *testing.T) {
	store := newFakeStore()
	msgs := []chat.Message{
		chat.NewUserMessage(0, "one", nil),
		chat.NewAssistantMessage(1, "two", "gpt-4o-mini", chat.Usage{}),
		chat.NewUserMessage(2, "three", nil),
	}
	conv := chat.RestoreConversation("c1", "Ordered", "none", msgs, time.Now(), time.Now())
	store.conversations["c1"] = conv

	ctrl := newController(store, &fakeStreamer{}, &fakeAssist{})
	require.True(t, ctrl.Load(context.Background(), "c1"))

	got := ctrl.Active().Messages
	require.Len(t, got, 3)
	for i, want := range []string{"one", "two", "three"} {
		assert.Equal(t, want, got[i].Content)
		assert.Equal(t, i, got[i].Id)
	}
	assert.Equal(t, chat.StateReady, ctrl.State())
}

func TestLoadNotFoundReturnsFalse(t *testing.T) {
	ctrl := newController(newFakeStore(), &fakeStreamer{}, &fakeAssist{})

	assert.False(t, ctrl.Load(context.Background(), "missing"))
	assert.Equal(t, chat.StateIdle, ctrl.State())
	assert.Nil(t, ctrl.Active())
}

func TestStopMidStreamDiscardsPartial(t *testing.T) {
	store := newFakeStore()
	streamer := &fakeStreamer{}
	ctrl := newController(store, streamer, &fakeAssist{})

	require.NoError(t, ctrl.Submit(context.Background(), "long request", nil, nil))
	require.Equal(t, chat.StateGenerating, ctrl.State())
	id := ctrl.ActiveID()

	ctrl.Stop()

	assert.Equal(t, chat.StateReady, ctrl.State())
	assert.Equal(t, []string{id}, streamer.stops)

	// A late finish callback for the stopped request must be discarded.
	ctrl.OnStreamFinished(id, "partial text", chat.Usage{})

	assert.Len(t, ctrl.Active().Messages, 1)
	assert.Equal(t, 0, store.saveCalls)
}

func TestUpdateTitleIdempotent(t *testing.T) {
	store := newFakeStore()
	ctrl := newController(store, &fakeStreamer{}, &fakeAssist{})
	require.NoError(t, ctrl.Submit(context.Background(), "hi", nil, nil))
	id := ctrl.ActiveID()
	ctrl.Stop()

	require.NoError(t, ctrl.UpdateTitle(context.Background(), id, "Same Title"))
	require.NoError(t, ctrl.UpdateTitle(context.Background(), id, "Same Title"))

	// One remote write per call, identical final state.
	assert.Equal(t, 2, store.titleCalls)
	assert.Equal(t, "Same Title", store.titles[id])
	assert.Equal(t, "Same Title", ctrl.Active().Title)
}

func TestUpdateTitleRejectsBlankLocally(t *testing.T) {
	store := newFakeStore()
	ctrl := newController(store, &fakeStreamer{}, &fakeAssist{})

	err := ctrl.UpdateTitle(context.Background(), "c1", "   ")
	require.ErrorIs(t, err, chat.ErrEmptyTitle)

	assert.Equal(t, 0, store.titleCalls)
	assert.Equal(t, "Title cannot be empty", ctrl.LastError())
}

func TestUpdateTitleRateLimitedLeavesLocalUntouched(t *testing.T) {
	store := newFakeStore()
	ctrl := newController(store, &fakeStreamer{}, &fakeAssist{})
	require.NoError(t, ctrl.Submit(context.Background(), "hi", nil, nil))
	id := ctrl.ActiveID()
	ctrl.Stop()

	store.titleErr = chat.NewStatusError(429, "rate limited")
	err := ctrl.UpdateTitle(context.Background(), id, "Valid Title")
	require.Error(t, err)

	assert.Equal(t, chat.DefaultTitle, ctrl.Active().Title)
	assert.Contains(t, ctrl.LastError(), "Rate limit")
}

func TestStreamErrorReturnsToReadyWithMessage(t *testing.T) {
	store := newFakeStore()
	ctrl := newController(store, &fakeStreamer{}, &fakeAssist{})
	require.NoError(t, ctrl.Submit(context.Background(), "hi", nil, nil))
	id := ctrl.ActiveID()

	ctrl.OnStreamError(id, chat.NewStatusError(503, "upstream down"))

	assert.Equal(t, chat.StateReady, ctrl.State())
	assert.Len(t, ctrl.Active().Messages, 1)
	assert.Contains(t, ctrl.LastError(), "temporarily unavailable")
}

func TestEnhancePromptMapsFailureClasses(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{429, "Rate limit reached. Please wait a moment before enhancing again."},
		{408, "Request timed out while enhancing prompt. Please try again."},
		{401, "Authentication error. Please refresh and try again."},
		{503, "Service temporarily unavailable. Please try again later."},
		{500, "Failed to enhance prompt"},
	}

	for _, tc := range cases {
		store := newFakeStore()
		assist := &fakeAssist{enhanceErr: chat.NewStatusError(tc.code, "boom")}
		ctrl := newController(store, &fakeStreamer{}, assist)
		require.NoError(t, ctrl.Submit(context.Background(), "hi", nil, nil))
		ctrl.Stop()

		_, err := ctrl.EnhancePrompt(context.Background(), "make this better")
		require.Error(t, err, "status %d", tc.code)
		assert.Equal(t, tc.want, ctrl.LastError(), "status %d", tc.code)
	}
}

func TestEnhancePromptGuards(t *testing.T) {
	assist := &fakeAssist{enhanced: "better"}
	ctrl := newController(newFakeStore(), &fakeStreamer{}, assist)

	// No active conversation: silent no-op.
	out, err := ctrl.EnhancePrompt(context.Background(), "draft")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, assist.enhanceCalls)

	require.NoError(t, ctrl.Submit(context.Background(), "hi", nil, nil))

	// Generating: silent no-op.
	out, err = ctrl.EnhancePrompt(context.Background(), "draft")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, assist.enhanceCalls)

	ctrl.Stop()
	out, err = ctrl.EnhancePrompt(context.Background(), "draft")
	require.NoError(t, err)
	assert.Equal(t, "better", out)
	assert.Equal(t, 1, assist.enhanceCalls)
}

func TestNoTitleSuggestionAfterManualRename(t *testing.T) {
	store := newFakeStore()
	assist := &fakeAssist{title: "Suggested"}
	ctrl := newController(store, &fakeStreamer{}, assist)

	require.NoError(t, ctrl.Submit(context.Background(), "hello", nil, nil))
	id := ctrl.ActiveID()

	// Rename before the stream finishes; title is no longer default.
	store.titles[id] = "Mine"
	ctrl.Active().UpdateTitle("Mine")

	ctrl.OnStreamFinished(id, "reply", chat.Usage{})

	assert.Equal(t, 0, assist.titleCalls)
	assert.Equal(t, "Mine", store.titles[id])
}

func TestSubmitDerivesAttachmentContext(t *testing.T) {
	store := newFakeStore()
	streamer := &fakeStreamer{}
	ctrl := newController(store, streamer, &fakeAssist{})

	atts := []chat.Attachment{
		{Type: chat.AttachmentImage, URL: "https://blob/img.png", Filename: "img.png"},
		{Type: chat.AttachmentPDF, URL: "https://blob/doc.pdf", Filename: "doc.pdf"},
	}
	require.NoError(t, ctrl.Submit(context.Background(), "look at these", atts, nil))

	require.Equal(t, 1, streamer.dispatchCount())
	req := streamer.dispatches[0]
	assert.Equal(t, "https://blob/img.png", req.ImageURL)
	assert.True(t, strings.HasPrefix(req.Messages[len(req.Messages)-1].Content, "look at these"))
}

func TestSubmitCarriesPdfTextContext(t *testing.T) {
	store := newFakeStore()
	streamer := &fakeStreamer{}
	ctrl := newController(store, streamer, &fakeAssist{})

	atts := []chat.Attachment{
		{Type: chat.AttachmentPDF, URL: "https://blob/report.pdf", Filename: "report.pdf"},
	}
	excerpts := []string{"Q3 revenue grew 14% year over year."}
	require.NoError(t, ctrl.Submit(context.Background(), "summarize the report", atts, excerpts))

	require.Equal(t, 1, streamer.dispatchCount())
	req := streamer.dispatches[0]

	// The extracted text travels to the model, never the blob URL.
	assert.Equal(t, excerpts, req.PDFContext)
	for _, excerpt := range req.PDFContext {
		assert.NotContains(t, excerpt, "https://blob")
	}
}
