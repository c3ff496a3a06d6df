package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
)

// State is the controller's lifecycle phase. Idle and Ready are the only
// states from which a conversation may be created or loaded.
type State string

const (
	StateIdle       State = "IDLE"
	StateLoading    State = "LOADING"
	StateReady      State = "READY"
	StateGenerating State = "GENERATING"
)

// Controller owns the active conversation: it loads one, accepts input,
// tracks generation status, appends the finalized assistant turn, and
// triggers persistence and title-suggestion side effects. The remote
// store stays authoritative; the controller owns no durable state.
type Controller struct {
	mu sync.Mutex

	state   State
	active  *Conversation
	model   string
	persona string

	store    Store
	streamer Streamer
	assist   Assist
	sidebar  Revalidator
	log      logger.ILogger

	// pending identifies the in-flight generation; a Stop invalidates it
	// so a late finish callback is discarded instead of appending.
	pending uint64
	genSeq  uint64

	enhancing       bool
	suggestingTitle bool
	lastError       string
}

// NewController wires the controller to its collaborators. sidebar may
// be nil when no list view exists (e.g. in tests).
func NewController(store Store, streamer Streamer, assist Assist, sidebar Revalidator, log logger.ILogger, defaultModel string) *Controller {
	return &Controller{
		state:    StateIdle,
		model:    defaultModel,
		persona:  "none",
		store:    store,
		streamer: streamer,
		assist:   assist,
		sidebar:  sidebar,
		log:      log,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the active conversation, or nil from Idle.
func (c *Controller) Active() *Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.Id
}

func (c *Controller) Generating() bool {
	return c.State() == StateGenerating
}

// LastError is the most recent user-facing failure message, cleared by
// the next successful operation.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Controller) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

func (c *Controller) SetPersona(persona string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persona = persona
	if c.active != nil {
		c.active.Persona = persona
	}
}

// Load fetches a conversation and replaces the in-memory state
// wholesale. A false result covers not-found and store failure alike;
// no partial state becomes visible on failure.
func (c *Controller) Load(ctx context.Context, id string) bool {
	c.mu.Lock()
	if c.state == StateLoading || c.state == StateGenerating {
		c.mu.Unlock()
		return false
	}
	prev := c.state
	c.state = StateLoading
	c.mu.Unlock()

	conv, ok := c.store.FetchConversation(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok || conv == nil {
		c.state = prev
		c.log.Warn("chat", "conversation not found", map[string]interface{}{"id": id})
		return false
	}
	c.active = conv
	c.persona = conv.Persona
	c.state = StateReady
	c.lastError = ""
	return true
}

// ClearActive drops the active conversation and returns to Idle.
func (c *Controller) ClearActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateGenerating {
		c.streamer.Stop(c.active.Id)
		c.pending = 0
	}
	c.active = nil
	c.state = StateIdle
}

// Submit accepts user input, creating the conversation first when none
// is active, appending the user turn optimistically, and handing the
// history to the streaming channel. pdfContext carries text extracted
// from attached documents; it rides the stream request, not the
// message. Submissions arriving while a generation is in flight are
// dropped, not queued.
func (c *Controller) Submit(ctx context.Context, text string, attachments []Attachment, pdfContext []string) error {
	trimmed := strings.TrimSpace(text)

	c.mu.Lock()
	if c.active == nil && trimmed == "" && len(attachments) == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.state == StateGenerating {
		c.log.Debug("chat", "submission dropped while generating", map[string]interface{}{
			"conversation_id": c.active.Id,
		})
		c.mu.Unlock()
		return nil
	}
	if trimmed == "" && len(attachments) == 0 {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	// Conversation existence is confirmed synchronously; the message
	// itself is optimistic.
	if c.ActiveID() == "" {
		id := uuid.NewString()
		if !c.store.CreateConversation(ctx, id, DefaultTitle) {
			c.mu.Lock()
			c.lastError = UserMessage(OpSendMessage, ErrCreateFailed)
			c.mu.Unlock()
			return ErrCreateFailed
		}
		c.mu.Lock()
		conv := NewConversation(id)
		conv.Persona = c.persona
		c.active = conv
		c.state = StateReady
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.active.AddUserMessage(trimmed, attachments)
	c.genSeq++
	c.pending = c.genSeq
	req := StreamRequest{
		ConversationID: c.active.Id,
		Messages:       c.active.History(),
		Model:          c.model,
		Persona:        c.persona,
		PDFContext:     pdfContext,
	}
	for _, a := range attachments {
		if a.Type == AttachmentImage && req.ImageURL == "" {
			req.ImageURL = a.URL
		}
	}
	c.state = StateGenerating
	c.lastError = ""
	c.mu.Unlock()

	if err := c.streamer.Dispatch(ctx, req); err != nil {
		c.mu.Lock()
		c.state = StateReady
		c.pending = 0
		c.lastError = UserMessage(OpSendMessage, err)
		c.mu.Unlock()
		return err
	}
	return nil
}

// OnStreamFinished is invoked by the streaming channel exactly once per
// successful generation. It appends the assistant turn, persists the
// message list best-effort, triggers the first-exchange title
// suggestion, and nudges the sidebar.
func (c *Controller) OnStreamFinished(conversationID, finalText string, usage Usage) {
	c.mu.Lock()
	if c.pending == 0 || c.active == nil || c.active.Id != conversationID || c.state != StateGenerating {
		c.mu.Unlock()
		return
	}
	c.pending = 0
	c.active.AddAssistantMessage(finalText, c.model, usage)
	c.state = StateReady

	id := c.active.Id
	messages := make([]Message, len(c.active.Messages))
	copy(messages, c.active.Messages)
	suggest := len(c.active.Messages) == 2 && c.active.HasDefaultTitle()
	c.mu.Unlock()

	// Best-effort: the conversation continues locally even if the
	// remote copy goes stale.
	if !c.store.SaveMessages(context.Background(), id, messages) {
		c.log.Error("chat", "failed to persist message list", map[string]interface{}{
			"conversation_id": id,
		})
	}

	if suggest {
		c.suggestTitle(context.Background(), id, messages)
	}

	if c.sidebar != nil {
		c.sidebar.Revalidate(context.Background())
	}
}

// OnStreamError is invoked by the streaming channel when a generation
// fails; the partial text, if any, never enters the conversation.
func (c *Controller) OnStreamError(conversationID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.Id != conversationID {
		return
	}
	c.pending = 0
	c.state = StateReady
	c.lastError = UserMessage(OpSendMessage, err)
	c.log.Warn("chat", "generation failed", map[string]interface{}{
		"conversation_id": conversationID,
		"error":           err.Error(),
	})
}

// Stop cancels the in-flight generation. The stopped request's finish
// callback is invalidated, so nothing is appended or persisted for it.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateGenerating || c.active == nil {
		return
	}
	c.streamer.Stop(c.active.Id)
	c.pending = 0
	c.state = StateReady
}

// UpdateTitle persists the new title remote-first; local state changes
// only after remote confirmation. Blank titles are rejected locally.
func (c *Controller) UpdateTitle(ctx context.Context, id, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		c.mu.Lock()
		c.lastError = UserMessage(OpUpdateTitle, ErrEmptyTitle)
		c.mu.Unlock()
		return ErrEmptyTitle
	}

	if err := c.store.UpdateConversationTitle(ctx, id, trimmed); err != nil {
		c.mu.Lock()
		c.lastError = UserMessage(OpUpdateTitle, err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.active != nil && c.active.Id == id {
		c.active.UpdateTitle(trimmed)
	}
	c.lastError = ""
	c.mu.Unlock()

	if c.sidebar != nil {
		c.sidebar.Revalidate(ctx)
	}
	return nil
}

// EnhancePrompt rewrites the draft via the assist collaborator. Empty
// input, an in-flight generation, or a concurrent enhancement make it a
// no-op; failures map to distinct user-facing messages by class.
func (c *Controller) EnhancePrompt(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	if strings.TrimSpace(prompt) == "" || c.state == StateGenerating || c.enhancing || c.active == nil {
		c.mu.Unlock()
		return "", nil
	}
	c.enhancing = true
	id := c.active.Id
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.enhancing = false
		c.mu.Unlock()
	}()

	enhanced, err := c.assist.EnhancePrompt(ctx, id, prompt)
	if err != nil {
		c.mu.Lock()
		c.lastError = UserMessage(OpEnhancePrompt, err)
		c.mu.Unlock()
		return "", err
	}
	return enhanced, nil
}

// Enhancing reports whether a prompt enhancement is in flight.
func (c *Controller) Enhancing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enhancing
}

func (c *Controller) suggestTitle(ctx context.Context, id string, history []Message) {
	c.mu.Lock()
	if c.suggestingTitle {
		c.mu.Unlock()
		return
	}
	c.suggestingTitle = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.suggestingTitle = false
		c.mu.Unlock()
	}()

	name, err := c.assist.SuggestTitle(ctx, id, history)
	if err != nil {
		c.mu.Lock()
		c.lastError = UserMessage(OpSuggestTitle, err)
		c.mu.Unlock()
		return
	}
	if name == "" {
		return
	}
	if err := c.UpdateTitle(ctx, id, name); err != nil {
		c.log.Warn("chat", "suggested title not applied", map[string]interface{}{
			"conversation_id": id,
			"error":           err.Error(),
		})
	}
}
