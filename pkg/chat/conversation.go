package chat

import (
	"time"
)

// DefaultTitle is the title a conversation carries until the user edits
// it or the auto-suggestion replaces it.
const DefaultTitle = "New Chat"

// nowFunc is swapped out in tests that assert on ordering.
var nowFunc = time.Now

// Conversation is the in-memory representation of one chat: an ordered,
// append-only sequence of messages plus metadata. The id is generated
// client-side before the remote record exists; the remote store stays
// authoritative for content.
type Conversation struct {
	Id        string
	Title     string
	Messages  []Message
	Persona   string
	CreatedAt time.Time
	UpdatedAt time.Time

	nextMessageId int
}

// NewConversation creates an empty conversation with the default title.
func NewConversation(id string) *Conversation {
	now := nowFunc()
	return &Conversation{
		Id:        id,
		Title:     DefaultTitle,
		Persona:   "none",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RestoreConversation rebuilds a conversation from stored state. The
// message sequence counter resumes past the highest existing id.
func RestoreConversation(id, title, persona string, messages []Message, createdAt, updatedAt time.Time) *Conversation {
	c := &Conversation{
		Id:        id,
		Title:     title,
		Messages:  messages,
		Persona:   persona,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for _, m := range messages {
		if m.Id >= c.nextMessageId {
			c.nextMessageId = m.Id + 1
		}
	}
	return c
}

// AddUserMessage appends a user turn and bumps UpdatedAt.
func (c *Conversation) AddUserMessage(content string, attachments []Attachment) Message {
	m := NewUserMessage(c.nextMessageId, content, attachments)
	c.append(m)
	return m
}

// AddAssistantMessage appends an assistant turn and bumps UpdatedAt.
func (c *Conversation) AddAssistantMessage(content, aiModel string, usage Usage) Message {
	m := NewAssistantMessage(c.nextMessageId, content, aiModel, usage)
	c.append(m)
	return m
}

func (c *Conversation) append(m Message) {
	c.Messages = append(c.Messages, m)
	c.nextMessageId++
	c.UpdatedAt = nowFunc()
}

// UpdateTitle sets a new title and bumps UpdatedAt.
func (c *Conversation) UpdateTitle(title string) {
	c.Title = title
	c.UpdatedAt = nowFunc()
}

// HasDefaultTitle reports whether the title was never changed.
func (c *Conversation) HasDefaultTitle() bool {
	return c.Title == DefaultTitle
}

// History returns the provider-facing view of the message list, skipping
// turns whose content is empty after trimming (partial or placeholder
// rows never reach a provider).
func (c *Conversation) History() []Message {
	out := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if len(m.Content) == 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}
