package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CONVERSATION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event constructors. Consumers subscribe by subject, so the
// type strings are part of the contract.

const (
	TypeConversationCreated = "CONVERSATION_CREATED"
	TypeConversationDeleted = "CONVERSATION_DELETED"
	TypeTitleUpdated        = "CONVERSATION_TITLE_UPDATED"
	TypeMessageExchanged    = "MESSAGE_EXCHANGED"
)

func NewConversationCreated(userID, conversationID string) Event {
	return BaseEvent{
		Type: TypeConversationCreated,
		Data: map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationDeleted(userID, conversationID string) Event {
	return BaseEvent{
		Type: TypeConversationDeleted,
		Data: map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
		},
		OccurredAt: time.Now(),
	}
}

func NewTitleUpdated(userID, conversationID, title string) Event {
	return BaseEvent{
		Type: TypeTitleUpdated,
		Data: map[string]interface{}{
			"user_id":         userID,
			"conversation_id": conversationID,
			"title":           title,
		},
		OccurredAt: time.Now(),
	}
}

func NewMessageExchanged(userID, conversationID, model string, promptTokens, completionTokens int) Event {
	return BaseEvent{
		Type: TypeMessageExchanged,
		Data: map[string]interface{}{
			"user_id":           userID,
			"conversation_id":   conversationID,
			"model":             model,
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
		},
		OccurredAt: time.Now(),
	}
}
