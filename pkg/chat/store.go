package chat

import (
	"context"
	"time"
)

// Summary is the lightweight sidebar projection of a conversation:
// enough for list rendering without loading message bodies.
type Summary struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence synchronization boundary. Write operations
// report success with a boolean (or a status-classified error for title
// updates, whose failure class reaches the user); they never panic on
// expected failures, and no retries happen at this layer. SaveMessages
// has replace-whole-list semantics: concurrent writers race and the last
// one wins.
type Store interface {
	// FetchConversation returns the conversation or (nil, false) on
	// not-found and on store failure alike; callers treat both as a
	// failed load.
	FetchConversation(ctx context.Context, id string) (*Conversation, bool)

	// CreateConversation persists a stub record under the client-chosen
	// id with the given title.
	CreateConversation(ctx context.Context, id, title string) bool

	// UpdateConversationTitle persists a title change. The returned
	// error, if any, is classified (see StatusError) so the caller can
	// surface the right copy.
	UpdateConversationTitle(ctx context.Context, id, title string) error

	DeleteConversation(ctx context.Context, id string) bool

	// SaveMessages replaces the stored message list wholesale.
	SaveMessages(ctx context.Context, id string, messages []Message) bool

	FetchSummaries(ctx context.Context) ([]Summary, bool)
}
