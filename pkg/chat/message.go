package chat

// AttachmentType tags the two attachment kinds the product supports.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentPDF   AttachmentType = "pdf"
)

// Attachment is a normalized file reference carried by a message.
type Attachment struct {
	Type     AttachmentType `json:"type"`
	URL      string         `json:"url"`
	Filename string         `json:"filename,omitempty"`
}

// Message is one turn of a conversation. Messages are immutable once
// created; the numeric Id is a per-conversation sequence assigned by the
// owning Conversation.
type Message struct {
	Id               int          `json:"id"`
	Content          string       `json:"content"`
	IsUser           bool         `json:"isUser"`
	AIModel          string       `json:"aiModel,omitempty"`
	PromptTokens     int          `json:"promptTokens,omitempty"`
	CompletionTokens int          `json:"completionTokens,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
}

// NewUserMessage builds a user turn. Model and token fields stay zero:
// they are only ever set on assistant messages.
func NewUserMessage(id int, content string, attachments []Attachment) Message {
	return Message{
		Id:          id,
		Content:     content,
		IsUser:      true,
		Attachments: attachments,
	}
}

// NewAssistantMessage builds an assistant turn with usage accounting and
// the model that produced it.
func NewAssistantMessage(id int, content, aiModel string, usage Usage) Message {
	return Message{
		Id:               id,
		Content:          content,
		IsUser:           false,
		AIModel:          aiModel,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}
}

// Role returns the provider-facing role string for this message.
func (m Message) Role() string {
	if m.IsUser {
		return "user"
	}
	return "assistant"
}

// Usage is the token accounting reported by a finished generation.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}
