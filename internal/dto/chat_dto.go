package dto

type SendChatRequest struct {
	ConversationId string          `json:"conversationId" validate:"required,uuid"`
	Message        string          `json:"message" validate:"required"`
	Model          string          `json:"model,omitempty"`
	Persona        string          `json:"persona,omitempty"`
	Attachments    []AttachmentDTO `json:"attachments,omitempty" validate:"omitempty,dive"`
	// PDFContext carries text the client extracted from attached
	// documents; it feeds the system prompt and is never persisted.
	PDFContext []string `json:"pdfContext,omitempty"`
}

type SendChatResponse struct {
	ConversationId   string `json:"conversationId"`
	Content          string `json:"content"`
	AiModel          string `json:"aiModel"`
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`
	SuggestedTitle   string `json:"suggestedTitle,omitempty"`
	// Stopped marks a generation the user cancelled; the partial output
	// was discarded and nothing was saved.
	Stopped bool `json:"stopped,omitempty"`
}

// StopCommand is what a client sends over the socket to cancel the
// in-flight generation.
type StopCommand struct {
	Type           string `json:"type"`
	ConversationId string `json:"conversationId"`
}
