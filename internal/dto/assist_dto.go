package dto

type TitleSuggestionRequest struct {
	ConversationId string       `json:"conversationId" validate:"required,uuid"`
	Messages       []MessageDTO `json:"messages" validate:"required,min=1"`
	Model          string       `json:"model,omitempty"`
}

type TitleSuggestionResponse struct {
	Title string `json:"title"`
}

type EnhancePromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model,omitempty"`
}

type EnhancePromptResponse struct {
	EnhancedPrompt string `json:"enhancedPrompt"`
}
