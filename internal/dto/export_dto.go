package dto

type ExportRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ExportResponse struct {
	ConversationId string `json:"conversationId"`
	SentTo         string `json:"sentTo"`
}
