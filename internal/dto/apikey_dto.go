package dto

import "time"

type SaveAPIKeyRequest struct {
	Provider string `json:"provider" validate:"required,oneof=openai deepseek google anthropic"`
	Key      string `json:"key" validate:"required,min=8"`
}

// APIKeyResponse never carries the plaintext; MaskedKey shows only the
// trailing characters for recognition.
type APIKeyResponse struct {
	Provider  string    `json:"provider"`
	MaskedKey string    `json:"maskedKey"`
	UpdatedAt time.Time `json:"updatedAt"`
}
