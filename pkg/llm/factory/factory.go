package factory

import (
	"fmt"

	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm/ollama"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm/openai"
)

// NewLLMProvider builds a provider client by wire protocol. "deepseek"
// is the OpenAI protocol pointed at a different base URL.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1" // Default
		}
		return openai.NewOpenAIProvider(baseURL, apiKey, modelName), nil
	case "deepseek":
		if baseURL == "" {
			baseURL = "https://api.deepseek.com/v1" // Default
		}
		return openai.NewOpenAIProvider(baseURL, apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
