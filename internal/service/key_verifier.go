package service

import (
	"context"
	"time"

	"github.com/SuryaSekhar14/s3rd-chat/internal/config"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm/factory"
)

// IKeyVerifier checks a provider API key with a live round trip.
type IKeyVerifier interface {
	Verify(ctx context.Context, provider, key string) error
}

type keyVerifier struct {
	cfg     config.AIConfig
	timeout time.Duration
}

func NewKeyVerifier(cfg config.AIConfig) IKeyVerifier {
	return &keyVerifier{
		cfg:     cfg,
		timeout: 15 * time.Second,
	}
}

// Verify issues the cheapest possible completion against the provider.
// A clean response proves the key; provider failures surface through
// the usual status taxonomy.
func (v *keyVerifier) Verify(ctx context.Context, provider, key string) error {
	pingModel, baseURL := v.route(provider)
	if pingModel == "" {
		return chat.NewStatusError(400, "unknown provider")
	}

	client, err := factory.NewLLMProvider(provider, pingModel, baseURL, key)
	if err != nil {
		return chat.NewStatusError(400, "unknown provider")
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	_, err = client.Chat(ctx, []llm.Message{
		{Role: "user", Content: "ping"},
	}, llm.WithMaxTokens(1))
	if err != nil {
		return MapProviderError(err)
	}
	return nil
}

func (v *keyVerifier) route(provider string) (pingModel, baseURL string) {
	switch provider {
	case "openai":
		return "gpt-4o-mini", v.cfg.OpenAIBaseURL
	case "deepseek":
		return "deepseek-chat", v.cfg.DeepSeekURL
	case "ollama":
		return v.cfg.OllamaModel, v.cfg.OllamaBaseURL
	default:
		return "", ""
	}
}
