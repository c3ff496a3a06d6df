package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/config"
	"github.com/SuryaSekhar14/s3rd-chat/internal/constant"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm/factory"
)

// IProviderResolver picks the provider client and effective model for a
// request. Unknown model ids fall back to the configured default, and a
// stored per-user key wins over the server key for that provider.
type IProviderResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, model string) (llm.LLMProvider, string, error)
}

type providerResolver struct {
	cfg           config.AIConfig
	apiKeyService IAPIKeyService
	log           logger.ILogger
}

func NewProviderResolver(cfg config.AIConfig, apiKeyService IAPIKeyService, log logger.ILogger) IProviderResolver {
	return &providerResolver{
		cfg:           cfg,
		apiKeyService: apiKeyService,
		log:           log,
	}
}

func (r *providerResolver) Resolve(ctx context.Context, userID uuid.UUID, model string) (llm.LLMProvider, string, error) {
	effective := model
	if effective == "" || !constant.IsKnownModel(effective) {
		effective = r.cfg.DefaultModel
	}

	providerType, baseURL, serverKey := r.route(constant.ProviderFor(effective))
	if providerType == "" {
		// No native client for this provider yet; serve the default model
		// instead of failing the whole request.
		r.log.Warn("llm_router", "no client for provider, using default model", map[string]interface{}{
			"requested_model": effective,
		})
		effective = r.cfg.DefaultModel
		providerType, baseURL, serverKey = r.route(constant.ProviderFor(effective))
	}

	apiKey := serverKey
	if userKey, err := r.apiKeyService.Plaintext(ctx, userID, providerType); err == nil && userKey != "" {
		apiKey = userKey
	}

	provider, err := factory.NewLLMProvider(providerType, effective, baseURL, apiKey)
	if err != nil {
		return nil, "", err
	}
	return provider, effective, nil
}

// route maps a catalog provider name to a wire protocol plus its
// configured endpoint and server-side key.
func (r *providerResolver) route(providerName string) (providerType, baseURL, apiKey string) {
	switch providerName {
	case "OpenAI":
		return "openai", r.cfg.OpenAIBaseURL, r.cfg.OpenAIKey
	case "DeepSeek":
		return "deepseek", r.cfg.DeepSeekURL, r.cfg.DeepSeekKey
	case "Ollama":
		return "ollama", r.cfg.OllamaBaseURL, ""
	default:
		return "", "", ""
	}
}
