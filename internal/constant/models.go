package constant

// ModelCapabilities flags what a model can accept or do; the client uses
// them to gate attachment controls.
type ModelCapabilities struct {
	Vision    bool `json:"vision,omitempty"`
	Web       bool `json:"web,omitempty"`
	Documents bool `json:"documents,omitempty"`
	Reasoning bool `json:"reasoning,omitempty"`
	Coding    bool `json:"coding,omitempty"`
}

type ModelInfo struct {
	Id           string            `json:"id"`
	Name         string            `json:"name"`
	Icon         string            `json:"icon"`
	Provider     string            `json:"provider"`
	Capabilities ModelCapabilities `json:"capabilities"`
	Premium      bool              `json:"premium,omitempty"`
}

const DefaultModel = "gpt-4o-mini"

// Models is the catalog shown in the model picker. Order matters, the
// client renders it as-is.
var Models = []ModelInfo{
	{
		Id:           "gemini-2.5-flash-preview-04-17",
		Name:         "Gemini 2.5 Flash",
		Icon:         "gemini",
		Provider:     "Google",
		Capabilities: ModelCapabilities{Vision: true, Web: true, Documents: true},
	},
	{
		Id:           "gemini-2.5-pro-exp-03-25",
		Name:         "Gemini 2.5 Pro",
		Icon:         "gemini",
		Provider:     "Google",
		Capabilities: ModelCapabilities{Vision: true, Web: true, Documents: true, Reasoning: true},
		Premium:      true,
	},
	{
		Id:           "gpt-4o",
		Name:         "GPT-4o",
		Icon:         "openai",
		Provider:     "OpenAI",
		Capabilities: ModelCapabilities{Vision: true, Documents: true, Coding: true},
	},
	{
		Id:           "gpt-4o-mini",
		Name:         "GPT-4o Mini",
		Icon:         "openai",
		Provider:     "OpenAI",
		Capabilities: ModelCapabilities{Vision: true, Coding: true},
	},
	{
		Id:           "claude-4-sonnet-20250514",
		Name:         "Claude 4 Sonnet",
		Icon:         "claude",
		Provider:     "Anthropic",
		Capabilities: ModelCapabilities{Vision: true, Documents: true, Coding: true},
		Premium:      true,
	},
	{
		Id:           "claude-3-7-sonnet-20250219",
		Name:         "Claude 3.7 Sonnet",
		Icon:         "claude",
		Provider:     "Anthropic",
		Capabilities: ModelCapabilities{Vision: true, Documents: true, Coding: true},
		Premium:      true,
	},
	{
		Id:           "claude-3-5-sonnet-20241022",
		Name:         "Claude 3.5 Sonnet",
		Icon:         "claude",
		Provider:     "Anthropic",
		Capabilities: ModelCapabilities{Vision: true, Documents: true, Coding: true},
		Premium:      true,
	},
	{
		Id:           "deepseek-chat",
		Name:         "DeepSeek Chat",
		Icon:         "deepseek",
		Provider:     "DeepSeek",
		Capabilities: ModelCapabilities{Coding: true},
	},
	{
		Id:           "deepseek-reasoner",
		Name:         "DeepSeek Reasoner",
		Icon:         "deepseek",
		Provider:     "DeepSeek",
		Capabilities: ModelCapabilities{Reasoning: true, Coding: true},
	},
}

// IsKnownModel reports whether id is in the catalog; unknown ids fall
// back to DefaultModel at send time.
func IsKnownModel(id string) bool {
	for _, m := range Models {
		if m.Id == id {
			return true
		}
	}
	return false
}

// ProviderFor returns the provider name for a model id, or empty when
// the id is not in the catalog.
func ProviderFor(id string) string {
	for _, m := range Models {
		if m.Id == id {
			return m.Provider
		}
	}
	return ""
}
