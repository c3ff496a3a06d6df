package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
	// Images holds URLs attached to a user turn; providers that support
	// vision fold them into a multimodal message, others ignore them.
	Images []string
}

// Usage is the token accounting a provider reports for one generation.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Result is the final outcome of a generation, streamed or not.
type Result struct {
	Content string
	Usage   Usage
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	APIKey      string // Override the configured key (per-user keys)
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// ChatStream streams the response token by token through onDelta and
	// returns the assembled result. onDelta runs on the transport
	// goroutine; keep it fast.
	ChatStream(ctx context.Context, history []Message, onDelta func(delta string), options ...Option) (*Result, error)
}
