package llm

import (
	"context"

	"github.com/ppiankov/clearview/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single-turn completion request and returns the raw text
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one completion call
type Request struct {
	// System sets the model's role. Empty means no system message.
	System string

	// Prompt is the user-turn content
	Prompt string

	// Model overrides the configured default (provider-specific name)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls randomness. Analysis calls keep this low.
	Temperature float64
}

// Response contains the model's output
type Response struct {
	// Text is the raw completion text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// SynthesisModel is a cheaper model used for verdict summaries.
	// Falls back to Model when empty.
	SynthesisModel string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Timeout:   60,
		MaxTokens: 4096,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:       modelConfig.Provider,
		Model:          modelConfig.Model,
		SynthesisModel: modelConfig.SynthesisModel,
		APIKey:         modelConfig.APIKey,
		BaseURL:        modelConfig.BaseURL,
		Timeout:        modelConfig.Timeout,
		MaxTokens:      modelConfig.MaxTokens,
	}
}
