package ai

import (
	"context"
	"fmt"

	"github.com/CosmoTheDev/repolens/internal/config"
)

// Provider abstracts a single chat completion against a language model.
// To add a new provider:
//  1. Create a file in internal/ai/ (e.g. mymodel.go)
//  2. Implement Provider
//  3. Register in New()
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "anthropic").
	Name() string

	// Model returns the model the provider sends requests to.
	Model() string

	// Complete sends one system and one user message and returns the text of
	// the first choice. Implementations make exactly one attempt.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries the sampling parameters of one completion.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider identifiers accepted in ai.provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// New returns the configured Provider.
// If the selected provider has no API key, it returns a NoopProvider whose
// completions fail with a configuration hint; the gateway and CLI still start.
func New(cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return &NoopProvider{envVar: "TOGETHER_API_KEY", configKey: "ai.api_key"}, nil
		}
		return NewOpenAI(cfg)
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return &NoopProvider{envVar: "ANTHROPIC_API_KEY", configKey: "ai.anthropic_api_key"}, nil
		}
		return NewAnthropic(cfg), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return &NoopProvider{envVar: "GEMINI_API_KEY", configKey: "ai.gemini_api_key"}, nil
		}
		return NewGemini(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
