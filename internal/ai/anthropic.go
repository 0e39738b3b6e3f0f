package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultModel = "claude-sonnet-4-6"

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
	debug  debugLevel
}

// NewAnthropic creates an AnthropicProvider from cfg. SDK retries are disabled.
func NewAnthropic(cfg config.AIConfig, opts ...option.RequestOption) *AnthropicProvider {
	model := cfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.AnthropicAPIKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &AnthropicProvider{
		client: anthropic.NewClient(clientOpts...),
		model:  model,
		debug:  debugFromEnv(),
	}
}

func (c *AnthropicProvider) Name() string  { return ProviderAnthropic }
func (c *AnthropicProvider) Model() string { return c.model }

func (c *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if c.debug.prompts {
		slog.Debug("anthropic: prompt", "model", c.model, "prompt", req.Prompt)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return sb.String(), nil
}
