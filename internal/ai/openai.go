package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIProvider implements Provider against any OpenAI-compatible chat
// completions endpoint. The default base URL is Together.ai.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	debug   debugLevel
}

// NewOpenAI creates an OpenAIProvider from cfg. SDK retries are disabled.
func NewOpenAI(cfg config.AIConfig, opts ...option.RequestOption) (*OpenAIProvider, error) {
	base := cfg.BaseURL
	if base == "" {
		base = config.DefaultAIBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid AI base URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("invalid AI base URL scheme %q", u.Scheme)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultAIModel
	}

	base = strings.TrimRight(base, "/") + "/"
	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAIProvider{
		client:  openai.NewClient(clientOpts...),
		model:   model,
		baseURL: base,
		debug:   debugFromEnv(),
	}, nil
}

func (o *OpenAIProvider) Name() string  { return ProviderOpenAI }
func (o *OpenAIProvider) Model() string { return o.model }

// Complete posts {model, messages:[system,user], temperature, max_tokens} to
// <base>/chat/completions and returns the first choice's content.
func (o *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	if o.debug.requests {
		slog.Debug("openai: request",
			"base_url", o.baseURL,
			"model", o.model,
			"prompt_chars", len(req.Prompt),
			"max_tokens", req.MaxTokens,
		)
	}
	if o.debug.prompts {
		slog.Debug("openai: prompt", "model", o.model, "prompt", req.Prompt)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	content := completion.Choices[0].Message.Content
	if o.debug.prompts {
		slog.Debug("openai: reply", "model", o.model, "reply", content)
	}
	return content, nil
}
