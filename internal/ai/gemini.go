package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiDefaultModel = "gemini-2.0-flash"

// GeminiProvider implements Provider using the Google AI API. A client is
// created per completion and closed before it returns.
type GeminiProvider struct {
	apiKey string
	model  string
	opts   []option.ClientOption
	debug  debugLevel
}

// NewGemini creates a GeminiProvider from cfg. Extra client options are
// appended after the API key.
func NewGemini(cfg config.AIConfig, opts ...option.ClientOption) *GeminiProvider {
	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel
	}
	return &GeminiProvider{
		apiKey: cfg.GeminiAPIKey,
		model:  model,
		opts:   opts,
		debug:  debugFromEnv(),
	}
}

func (g *GeminiProvider) Name() string  { return ProviderGemini }
func (g *GeminiProvider) Model() string { return g.model }

func (g *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)...)
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if g.debug.prompts {
		slog.Debug("gemini: prompt", "model", g.model, "prompt", req.Prompt)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
