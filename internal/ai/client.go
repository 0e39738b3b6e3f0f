package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
)

// Client sends analysis prompts to a Provider with fixed sampling settings
// and a bounded timeout.
type Client struct {
	provider    Provider
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewClient wraps provider with the sampling settings and timeout of cfg.
// Zero values fall back to the package defaults.
func NewClient(provider Provider, cfg config.AIConfig) *Client {
	c := &Client{
		provider:    provider,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}
	if c.maxTokens <= 0 {
		c.maxTokens = config.DefaultMaxTokens
	}
	if c.timeout <= 0 {
		c.timeout = config.DefaultAITimeout
	}
	return c
}

// Provider returns the wrapped provider.
func (c *Client) Provider() Provider { return c.provider }

// Analyze sends prompt with the analysis system message and returns the raw
// reply text. A timeout is reported as a transport failure and any other
// provider error as a model failure.
func (c *Client) Analyze(ctx context.Context, prompt string, mode models.AnalysisMode) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	reply, err := c.provider.Complete(ctx, CompletionRequest{
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		slog.Warn("ai: completion failed",
			"provider", c.provider.Name(),
			"mode", mode,
			"elapsed", time.Since(start).Round(time.Millisecond),
			"error", err,
		)
		kind := models.KindModelFailure
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = models.KindTransportFailure
		}
		return "", models.Fail(kind, err.Error()).WithCause(err)
	}

	slog.Debug("ai: completion finished",
		"provider", c.provider.Name(),
		"model", c.provider.Model(),
		"mode", mode,
		"reply_chars", len(reply),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return reply, nil
}
