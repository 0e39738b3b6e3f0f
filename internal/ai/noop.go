package ai

import (
	"context"
	"fmt"
)

// NoopProvider is used when the selected provider has no API key.
// Every completion fails with a message naming the env var and config key
// that would supply the key, so metadata and tree retrieval still work.
type NoopProvider struct {
	envVar    string
	configKey string
}

func (n *NoopProvider) Name() string  { return "none" }
func (n *NoopProvider) Model() string { return "" }

func (n *NoopProvider) Complete(_ context.Context, _ CompletionRequest) (string, error) {
	return "", fmt.Errorf("AI provider not configured: set %s or %s in the config file", n.envVar, n.configKey)
}
