package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

const chatReply = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "mistralai/Mixtral-8x7B-Instruct-v0.1",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Project purpose: greet"}}]
}`

func TestOpenAIProviderRequestShape(t *testing.T) {
	var got chatRequest
	var auth string
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply))
	}))
	defer srv.Close()

	cfg := config.AIConfig{APIKey: "tk-123", BaseURL: srv.URL, Temperature: 0.7, MaxTokens: 1500, Timeout: 5 * time.Second}
	p, err := NewOpenAI(cfg)
	require.NoError(t, err)

	reply, err := NewClient(p, cfg).Analyze(context.Background(), "the prompt", models.ModeRepository)
	require.NoError(t, err)
	assert.Equal(t, "Project purpose: greet", reply)

	assert.Equal(t, "Bearer tk-123", auth)
	assert.Equal(t, config.DefaultAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, SystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "the prompt", got.Messages[1].Content)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	assert.Equal(t, 1500, got.MaxTokens)
	assert.Equal(t, 1, calls)
}

func TestOpenAIProviderSingleAttemptOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	cfg := config.AIConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 5 * time.Second}
	p, err := NewOpenAI(cfg)
	require.NoError(t, err)

	_, err = NewClient(p, cfg).Analyze(context.Background(), "p", models.ModeRepository)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindModelFailure))
	assert.Equal(t, 1, calls)
}

func TestOpenAIProviderEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	cfg := config.AIConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 5 * time.Second}
	p, err := NewOpenAI(cfg)
	require.NoError(t, err)

	_, err = NewClient(p, cfg).Analyze(context.Background(), "p", models.ModeRepository)
	assert.True(t, models.IsKind(err, models.KindModelFailure))
}

func TestOpenAIProviderTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := config.AIConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}
	p, err := NewOpenAI(cfg)
	require.NoError(t, err)

	_, err = NewClient(p, cfg).Analyze(context.Background(), "p", models.ModeRepository)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindTransportFailure))
}
