package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, status int, body map[string]any) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	client := anthropic.NewClient(option.WithAPIKey("test-key"), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 42, "output_tokens": 17},
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"translation":"house"}`, "end_turn"))

	resp, err := p.Generate(context.Background(), Prompt("translator", "casa", translationTestSchema(), 128))
	require.NoError(t, err)
	assert.JSONEq(t, `{"translation":"house"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 42, OutputTokens: 17, TotalTokens: 59}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
}

func TestAnthropicProvider_TruncatedStructuredOutput(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, anthropicMessage(`{"transl`, "max_tokens"))

	_, err := p.Generate(context.Background(), Prompt("", "casa", translationTestSchema(), 4))
	var maxTok *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &maxTok), "got %v", err)
}

func TestAnthropicProvider_ErrorClassification(t *testing.T) {
	errBody := func(kind string) map[string]any {
		return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
	}

	t.Run("rate limit", func(t *testing.T) {
		p := anthropicServer(t, http.StatusTooManyRequests, errBody("rate_limit_error"))
		_, err := p.Generate(context.Background(), Prompt("", "x", nil, 16))
		var rl *ErrRateLimit
		assert.True(t, errors.As(err, &rl), "got %v", err)
	})

	t.Run("server error", func(t *testing.T) {
		p := anthropicServer(t, http.StatusInternalServerError, errBody("api_error"))
		_, err := p.Generate(context.Background(), Prompt("", "x", nil, 16))
		var unavail *ErrProviderUnavailable
		assert.True(t, errors.As(err, &unavail), "got %v", err)
	})

	t.Run("bad request is not retryable", func(t *testing.T) {
		p := anthropicServer(t, http.StatusBadRequest, errBody("invalid_request_error"))
		_, err := p.Generate(context.Background(), Prompt("", "x", nil, 16))
		require.Error(t, err)
		seen := false
		assert.False(t, retryable(err, &seen))
	})
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		aliases map[string]string
		in      string
		want    string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-sonnet", "claude-sonnet-4-5-20250929"},
		{anthropicModels, "claude-opus-4-1", "claude-opus-4-1"},
		{geminiModels, "gemini-flash", "gemini-2.5-flash"},
		{geminiModels, "gemini-pro", "gemini-2.5-pro"},
		{openaiModels, "gpt-4o-mini", "gpt-4o-mini"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.in, tt.aliases), tt.in)
	}
}

func TestNewProviders_RequireKeys(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err)
	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x/y"})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func translationTestSchema() *Schema {
	return &Schema{
		Name: "anthropic-test-translation",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"translation": map[string]any{"type": "string"}},
			"required":   []any{"translation"},
		},
	}
}
