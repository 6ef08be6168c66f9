package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicMessage(blocks ...map[string]any) map[string]any {
	return map[string]any{
		"id":            "msg_01",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-haiku-4-5",
		"content":       blocks,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage": map[string]any{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
}

func newMessagesServer(t *testing.T, body map[string]any, captured *map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestAnthropicClientSummarize(t *testing.T) {
	var request map[string]any
	srv := newMessagesServer(t, anthropicMessage(
		map[string]any{"type": "text", "text": "🚀 Headline\n"},
		map[string]any{"type": "text", "text": "Body."},
	), &request)

	client := NewAnthropicClient("test-key", "claude-haiku-4-5", WithAnthropicBaseURL(srv.URL+"/"))

	summary, err := client.Summarize(context.Background(), "AI", testItems)

	require.NoError(t, err)
	assert.Equal(t, "🚀 Headline\nBody.", summary)
	assert.Equal(t, "claude-haiku-4-5", request["model"])
	assert.EqualValues(t, digestMaxTokens, request["max_tokens"])
	assert.NotEmpty(t, request["system"])
}

func TestAnthropicClientEmptyContent(t *testing.T) {
	srv := newMessagesServer(t, anthropicMessage(), nil)

	client := NewAnthropicClient("test-key", "claude-haiku-4-5", WithAnthropicBaseURL(srv.URL+"/"))

	_, err := client.Summarize(context.Background(), "AI", testItems)

	require.ErrorIs(t, err, ErrEmptySummary)
}

func TestAnthropicClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", "claude-haiku-4-5", WithAnthropicBaseURL(srv.URL+"/"))

	_, err := client.Summarize(context.Background(), "AI", testItems)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic API error")
}

func TestAnthropicClientPing(t *testing.T) {
	srv := newMessagesServer(t, anthropicMessage(map[string]any{"type": "text", "text": "Hello!"}), nil)

	client := NewAnthropicClient("test-key", "claude-haiku-4-5", WithAnthropicBaseURL(srv.URL+"/"))

	reply, err := client.Ping(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
}
