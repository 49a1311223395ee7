package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/analyzer/config"
)

func TestCompleteReturnsCompletionText(t *testing.T) {
	var captured Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"hello there"}}]}`)
	}))
	defer ts.Close()

	svc := NewLLMService(&config.Config{
		LLMAPIKey: "test-key",
		LLMAPIURL: ts.URL,
		LLMModel:  "deepseek-chat",
	})

	content, err := svc.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello there", content)

	assert.Equal(t, "deepseek-chat", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, map[string]string{"type": "json_object"}, captured.ResponseFormat)
}

func TestCompleteWithoutAPIKey(t *testing.T) {
	svc := NewLLMService(&config.Config{
		LLMAPIURL: "https://api.deepseek.com/v1/chat/completions",
		LLMModel:  "deepseek-chat",
	})

	assert.False(t, svc.Configured())

	_, err := svc.Complete(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}

func TestCompleteProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"non-200 status", `{"error":"rate limited"}`, http.StatusTooManyRequests},
		{"empty choices", `{"choices":[]}`, http.StatusOK},
		{"invalid body", `not json`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			svc := NewLLMService(&config.Config{
				LLMAPIKey: "test-key",
				LLMAPIURL: ts.URL,
				LLMModel:  "deepseek-chat",
			})

			_, err := svc.Complete(context.Background(), "system", "user")
			assert.Error(t, err)
		})
	}
}

func TestTestConnection(t *testing.T) {
	t.Run("healthy provider", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices":[{"message":{"content":"Hello"}}]}`)
		}))
		defer ts.Close()

		svc := NewLLMService(&config.Config{LLMAPIKey: "k", LLMAPIURL: ts.URL, LLMModel: "deepseek-chat"})
		assert.True(t, svc.TestConnection(context.Background()))
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		svc := NewLLMService(&config.Config{LLMAPIURL: "http://localhost:1", LLMModel: "deepseek-chat"})
		assert.False(t, svc.TestConnection(context.Background()))
	})

	t.Run("unreachable provider", func(t *testing.T) {
		svc := NewLLMService(&config.Config{LLMAPIKey: "k", LLMAPIURL: "http://127.0.0.1:1", LLMModel: "deepseek-chat"})
		assert.False(t, svc.TestConnection(context.Background()))
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"recipes":[]}`,
			expected: `{"recipes":[]}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"recipes\":[]}\n```",
			expected: `{"recipes":[]}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"recipes\":[]}\n```",
			expected: `{"recipes":[]}`,
		},
		{
			name:     "fence with leading prose",
			input:    "Here you go:\n```json\n{\"recipes\":[]}\n```",
			expected: `{"recipes":[]}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  {\"recipes\":[]}  ",
			expected: `{"recipes":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}
