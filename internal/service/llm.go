package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smartrecipe/analyzer/config"
)

// ErrLLMNotConfigured is returned when no API key is available. The server
// still starts without one so the sample endpoint works offline.
var ErrLLMNotConfigured = errors.New("LLM provider is not configured: set DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE")

// LLMService handles interactions with the chat-completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config) *LLMService {
	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether an API key is available
func (s *LLMService) Configured() bool {
	return s.apiKey != ""
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the chat-completions API
type Request struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	ResponseFormat   map[string]string `json:"response_format"`
	Temperature      float64           `json:"temperature"`
	TopP             float64           `json:"top_p"`
	FrequencyPenalty float64           `json:"frequency_penalty"`
	PresencePenalty  float64           `json:"presence_penalty"`
}

// Complete sends a system/user message pair and returns the completion text.
// One round trip per call, no retries.
func (s *LLMService) Complete(ctx context.Context, system, user string) (string, error) {
	if !s.Configured() {
		return "", ErrLLMNotConfigured
	}

	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature:      0.9,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// TestConnection checks whether the provider answers a trivial completion
func (s *LLMService) TestConnection(ctx context.Context) bool {
	if !s.Configured() {
		return false
	}
	text, err := s.Complete(ctx, "You are a helpful assistant.", "Say 'Hello' in one word.")
	if err != nil {
		return false
	}
	return strings.Contains(text, "Hello")
}

// ExtractJSON strips markdown code fences some models wrap around their
// JSON output, returning the inner payload.
func ExtractJSON(text string) string {
	cleaned := strings.TrimSpace(text)

	if start := strings.Index(cleaned, "```json"); start != -1 {
		cleaned = cleaned[start+len("```json"):]
		if end := strings.LastIndex(cleaned, "```"); end != -1 {
			cleaned = cleaned[:end]
		}
		return strings.TrimSpace(cleaned)
	}

	if start := strings.Index(cleaned, "```"); start != -1 {
		cleaned = cleaned[start+len("```"):]
		if end := strings.LastIndex(cleaned, "```"); end != -1 {
			cleaned = cleaned[:end]
		}
		return strings.TrimSpace(cleaned)
	}

	return cleaned
}
