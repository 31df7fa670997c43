// Package anthropic provides an LLM service adapter for the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/custodia-labs/ideabox/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024
	APIVersion       = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-haiku-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the Anthropic API.
type LLMService struct {
	api   *httpapi.Client
	model string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model         string    `json:"model"`
	System        string    `json:"system,omitempty"`
	Messages      []message `json:"messages"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   float64   `json:"temperature,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		api: httpapi.New(httpapi.Config{
			Provider: "anthropic",
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Headers: map[string]string{
				"x-api-key":         cfg.APIKey,
				"anthropic-version": APIVersion,
			},
		}),
		model: cfg.Model,
	}, nil
}

// Generate produces a completion for a single user prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.send(ctx, messagesRequest{
		Model:         s.model,
		Messages:      []message{{Role: "user", Content: prompt}},
		MaxTokens:     maxTokens(opts.MaxTokens),
		Temperature:   opts.Temperature,
		StopSequences: opts.StopWords,
	})
}

// Chat conducts a multi-turn conversation. System messages are lifted into
// the request's system field, which is where the Messages API expects them.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		MaxTokens:   maxTokens(opts.MaxTokens),
		Temperature: opts.Temperature,
	}
	var system []string
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")
	return s.send(ctx, req)
}

func (s *LLMService) send(ctx context.Context, req messagesRequest) (string, error) {
	var resp messagesResponse
	if err := s.api.PostJSON(ctx, "/v1/messages", req, &resp); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func maxTokens(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/v1/models")
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
