// Package openai provides an ImageGenerator for the OpenAI images API and
// compatible endpoints.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ideabox/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.ImageGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.openai.com/v1"
	DefaultModel             = "dall-e-3"
	DefaultSize              = "1024x1024"
	DefaultTimeout           = 180 * time.Second
	DefaultRequestsPerMinute = 5
)

// Config holds configuration for the image generator.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the image model (default: dall-e-3).
	Model string

	// Size is the requested image size (default: 1024x1024).
	Size string

	// Timeout is the request timeout (default: 180s).
	Timeout time.Duration

	// RequestsPerMinute caps outgoing requests (default: 5). Image endpoints
	// have low per-minute quotas on most accounts.
	RequestsPerMinute int

	// Prompts supplies the image_brief template (required).
	Prompts driven.PromptStore
}

// Generator requests illustrations from an OpenAI-compatible images API.
type Generator struct {
	api     *httpapi.Client
	model   string
	size    string
	prompts driven.PromptStore
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

// NewGenerator creates an image generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai images: API key is required")
	}
	if cfg.Prompts == nil {
		return nil, errors.New("openai images: prompt store is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Size == "" {
		cfg.Size = DefaultSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	limit := rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))

	return &Generator{
		api: httpapi.New(httpapi.Config{
			Provider: "openai images",
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Headers:  map[string]string{"Authorization": "Bearer " + cfg.APIKey},
			Limiter:  rate.NewLimiter(limit, 1),
		}),
		model:   cfg.Model,
		size:    cfg.Size,
		prompts: cfg.Prompts,
	}, nil
}

// GenerateImage returns a data URI for the generated image, or the hosted URL
// when the provider ignores response_format. An empty result means the
// provider produced no image.
func (g *Generator) GenerateImage(ctx context.Context, title, description string) (string, error) {
	tmpl, err := g.prompts.Load(driven.PromptImageBrief)
	if err != nil {
		return "", fmt.Errorf("load image prompt: %w", err)
	}

	req := generationRequest{
		Model:          g.model,
		Prompt:         fmt.Sprintf(tmpl, title, description),
		Size:           g.size,
		N:              1,
		ResponseFormat: "b64_json",
	}

	var resp generationResponse
	if err := g.api.PostJSON(ctx, "/images/generations", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}

	img := resp.Data[0]
	switch {
	case img.B64JSON != "":
		return "data:image/png;base64," + img.B64JSON, nil
	case img.URL != "":
		return img.URL, nil
	default:
		return "", nil
	}
}
