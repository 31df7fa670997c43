// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	openaiimg "github.com/custodia-labs/ideabox/internal/adapters/driven/imagegen/openai"
	anthropicllm "github.com/custodia-labs/ideabox/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/ideabox/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ideabox/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the enrichment collaborators built from settings.
// A nil field means that kind of enrichment is disabled.
type Services struct {
	LLM      driven.LLMService
	Refiner  driven.TextRefiner
	Images   driven.ImageGenerator
	Warnings []string // Misconfigurations that disabled a service.
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// Init builds the refiner and image generator from settings. It never fails:
// a provider that cannot be created is left nil and reported in Warnings.
// Connectivity is not checked here; requests fail individually instead.
func Init(settings *domain.AppSettings, prompts driven.PromptStore) *Services {
	out := &Services{}

	llm, err := CreateLLMService(&settings.LLM)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, fmt.Sprintf("text refinement disabled: %v", err))
	case llm != nil:
		out.LLM = llm
		out.Refiner = NewRefiner(llm, prompts)
	}

	images, err := CreateImageGenerator(&settings.Image, prompts)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, fmt.Sprintf("image generation disabled: %v", err))
	case images != nil:
		out.Images = images
	}

	return out
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// A provider that needs an API key but has none is reported without a network call.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return fmt.Errorf("%w: %s requires llm.api_key. Run 'ideabox settings set' to fix",
			domain.ErrLLMUnavailable, settings.Provider)
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w. Run 'ideabox settings set' to fix", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Run 'ideabox settings set' to fix",
			domain.ErrLLMUnavailable, err)
	}
	return nil
}

// ValidateImageConfig checks an image configuration without generating an
// image, since generation is billed per call.
func ValidateImageConfig(settings *domain.ImageSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}
	if !settings.Provider.SupportsImages() {
		return fmt.Errorf("%w: %s cannot generate images. Run 'ideabox settings set' to fix",
			domain.ErrEnrichmentUnavailable, settings.Provider)
	}
	if settings.APIKey == "" {
		return fmt.Errorf("%w: %s requires image.api_key. Run 'ideabox settings set' to fix",
			domain.ErrEnrichmentUnavailable, settings.Provider)
	}
	return nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateImageGenerator creates the image generator based on settings.
// Returns nil if the provider is not configured.
func CreateImageGenerator(settings *domain.ImageSettings, prompts driven.PromptStore) (driven.ImageGenerator, error) {
	if settings == nil || settings.Provider == "" {
		return nil, nil
	}
	if err := ValidateImageConfig(settings); err != nil {
		return nil, err
	}

	return openaiimg.NewGenerator(openaiimg.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Size:    settings.Size,
		Prompts: prompts,
	})
}
