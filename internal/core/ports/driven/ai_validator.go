package driven

import "github.com/custodia-labs/ideabox/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateImage checks an image configuration without generating an image.
	// Returns nil if configuration is valid or not configured.
	ValidateImage(config *domain.ImageSettings) error
}
