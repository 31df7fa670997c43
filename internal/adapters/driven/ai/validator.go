package ai

import (
	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return ValidateLLMConfig(config)
}

// ValidateImage checks an image configuration is complete.
func (v *ConfigValidator) ValidateImage(config *domain.ImageSettings) error {
	return ValidateImageConfig(config)
}
