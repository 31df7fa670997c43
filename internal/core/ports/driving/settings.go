package driving

import "github.com/custodia-labs/ideabox/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key, e.g. "llm.provider".
	Set(key, value string) error

	// Keys returns every settable key in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// ValidateImageConfig checks the current image configuration.
	ValidateImageConfig() error
}
