package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
	"github.com/custodia-labs/ideabox/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorageBackend = "storage.backend"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyImageProvider  = "image.provider"
	keyImageModel     = "image.model"
	keyImageBaseURL   = "image.base_url"
	keyImageAPIKey    = "image.api_key"
	keyImageSize      = "image.size"
)

// settingKeys lists every settable key in display order.
var settingKeys = []string{
	keyStorageBackend,
	keyLLMProvider,
	keyLLMModel,
	keyLLMBaseURL,
	keyLLMAPIKey,
	keyImageProvider,
	keyImageModel,
	keyImageBaseURL,
	keyImageAPIKey,
	keyImageSize,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: s.getStorageBackend(defaults.Storage),
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Image: domain.ImageSettings{
			Provider: s.getProvider(keyImageProvider, defaults.Image.Provider),
			Model:    s.getString(keyImageModel, defaults.Image.Model),
			BaseURL:  s.configStore.GetString(keyImageBaseURL),
			APIKey:   s.configStore.GetString(keyImageAPIKey),
			Size:     s.getString(keyImageSize, defaults.Image.Size),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save image settings
	if err := s.configStore.Set(keyImageProvider, settings.Image.Provider.String()); err != nil {
		return fmt.Errorf("save image provider: %w", err)
	}
	if err := s.configStore.Set(keyImageModel, settings.Image.Model); err != nil {
		return fmt.Errorf("save image model: %w", err)
	}
	if err := s.configStore.Set(keyImageBaseURL, settings.Image.BaseURL); err != nil {
		return fmt.Errorf("save image base_url: %w", err)
	}
	if settings.Image.APIKey != "" {
		if err := s.configStore.Set(keyImageAPIKey, settings.Image.APIKey); err != nil {
			return fmt.Errorf("save image api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyImageSize, settings.Image.Size); err != nil {
		return fmt.Errorf("save image size: %w", err)
	}

	return nil
}

// Set updates a single setting. Enumerated keys are checked before the
// value is written; an empty value clears free-form keys.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return domain.NewValidationError(key, fmt.Sprintf("unknown storage backend %q", value))
		}
	case keyLLMProvider:
		if value != "" && !domain.AIProvider(value).IsValid() {
			return domain.NewValidationError(key, fmt.Sprintf("unknown provider %q", value))
		}
	case keyImageProvider:
		if value != "" && !domain.AIProvider(value).SupportsImages() {
			return domain.NewValidationError(key, fmt.Sprintf("provider %q cannot generate images", value))
		}
	case keyImageSize:
		if !validImageSize(value) {
			return domain.NewValidationError(key, fmt.Sprintf("size %q must look like 1024x1024", value))
		}
	case keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyImageModel, keyImageBaseURL, keyImageAPIKey:
	default:
		return domain.NewValidationError("key", fmt.Sprintf("unknown setting %q", key))
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ValidateImageConfig checks the current image configuration.
func (s *SettingsService) ValidateImageConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateImage(&settings.Image)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// validImageSize accepts WIDTHxHEIGHT with positive integers.
func validImageSize(size string) bool {
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return false
	}
	wi, err := strconv.Atoi(w)
	if err != nil || wi <= 0 {
		return false
	}
	hi, err := strconv.Atoi(h)
	return err == nil && hi > 0
}
