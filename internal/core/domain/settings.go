package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for text refinement or images.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API (or any compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsImages returns true if this provider can generate images.
func (p AIProvider) SupportsImages() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects where the idea collection is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite keeps ideas in ~/.ideabox/data/ideas.db.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps ideas for the lifetime of the process only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// LLMSettings holds the text refinement provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ImageSettings holds the image generation provider configuration.
type ImageSettings struct {
	// Provider is the image service provider. Only OpenAI-compatible APIs are supported.
	Provider AIProvider

	// Model is the image model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// Size is the requested image size, e.g. "1024x1024".
	Size string
}

// IsConfigured returns true if the image provider is set up.
func (i ImageSettings) IsConfigured() bool {
	if !i.Provider.SupportsImages() {
		return false
	}
	return i.APIKey != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Storage selects the persistence backend.
	Storage StorageBackend

	// LLM holds text refinement settings.
	LLM LLMSettings

	// Image holds image generation settings.
	Image ImageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSQLite,
		LLM:     LLMSettings{},
		Image: ImageSettings{
			Size: "1024x1024",
		},
	}
}
