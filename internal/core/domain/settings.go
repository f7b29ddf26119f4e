package domain

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
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
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or a proxy).
	BaseURL string

	// APIKey is the API key for cloud providers.
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

// GitHubSettings holds repository source configuration.
type GitHubSettings struct {
	// Token is an optional personal access token. Empty means anonymous.
	Token string

	// BaseURL overrides the API endpoint for GitHub Enterprise.
	BaseURL string

	// MaxFiles caps the number of file records fetched per repository.
	MaxFiles int

	// RequestsPerSecond is the proactive client-side rate limit.
	RequestsPerSecond float64
}

// HasToken reports whether requests will be authenticated.
func (g GitHubSettings) HasToken() bool {
	return g.Token != ""
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
}

// CacheBackend selects where fetched snapshots are kept.
type CacheBackend string

// Available cache backends.
const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendNone   CacheBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// CacheSettings holds snapshot cache configuration.
type CacheSettings struct {
	// Backend selects the store implementation.
	Backend CacheBackend

	// Dir holds the sqlite database. Empty means the config directory.
	Dir string

	// Size is the entry limit for the memory backend.
	Size int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds LLM provider settings.
	LLM LLMSettings

	// GitHub holds repository source settings.
	GitHub GitHubSettings

	// Server holds HTTP API settings.
	Server ServerSettings

	// Cache holds snapshot cache settings.
	Cache CacheSettings

	// PromptsDir overrides the prompt template directory.
	PromptsDir string
}

// Default values for settings that have one.
const (
	DefaultMaxFiles          = 50
	DefaultRequestsPerSecond = 10.0
	DefaultServerAddr        = ":8000"
	DefaultCacheSize         = 64
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; users set it via the settings command
// or a provider API key in the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		GitHub: GitHubSettings{
			MaxFiles:          DefaultMaxFiles,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
		Cache: CacheSettings{
			Backend: CacheBackendMemory,
			Size:    DefaultCacheSize,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// AllCacheBackends returns all snapshot cache backends.
func AllCacheBackends() []CacheBackend {
	return []CacheBackend{
		CacheBackendMemory,
		CacheBackendSQLite,
		CacheBackendNone,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}
