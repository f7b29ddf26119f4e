package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyGitHubToken    = "github.token"
	keyGitHubBaseURL  = "github.base_url"
	keyGitHubMaxFiles = "github.max_files"
	keyGitHubRate     = "github.requests_per_second"
	keyServerAddr     = "server.addr"
	keyCacheBackend   = "cache.backend"
	keyCacheDir       = "cache.dir"
	keyCacheSize      = "cache.size"
	keyPromptsDir     = "prompts.dir"
)

// Environment variables read by Get.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	envGitHubToken     = "GITHUB_TOKEN"
	envOllamaHost      = "OLLAMA_HOST"
	envOpenAIAPIKey    = "OPENAI_API_KEY"
	envAnthropicAPIKey = "ANTHROPIC_API_KEY"
	envGeminiAPIKey    = "GEMINI_API_KEY"
)

const defaultOllamaURL = "http://localhost:11434"

// providerKeyEnv lists API key variables in auto-detection order.
var providerKeyEnv = []struct {
	provider domain.AIProvider
	env      string
}{
	{domain.AIProviderOpenAI, envOpenAIAPIKey},
	{domain.AIProviderAnthropic, envAnthropicAPIKey},
	{domain.AIProviderGemini, envGeminiAPIKey},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Environment variables
// override the stored values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.load()
	s.applyEnv(settings)
	return settings, nil
}

// load reads stored settings without environment overrides.
func (s *SettingsService) load() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		GitHub: domain.GitHubSettings{
			Token:             s.configStore.GetString(keyGitHubToken),
			BaseURL:           s.configStore.GetString(keyGitHubBaseURL),
			MaxFiles:          s.getInt(keyGitHubMaxFiles, defaults.GitHub.MaxFiles),
			RequestsPerSecond: s.getFloat(keyGitHubRate, defaults.GitHub.RequestsPerSecond),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
		Cache: domain.CacheSettings{
			Backend: s.getCacheBackend(defaults.Cache.Backend),
			Dir:     s.configStore.GetString(keyCacheDir),
			Size:    s.getInt(keyCacheSize, defaults.Cache.Size),
		},
		PromptsDir: s.configStore.GetString(keyPromptsDir),
	}
}

// applyEnv overlays environment variables onto settings.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if token := s.getenv(envGitHubToken); token != "" {
		settings.GitHub.Token = token
	}

	// With no provider stored, the first cloud key found selects one.
	if settings.LLM.Provider == "" {
		for _, pk := range providerKeyEnv {
			if s.getenv(pk.env) != "" {
				settings.LLM.Provider = pk.provider
				break
			}
		}
		if settings.LLM.Provider != "" && settings.LLM.Model == "" {
			settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
		}
	}

	for _, pk := range providerKeyEnv {
		if pk.provider != settings.LLM.Provider {
			continue
		}
		if key := s.getenv(pk.env); key != "" {
			settings.LLM.APIKey = key
		}
	}

	if settings.LLM.Provider == domain.AIProviderOllama {
		if host := s.getenv(envOllamaHost); host != "" {
			settings.LLM.BaseURL = host
		}
	}
}

// LLMFor returns the LLM settings for a one-off provider or model choice.
// Stored credentials are kept only when provider is the stored provider;
// otherwise the key comes from the environment. An empty provider keeps the
// configured one and a non-empty model replaces the configured model.
func (s *SettingsService) LLMFor(provider domain.AIProvider, model string) domain.LLMSettings {
	settings := s.load()
	if provider != "" && provider != settings.LLM.Provider {
		settings.LLM = domain.LLMSettings{
			Provider: provider,
			Model:    domain.DefaultLLMModels()[provider],
		}
		if provider.IsLocal() {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	}
	s.applyEnv(settings)
	if model != "" {
		settings.LLM.Model = model
	}
	return settings.LLM
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyGitHubBaseURL, settings.GitHub.BaseURL},
		{keyGitHubMaxFiles, settings.GitHub.MaxFiles},
		{keyGitHubRate, settings.GitHub.RequestsPerSecond},
		{keyServerAddr, settings.Server.Addr},
		{keyCacheBackend, settings.Cache.Backend.String()},
		{keyCacheDir, settings.Cache.Dir},
		{keyCacheSize, settings.Cache.Size},
		{keyPromptsDir, settings.PromptsDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// The API key and token are only written when set.
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}
	if settings.GitHub.Token != "" {
		if err := s.configStore.Set(keyGitHubToken, settings.GitHub.Token); err != nil {
			return fmt.Errorf("save %s: %w", keyGitHubToken, err)
		}
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings := s.load()
	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetGitHubToken stores the GitHub token. An empty token clears it.
func (s *SettingsService) SetGitHubToken(token string) error {
	if token == "" {
		if err := s.configStore.Set(keyGitHubToken, ""); err != nil {
			return fmt.Errorf("clear %s: %w", keyGitHubToken, err)
		}
		return s.configStore.Save()
	}
	settings := s.load()
	settings.GitHub.Token = token
	return s.Save(settings)
}

// Validate checks that current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("LLM provider %s requires an API key", settings.LLM.Provider))
	}
	if settings.GitHub.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("github.max_files must be positive, got %d", settings.GitHub.MaxFiles))
	}
	if settings.GitHub.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("github.requests_per_second must be positive, got %g", settings.GitHub.RequestsPerSecond))
	}
	if !settings.Cache.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("unknown cache backend %q", settings.Cache.Backend))
	}
	if settings.Cache.Backend == domain.CacheBackendMemory && settings.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("cache.size must be positive, got %d", settings.Cache.Size))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
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

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
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

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(keyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
