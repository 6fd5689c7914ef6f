package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Provider identifies the language-model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderAzure  Provider = "azure"
)

// Valid reports whether the provider names a supported backend.
func (p Provider) Valid() bool {
	return p == ProviderOpenAI || p == ProviderAzure
}

// Compiled-in defaults, the lowest precedence tier.
const (
	DefaultModel           = "gpt-4o"
	DefaultAzureAPIVersion = "2023-05-15"
)

// DefaultProvider is used when no tier selects a provider.
const DefaultProvider = ProviderOpenAI

// OpenAIConfig holds settings for the OpenAI provider.
type OpenAIConfig struct {
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model,omitempty"`
}

// AzureConfig holds settings for the Azure OpenAI provider.
type AzureConfig struct {
	APIKey     string `json:"api_key,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Deployment string `json:"deployment,omitempty"`
	APIVersion string `json:"api_version,omitempty"`
}

// Config is the effective settings object. It doubles as the on-disk schema
// of the per-user config file.
type Config struct {
	Provider Provider     `json:"provider,omitempty"`
	OpenAI   OpenAIConfig `json:"openai,omitempty"`
	Azure    AzureConfig  `json:"azure,omitempty"`
}

// WithDefaults returns a copy with the default provider, model and Azure API
// version filled into unset fields. Used for display so a fresh install shows
// what would take effect rather than an empty document.
func (c Config) WithDefaults() Config {
	out := c
	if out.Provider == "" {
		out.Provider = DefaultProvider
	}
	if out.OpenAI.Model == "" {
		out.OpenAI.Model = DefaultModel
	}
	if out.Azure.APIVersion == "" {
		out.Azure.APIVersion = DefaultAzureAPIVersion
	}
	return out
}

// ModelID returns the model name (openai) or deployment name (azure) the
// selected provider will complete with.
func (c Config) ModelID() string {
	if c.Provider == ProviderAzure {
		return c.Azure.Deployment
	}
	return c.OpenAI.Model
}

// Redacted returns a copy safe for display: API keys are masked down to their
// last four characters.
func (c Config) Redacted() Config {
	out := c
	out.OpenAI.APIKey = RedactKey(c.OpenAI.APIKey)
	out.Azure.APIKey = RedactKey(c.Azure.APIKey)
	return out
}

// RedactKey masks an API key for display, keeping only the last four
// characters as an identification aid.
func RedactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "***"
	}
	return "***" + key[len(key)-4:]
}

// DefaultPath returns the per-user config file location,
// ~/.kube-assistant/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".kube-assistant", "config.json"), nil
}

// FileStore loads and saves the config file. A missing file is not an error;
// it loads as the zero Config.
type FileStore struct {
	path string
}

// NewFileStore returns a store over the given path, or the default per-user
// path when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the file location backing this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the config file. A missing file yields the zero Config.
func (s *FileStore) Load() (Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", s.path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", s.path, err)
	}
	return cfg, nil
}

// Save writes the config file, creating the parent directory if needed.
// The file holds credentials, so permissions are restricted to the owner.
func (s *FileStore) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the config file. Clearing an absent file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file %s: %w", s.path, err)
	}
	return nil
}
