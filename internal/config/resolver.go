package config

import (
	"fmt"
	"os"
)

// Environment variable names, the third precedence tier.
const (
	EnvProvider        = "KUBE_ASSISTANT_PROVIDER"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvOpenAIModel     = "OPENAI_MODEL"
	EnvAzureAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAzureDeployment = "AZURE_OPENAI_DEPLOYMENT"
	EnvAzureAPIVersion = "AZURE_OPENAI_API_VERSION"
)

// Env is a captured snapshot of the relevant environment variables, keyed by
// variable name. Resolve consumes a snapshot rather than reading the process
// environment so resolution stays a pure function over its inputs.
type Env map[string]string

// CaptureEnv snapshots the environment variables Resolve consults.
func CaptureEnv() Env {
	env := Env{}
	for _, key := range []string{
		EnvProvider,
		EnvOpenAIAPIKey,
		EnvOpenAIModel,
		EnvAzureAPIKey,
		EnvAzureEndpoint,
		EnvAzureDeployment,
		EnvAzureAPIVersion,
	} {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env
}

// Overrides carries CLI flag values, the highest precedence tier. Empty
// fields mean the flag was not provided.
type Overrides struct {
	Provider   string
	APIKey     string
	Model      string
	Endpoint   string
	Deployment string
	APIVersion string
}

// ApplyTo writes the override values into a file-shaped config so CLI
// supplied credentials persist for later invocations. The provider is
// resolved first so the key and model land under the right section.
func (o Overrides) ApplyTo(cfg *Config) {
	if o.Provider != "" {
		cfg.Provider = Provider(o.Provider)
	}
	provider := cfg.Provider
	if provider == "" {
		provider = DefaultProvider
	}
	switch provider {
	case ProviderAzure:
		if o.APIKey != "" {
			cfg.Azure.APIKey = o.APIKey
		}
		if o.Model != "" {
			cfg.Azure.Deployment = o.Model
		}
		if o.Endpoint != "" {
			cfg.Azure.Endpoint = o.Endpoint
		}
		if o.Deployment != "" {
			cfg.Azure.Deployment = o.Deployment
		}
		if o.APIVersion != "" {
			cfg.Azure.APIVersion = o.APIVersion
		}
	default:
		if o.APIKey != "" {
			cfg.OpenAI.APIKey = o.APIKey
		}
		if o.Model != "" {
			cfg.OpenAI.Model = o.Model
		}
	}
}

// MissingCredentialError reports a required field with no value at any tier.
// It carries a remediation hint naming the environment variable and config
// command that can supply the field.
type MissingCredentialError struct {
	Provider Provider
	Field    string
	Hint     string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing %s for provider %s (%s)", e.Field, e.Provider, e.Hint)
}

func missingCredential(provider Provider, field, envVar, setFlag string) error {
	return &MissingCredentialError{
		Provider: provider,
		Field:    field,
		Hint:     fmt.Sprintf("set %s or run 'kube-assistant config %s <value>'", envVar, setFlag),
	}
}

// Resolve merges the four tiers into the effective configuration. Each field
// is resolved independently: CLI flag > config file > environment > default.
// Only the selected provider's section is populated; required fields missing
// at every tier fail with a MissingCredentialError.
func Resolve(over Overrides, file Config, env Env) (Config, error) {
	provider := Provider(firstOf(over.Provider, string(file.Provider), env[EnvProvider], string(DefaultProvider)))
	if !provider.Valid() {
		return Config{}, fmt.Errorf("unknown provider %q (expected %q or %q)", provider, ProviderOpenAI, ProviderAzure)
	}

	cfg := Config{Provider: provider}

	switch provider {
	case ProviderOpenAI:
		cfg.OpenAI.APIKey = firstOf(over.APIKey, file.OpenAI.APIKey, env[EnvOpenAIAPIKey])
		cfg.OpenAI.Model = firstOf(over.Model, file.OpenAI.Model, env[EnvOpenAIModel], DefaultModel)
		if cfg.OpenAI.APIKey == "" {
			return Config{}, missingCredential(provider, "api key", EnvOpenAIAPIKey, "--set-api-key")
		}
	case ProviderAzure:
		cfg.Azure.APIKey = firstOf(over.APIKey, file.Azure.APIKey, env[EnvAzureAPIKey])
		cfg.Azure.Endpoint = firstOf(over.Endpoint, file.Azure.Endpoint, env[EnvAzureEndpoint])
		cfg.Azure.Deployment = firstOf(over.Deployment, over.Model, file.Azure.Deployment, env[EnvAzureDeployment])
		cfg.Azure.APIVersion = firstOf(over.APIVersion, file.Azure.APIVersion, env[EnvAzureAPIVersion], DefaultAzureAPIVersion)
		if cfg.Azure.APIKey == "" {
			return Config{}, missingCredential(provider, "api key", EnvAzureAPIKey, "--set-api-key")
		}
		if cfg.Azure.Endpoint == "" {
			return Config{}, missingCredential(provider, "endpoint", EnvAzureEndpoint, "--set-endpoint")
		}
		if cfg.Azure.Deployment == "" {
			return Config{}, missingCredential(provider, "deployment", EnvAzureDeployment, "--set-deployment")
		}
	}

	return cfg, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
