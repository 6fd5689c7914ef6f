package config

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		over     Overrides
		file     Config
		env      Env
		expected string
	}{
		{
			name:     "flag beats file, env and default",
			over:     Overrides{Model: "from-flag"},
			file:     Config{OpenAI: OpenAIConfig{Model: "from-file"}},
			env:      Env{EnvOpenAIModel: "from-env"},
			expected: "from-flag",
		},
		{
			name:     "file beats env and default",
			file:     Config{OpenAI: OpenAIConfig{Model: "from-file"}},
			env:      Env{EnvOpenAIModel: "from-env"},
			expected: "from-file",
		},
		{
			name:     "env beats default",
			env:      Env{EnvOpenAIModel: "from-env"},
			expected: "from-env",
		},
		{
			name:     "default when no tier supplies the field",
			expected: DefaultModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Key comes from somewhere in every case so resolution succeeds.
			if tt.over.APIKey == "" && tt.file.OpenAI.APIKey == "" {
				tt.env = mergeEnv(tt.env, Env{EnvOpenAIAPIKey: "sk-test"})
			}
			cfg, err := Resolve(tt.over, tt.file, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.OpenAI.Model)
		})
	}
}

func TestResolveFieldsAreIndependent(t *testing.T) {
	// The key from the file and the model from the environment must combine;
	// precedence applies per field, never per tier.
	cfg, err := Resolve(
		Overrides{},
		Config{OpenAI: OpenAIConfig{APIKey: "sk-file"}},
		Env{EnvOpenAIModel: "gpt-4o-mini"},
	)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestResolveEnvOnlyOpenAI(t *testing.T) {
	cfg, err := Resolve(Overrides{}, Config{}, Env{EnvOpenAIAPIKey: "sk-env"})
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, DefaultModel, cfg.OpenAI.Model)
	// The azure section stays untouched when openai is selected.
	assert.Equal(t, AzureConfig{}, cfg.Azure)
}

func TestResolveMissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		over  Overrides
		file  Config
		env   Env
		field string
	}{
		{
			name:  "openai without api key",
			field: "api key",
		},
		{
			name:  "azure without api key",
			over:  Overrides{Provider: "azure", Endpoint: "https://example.openai.azure.com", Deployment: "gpt4"},
			field: "api key",
		},
		{
			name:  "azure without endpoint",
			over:  Overrides{Provider: "azure", APIKey: "az-key", Deployment: "gpt4"},
			field: "endpoint",
		},
		{
			name:  "azure without deployment",
			over:  Overrides{Provider: "azure", APIKey: "az-key", Endpoint: "https://example.openai.azure.com"},
			field: "deployment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.over, tt.file, tt.env)
			var missing *MissingCredentialError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
			assert.NotEmpty(t, missing.Hint)
		})
	}
}

func TestResolveAzure(t *testing.T) {
	cfg, err := Resolve(
		Overrides{},
		Config{Provider: ProviderAzure, Azure: AzureConfig{
			APIKey:     "az-key",
			Endpoint:   "https://example.openai.azure.com",
			Deployment: "gpt4-prod",
		}},
		Env{},
	)
	require.NoError(t, err)
	assert.Equal(t, ProviderAzure, cfg.Provider)
	assert.Equal(t, DefaultAzureAPIVersion, cfg.Azure.APIVersion)
	assert.Equal(t, "gpt4-prod", cfg.ModelID())
	assert.Equal(t, OpenAIConfig{}, cfg.OpenAI)
}

func TestResolveUnknownProvider(t *testing.T) {
	_, err := Resolve(Overrides{Provider: "anthropic"}, Config{}, Env{})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestApplyToPersistsCLIValues(t *testing.T) {
	var cfg Config
	Overrides{Provider: "azure", APIKey: "az-key", Endpoint: "https://e.example", Deployment: "gpt4"}.ApplyTo(&cfg)

	assert.Equal(t, ProviderAzure, cfg.Provider)
	assert.Equal(t, "az-key", cfg.Azure.APIKey)
	assert.Equal(t, "https://e.example", cfg.Azure.Endpoint)
	assert.Equal(t, "gpt4", cfg.Azure.Deployment)
	// The openai section is untouched.
	assert.Equal(t, OpenAIConfig{}, cfg.OpenAI)

	var openaiCfg Config
	Overrides{APIKey: "sk-new", Model: "gpt-4o-mini"}.ApplyTo(&openaiCfg)
	assert.Equal(t, "sk-new", openaiCfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", openaiCfg.OpenAI.Model)
}

// TestResolvePrecedenceRandomized draws random combinations of which tiers
// supply each Azure field and checks that the highest present tier always
// wins, falling to the default or a missing-credential failure when no tier
// supplies a field. The seed is fixed so failures reproduce.
func TestResolvePrecedenceRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(20260830))

	type presence struct{ flag, file, env bool }
	roll := func() presence {
		return presence{flag: rng.Intn(2) == 1, file: rng.Intn(2) == 1, env: rng.Intn(2) == 1}
	}
	want := func(p presence, field string) string {
		switch {
		case p.flag:
			return "flag-" + field
		case p.file:
			return "file-" + field
		case p.env:
			return "env-" + field
		default:
			return ""
		}
	}

	for i := 0; i < 250; i++ {
		key, endpoint, deployment, version := roll(), roll(), roll(), roll()

		over := Overrides{Provider: "azure"}
		var file Config
		env := Env{}

		if key.flag {
			over.APIKey = "flag-key"
		}
		if key.file {
			file.Azure.APIKey = "file-key"
		}
		if key.env {
			env[EnvAzureAPIKey] = "env-key"
		}
		if endpoint.flag {
			over.Endpoint = "flag-endpoint"
		}
		if endpoint.file {
			file.Azure.Endpoint = "file-endpoint"
		}
		if endpoint.env {
			env[EnvAzureEndpoint] = "env-endpoint"
		}
		if deployment.flag {
			over.Deployment = "flag-deployment"
		}
		if deployment.file {
			file.Azure.Deployment = "file-deployment"
		}
		if deployment.env {
			env[EnvAzureDeployment] = "env-deployment"
		}
		if version.flag {
			over.APIVersion = "flag-version"
		}
		if version.file {
			file.Azure.APIVersion = "file-version"
		}
		if version.env {
			env[EnvAzureAPIVersion] = "env-version"
		}

		cfg, err := Resolve(over, file, env)

		// Required fields are checked in a fixed order: key, endpoint,
		// deployment. The first one no tier supplies decides the failure.
		expectMissing := ""
		switch {
		case want(key, "key") == "":
			expectMissing = "api key"
		case want(endpoint, "endpoint") == "":
			expectMissing = "endpoint"
		case want(deployment, "deployment") == "":
			expectMissing = "deployment"
		}

		if expectMissing != "" {
			var missing *MissingCredentialError
			require.ErrorAs(t, err, &missing, "combination %d", i)
			assert.Equal(t, expectMissing, missing.Field, "combination %d", i)
			continue
		}

		require.NoError(t, err, "combination %d", i)
		assert.Equal(t, want(key, "key"), cfg.Azure.APIKey, "combination %d", i)
		assert.Equal(t, want(endpoint, "endpoint"), cfg.Azure.Endpoint, "combination %d", i)
		assert.Equal(t, want(deployment, "deployment"), cfg.Azure.Deployment, "combination %d", i)
		expectedVersion := want(version, "version")
		if expectedVersion == "" {
			expectedVersion = DefaultAzureAPIVersion
		}
		assert.Equal(t, expectedVersion, cfg.Azure.APIVersion, "combination %d", i)
	}
}

func mergeEnv(envs ...Env) Env {
	out := Env{}
	for _, env := range envs {
		for k, v := range env {
			out[k] = v
		}
	}
	return out
}
