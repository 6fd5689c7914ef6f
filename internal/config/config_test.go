package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	// Missing file loads as the zero config.
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	saved := Config{
		Provider: ProviderOpenAI,
		OpenAI:   OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o"},
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(Config{Provider: ProviderOpenAI}))
	require.NoError(t, store.Clear())

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestFileStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestRedactKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "empty", key: "", expected: ""},
		{name: "short key fully masked", key: "abcd", expected: "***"},
		{name: "long key keeps last four", key: "sk-abcdef1234", expected: "***1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactKey(tt.key))
		})
	}
}

func TestRedactedDoesNotMutate(t *testing.T) {
	cfg := Config{
		OpenAI: OpenAIConfig{APIKey: "sk-abcdef1234"},
		Azure:  AzureConfig{APIKey: "az-abcdef5678"},
	}
	redacted := cfg.Redacted()

	assert.Equal(t, "***1234", redacted.OpenAI.APIKey)
	assert.Equal(t, "***5678", redacted.Azure.APIKey)
	assert.Equal(t, "sk-abcdef1234", cfg.OpenAI.APIKey)
}

func TestWithDefaults(t *testing.T) {
	t.Run("zero config gets all defaults", func(t *testing.T) {
		cfg := Config{}.WithDefaults()

		assert.Equal(t, DefaultProvider, cfg.Provider)
		assert.Equal(t, DefaultModel, cfg.OpenAI.Model)
		assert.Equal(t, DefaultAzureAPIVersion, cfg.Azure.APIVersion)
	})

	t.Run("set fields are kept", func(t *testing.T) {
		cfg := Config{
			Provider: ProviderAzure,
			OpenAI:   OpenAIConfig{Model: "gpt-4o-mini"},
			Azure:    AzureConfig{APIVersion: "2024-02-01"},
		}.WithDefaults()

		assert.Equal(t, ProviderAzure, cfg.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
		assert.Equal(t, "2024-02-01", cfg.Azure.APIVersion)
	})
}

func TestProviderValid(t *testing.T) {
	assert.True(t, ProviderOpenAI.Valid())
	assert.True(t, ProviderAzure.Valid())
	assert.False(t, Provider("").Valid())
	assert.False(t, Provider("anthropic").Valid())
}
