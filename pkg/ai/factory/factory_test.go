package factory

import (
	"testing"

	"kidvibe-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByNameGemini(t *testing.T) {
	cfg := &config.AIConfig{GeminiAPIKey: "test-key"}

	provider, err := New("gemini", cfg)

	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestNewByNameGeminiWithoutKeyFails(t *testing.T) {
	cfg := &config.AIConfig{}

	provider, err := New("gemini", cfg)

	require.Error(t, err)
	assert.Nil(t, provider)
}

func TestNewByNameUnknownProvider(t *testing.T) {
	cfg := &config.AIConfig{}

	_, err := New("anthropic", cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewByNameNotImplementedVendors(t *testing.T) {
	cfg := &config.AIConfig{OpenAIAPIKey: "k", OllamaBaseURL: "http://localhost:11434"}

	for _, name := range []string{"openai", "ollama"} {
		_, err := New(name, cfg)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrProviderNotImplemented, name)
	}
}

func TestDefaultPolicyPicksFirstConfigured(t *testing.T) {
	cfg := &config.AIConfig{GeminiAPIKey: "k", OpenAIAPIKey: "k2"}

	provider, err := New("default", cfg)

	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestDefaultPolicyDoesNotSkipConfiguredButUnimplemented(t *testing.T) {
	cfg := &config.AIConfig{OpenAIAPIKey: "k"}

	_, err := New("default", cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderNotImplemented)
}

func TestDefaultPolicyFailsWhenNothingConfigured(t *testing.T) {
	cfg := &config.AIConfig{}

	_, err := New("", cfg)

	require.ErrorIs(t, err, ErrNoProviderConfigured)
}
