package factory

import (
	"errors"
	"fmt"

	"kidvibe-be/internal/config"
	"kidvibe-be/pkg/ai"
	"kidvibe-be/pkg/ai/gemini"
)

var (
	// ErrProviderNotImplemented marks vendors that are registered but have
	// no working client yet.
	ErrProviderNotImplemented = errors.New("provider not implemented")

	// ErrNoProviderConfigured is returned by default resolution when no
	// vendor has credentials.
	ErrNoProviderConfigured = errors.New("no text-generation provider configured")
)

// builder constructs a provider from configuration. configured reports
// whether the vendor has the credentials it needs, which drives default
// resolution order.
type builder struct {
	configured func(cfg *config.AIConfig) bool
	build      func(cfg *config.AIConfig) (ai.Provider, error)
}

var registry = map[string]builder{
	"gemini": {
		configured: func(cfg *config.AIConfig) bool { return cfg.GeminiAPIKey != "" },
		build: func(cfg *config.AIConfig) (ai.Provider, error) {
			backend, err := gemini.NewBackend(cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, err
			}
			return ai.NewAssistant(backend), nil
		},
	},
	"openai": {
		configured: func(cfg *config.AIConfig) bool { return cfg.OpenAIAPIKey != "" },
		build: func(cfg *config.AIConfig) (ai.Provider, error) {
			return nil, fmt.Errorf("openai: %w", ErrProviderNotImplemented)
		},
	},
	"ollama": {
		configured: func(cfg *config.AIConfig) bool { return cfg.OllamaBaseURL != "" },
		build: func(cfg *config.AIConfig) (ai.Provider, error) {
			return nil, fmt.Errorf("ollama: %w", ErrProviderNotImplemented)
		},
	},
}

// defaultOrder is the priority used when the provider name is "default"
// or empty. The first vendor with credentials wins; a configured vendor
// whose client is not implemented fails resolution rather than being
// skipped.
var defaultOrder = []string{"gemini", "openai", "ollama"}

// New resolves a provider by name. "default" (or "") applies the
// first-configured policy.
func New(name string, cfg *config.AIConfig) (ai.Provider, error) {
	if name == "" || name == "default" {
		return byDefaultPolicy(cfg)
	}

	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return b.build(cfg)
}

func byDefaultPolicy(cfg *config.AIConfig) (ai.Provider, error) {
	for _, name := range defaultOrder {
		b := registry[name]
		if b.configured(cfg) {
			return b.build(cfg)
		}
	}
	return nil, ErrNoProviderConfigured
}
