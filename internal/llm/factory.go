package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a delegate provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "openrouter":
		return NewOpenRouterProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - delegate disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown delegate provider: %s (supported: openai, openrouter, ollama)", config.Provider)
	}
}
