// Package llm is the remote delegate adapter: when pattern parsing misses,
// the input text (plus an optional image) is sent to an external
// text-completion service and the reply is decoded into a subscription
// draft. The delegate is fallible by contract; every failure mode collapses
// into a single typed outcome.
package llm

import (
	"context"
	"fmt"

	"github.com/subwatchhq/subwatch/internal/model"
)

// Provider defines the interface for text-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one instruction-plus-text payload and returns the
	// raw reply text
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and
	// accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single instruction-plus-text payload
type CompletionRequest struct {
	// Prompt is the full instruction template around the user input
	Prompt string

	// ImageB64 is an optional base64 image for multimodal input
	ImageB64 string

	// Model overrides the configured model for this call
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Config holds delegate provider configuration
type Config struct {
	// Provider name: "openai", "openrouter", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (OpenRouter, Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 500,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

// BuildPrompt constructs the fixed instruction template around the literal
// input text. The field list matches the SubscriptionDraft shape; any reply
// that deviates from it is a delegate failure.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`Parse the following natural language text into structured subscription service data. Return JSON format with the following fields:
- service_name: Service name
- service_category: Service category (e.g., "Streaming", "Software", "Cloud", "Music", "Gaming", "Other")
- account: Account information
- monthly_cost: Monthly cost (number)
- payment_date: Next payment date (YYYY-MM-DD format)
- is_trial: Whether there is a trial period (true/false)
- trial_duration_days: Trial period duration in days

Notes:
1. If keywords like "free", "trial", "免费", "试用" are mentioned, set is_trial to true
2. If "first few months free" is mentioned, calculate trial_duration_days accordingly
3. Monthly cost should be the regular cost after trial period
4. If information is incomplete or cannot be parsed, use null for the respective fields

User input: %s

Return only JSON, no other explanation.`, text)
}

// TemplateDraft returns the all-null draft shape handed back when the
// delegate fails, so the caller can still render a manual-completion form.
func TemplateDraft() model.SubscriptionDraft {
	return model.SubscriptionDraft{}
}
