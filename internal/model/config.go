package model

import "time"

// Config is the complete subwatch configuration
type Config struct {
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls live page fetching
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ScanConfig bounds the page-scan pass
type ScanConfig struct {
	// MaxContentChars is the visible-text prefix the keyword scan sees
	MaxContentChars int `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	// MaxPriceTokens caps how many price-token signals one scan produces
	MaxPriceTokens int `yaml:"max_price_tokens" mapstructure:"max_price_tokens"`
}

// LLMConfig configures the remote delegate. Provider "" disables it.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig controls the delegate reply cache and the pending-draft slot
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
	PendingTTL time.Duration `yaml:"pending_ttl" mapstructure:"pending_ttl"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Subwatch/0.2 (+https://github.com/subwatchhq/subwatch)",
			MaxBodyBytes:      2_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Scan: ScanConfig{
			MaxContentChars: 5000,
			MaxPriceTokens:  5,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 500,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        15 * time.Minute,
			PendingTTL: 24 * time.Hour,
		},
	}
}
