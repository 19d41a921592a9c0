package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures the LLM provider.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	// mock is the offline practice mode.
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter mock"`

	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds one Generate call including its retries.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// BaseURL points at an OpenAI-compatible server.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// RetryConfig controls the backoff between attempts.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier" validate:"gte=1"`
}

// DefaultConfig returns the defaults: OpenAI's gpt-4o-mini, as the tutor
// has always used, three attempts and a 30s deadline.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// keyVars lists the well-known key variables in discovery order.
var keyVars = []struct {
	provider string
	env      string
}{
	{"openai", "OPENAI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"gemini", "GEMINI_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// key returns a pointer to the API key field of the named provider, or nil.
func (c *Config) key(provider string) *string {
	switch provider {
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// HasKey reports whether the selected provider can be used. mock needs no
// key.
func (c Config) HasKey() bool {
	if c.Provider == "mock" {
		return true
	}
	k := c.key(c.Provider)
	return k != nil && *k != ""
}

// DiscoverConfig returns a default Config for the first provider whose
// well-known key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, kv := range keyVars {
		v := os.Getenv(kv.env)
		if v == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = kv.provider
		*cfg.key(kv.provider) = v
		return cfg, true
	}
	return Config{}, false
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	if c.key(c.Provider) == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.HasKey() {
		return fmt.Errorf("WORDWISE_LLM_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
