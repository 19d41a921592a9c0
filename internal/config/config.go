// Package config loads wordwise settings from a .env file, an optional
// config file and WORDWISE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/llm"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "WORDWISE"

// Config is the top-level configuration.
type Config struct {
	LLM     llm.Config     `mapstructure:"llm"`
	Article article.Config `mapstructure:"article"`
	Server  ServerConfig   `mapstructure:"server"`
	Log     LogConfig      `mapstructure:"log"`
	DB      DBConfig       `mapstructure:"db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// DBConfig locates the event log. An empty path means the default location.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LLM:     llm.DefaultConfig(),
		Article: article.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config. path is an optional YAML/TOML/JSON file; an empty
// path skips the file. Environment variables override file values, and
// well-known provider keys (OPENAI_API_KEY, ...) fill in when the selected
// provider has no key.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if !cfg.LLM.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			adoptKey(&cfg.LLM, found)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv loads path into the process environment. A missing file is
// not an error; existing variables win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// adoptKey switches cfg to the discovered provider and copies its key,
// keeping any configured models, retry and timeout settings.
func adoptKey(cfg *llm.Config, found llm.Config) {
	cfg.Provider = found.Provider
	switch found.Provider {
	case "openai":
		cfg.OpenAI.APIKey = found.OpenAI.APIKey
	case "anthropic":
		cfg.Anthropic.APIKey = found.Anthropic.APIKey
	case "gemini":
		cfg.Gemini.APIKey = found.Gemini.APIKey
	case "openrouter":
		cfg.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
}

// setDefaults registers every key so AutomaticEnv can see it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.anthropic.api_key", d.LLM.Anthropic.APIKey)
	v.SetDefault("llm.anthropic.model", d.LLM.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", d.LLM.OpenAI.APIKey)
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", d.LLM.OpenAI.BaseURL)
	v.SetDefault("llm.gemini.api_key", d.LLM.Gemini.APIKey)
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", d.LLM.OpenRouter.APIKey)
	v.SetDefault("llm.openrouter.model", d.LLM.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.LLM.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)
	v.SetDefault("llm.timeout", d.LLM.Timeout)

	v.SetDefault("article.user_agent", d.Article.UserAgent)
	v.SetDefault("article.timeout", d.Article.Timeout)
	v.SetDefault("article.max_bytes", d.Article.MaxBytes)
	v.SetDefault("article.title_selector", d.Article.TitleSelector)
	v.SetDefault("article.body_selector", d.Article.BodySelector)
	v.SetDefault("article.remove_selectors", d.Article.RemoveSelectors)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("db.path", d.DB.Path)
}
