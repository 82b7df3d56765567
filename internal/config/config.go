// Package config loads provider keys and defaults from a .env file and the
// process environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config carries the keys and defaults the provider glue needs. The core
// engine never reads it; only agent/tool construction does.
type Config struct {
	OpenAIKey    string
	AnthropicKey string
	// Model is the default model name for new agents.
	Model string
	// LogLevel feeds internal/log.Config.Level.
	LogLevel string
}

// Load reads .env (a missing file is not an error) and then the process
// environment. Missing keys are reported only when a provider that needs
// them is constructed, via RequireOpenAI/RequireAnthropic.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:        os.Getenv("FLOWKIT_MODEL"),
		LogLevel:     os.Getenv("FLOWKIT_LOG_LEVEL"),
	}
}

// RequireOpenAI returns the OpenAI key or an error naming the variable.
func (c *Config) RequireOpenAI() (string, error) {
	if c.OpenAIKey == "" {
		return "", errors.New("OPENAI_API_KEY is not set")
	}
	return c.OpenAIKey, nil
}

// RequireAnthropic returns the Anthropic key or an error naming the variable.
func (c *Config) RequireAnthropic() (string, error) {
	if c.AnthropicKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY is not set")
	}
	return c.AnthropicKey, nil
}
