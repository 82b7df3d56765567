package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("FLOWKIT_MODEL", "gpt-4o-mini")
	t.Setenv("FLOWKIT_LOG_LEVEL", "debug")

	cfg := Load()
	require.Equal(t, "sk-test", cfg.OpenAIKey)
	require.Equal(t, "gpt-4o-mini", cfg.Model)
	require.Equal(t, "debug", cfg.LogLevel)

	key, err := cfg.RequireOpenAI()
	require.NoError(t, err)
	require.Equal(t, "sk-test", key)

	_, err = cfg.RequireAnthropic()
	require.Error(t, err)
}
