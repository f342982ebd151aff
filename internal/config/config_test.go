package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, logLevelEnv, newsAPIKeyEnv, geminiAPIKeyEnv, openAIAPIKeyEnv,
		aiProviderEnv, aiModelEnv, headlinesProvEnv, serverAddrEnv, telegramTokenEnv, telegramChatIDEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, ProviderNewsAPI, cfg.Headlines.Provider)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 16000, cfg.AI.MaxInputChars)
	assert.Equal(t, 5, cfg.Pipeline.TargetCount)
	assert.Equal(t, 10, cfg.Pipeline.MaxExtraAttempts)
	assert.Equal(t, 3, cfg.Pipeline.BatchBuffer)
	assert.Equal(t, 128, cfg.Extractor.CacheSize)
	assert.Equal(t, "us", cfg.NewsAPI.Country)
	assert.Equal(t, "en", cfg.NewsAPI.Language)
	assert.Equal(t, time.UTC.String(), cfg.Scheduler.Location().String())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: warn
  format: json
pipeline:
  category: technology
  targetCount: 3
  style: standard
scheduler:
  timezone: Europe/Berlin
newsapi:
  country: gb
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(newsAPIKeyEnv, "news-key")
	t.Setenv(geminiAPIKeyEnv, "gemini-key")
	t.Setenv(logLevelEnv, "debug")

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "technology", cfg.Pipeline.Category)
	assert.Equal(t, 3, cfg.Pipeline.TargetCount)
	assert.Equal(t, 10, cfg.Pipeline.MaxExtraAttempts)
	assert.Equal(t, "gb", cfg.NewsAPI.Country)
	assert.Equal(t, "en", cfg.NewsAPI.Language)
	assert.Equal(t, "news-key", cfg.NewsAPI.APIKey)
	assert.Equal(t, "gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	require.NoError(t, cfg.Validate())
}

func TestLoadFileFallsBackOnBadYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [unterminated"), 0o600))

	cfg := LoadFile(path)

	assert.Equal(t, 5, cfg.Pipeline.TargetCount)
}

func TestOpenAIProviderDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(aiProviderEnv, "OpenAI")
	t.Setenv(openAIAPIKeyEnv, "sk-test")
	t.Setenv(geminiAPIKeyEnv, "ignored")

	cfg := Load()

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, defaultOpenAIModel, cfg.AI.Model)
	assert.Equal(t, defaultOpenAIURL, cfg.AI.Endpoint)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	valid := func() Config {
		cfg := Load()
		cfg.NewsAPI.APIKey = "news"
		cfg.AI.APIKey = "ai"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "missing news key", mutate: func(c *Config) { c.NewsAPI.APIKey = "" }, field: "newsapi.apiKey"},
		{name: "missing ai key", mutate: func(c *Config) { c.AI.APIKey = " " }, field: "ai.apiKey"},
		{name: "unknown ai provider", mutate: func(c *Config) { c.AI.Provider = "claude" }, field: "ai.provider"},
		{name: "unknown headlines provider", mutate: func(c *Config) { c.Headlines.Provider = "gdelt" }, field: "headlines.provider"},
		{name: "rss without feeds", mutate: func(c *Config) { c.Headlines.Provider = ProviderRSS; c.Feeds = nil }, field: "feeds"},
		{name: "bad style", mutate: func(c *Config) { c.Pipeline.Style = "haiku" }, field: "pipeline.style"},
		{name: "zero cache", mutate: func(c *Config) { c.Extractor.CacheSize = 0 }, field: "extractor.cacheSize"},
	}

	require.NoError(t, valid().Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()
			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected configuration error, got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}

	t.Run("ai disabled needs no key", func(t *testing.T) {
		cfg := valid()
		cfg.AI.Provider = ProviderNone
		cfg.AI.APIKey = ""
		require.NoError(t, cfg.Validate())
	})
}

func TestTelegramEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, TelegramConfig{BotToken: "x"}.Enabled())
	assert.True(t, TelegramConfig{BotToken: "x", ChatID: "1"}.Enabled())
}
