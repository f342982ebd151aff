package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"NewsAgent/internal/domain"
)

const (
	defaultTimezone     = "UTC"
	configPathEnv       = "NEWSAGENT_CONFIG"
	logLevelEnv         = "LOG_LEVEL"
	newsAPIKeyEnv       = "NEWS_API_KEY"
	geminiAPIKeyEnv     = "GEMINI_API_KEY"
	openAIAPIKeyEnv     = "OPENAI_API_KEY"
	aiProviderEnv       = "AI_PROVIDER"
	aiModelEnv          = "AI_MODEL"
	headlinesProvEnv    = "HEADLINES_PROVIDER"
	serverAddrEnv       = "NEWSAGENT_ADDR"
	telegramTokenEnv    = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv   = "TELEGRAM_CHAT_ID"
	defaultGeminiModel  = "gemini-2.0-flash"
	defaultOpenAIModel  = "gpt-4o-mini"
	defaultOpenAIURL    = "https://api.openai.com/v1/chat/completions"
	defaultNewsAPIURL   = "https://newsapi.org/v2/top-headlines"
	defaultUserAgent    = "NewsAgent/1.0 (+https://github.com/newsagent)"
	defaultCacheEntries = 128
)

// Provider names accepted in configuration.
const (
	ProviderNewsAPI = "newsapi"
	ProviderRSS     = "rss"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderNone    = "none"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Headlines     HeadlinesConfig    `yaml:"headlines"`
	NewsAPI       NewsAPIConfig      `yaml:"newsapi"`
	Feeds         []FeedConfig       `yaml:"feeds"`
	AI            AIConfig           `yaml:"ai"`
	Extractor     ExtractorConfig    `yaml:"extractor"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Server        ServerConfig       `yaml:"server"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HeadlinesConfig picks the headline provider.
type HeadlinesConfig struct {
	Provider string `yaml:"provider"`
}

// NewsAPIConfig describes the news index service.
type NewsAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	Country  string `yaml:"country"`
	Language string `yaml:"language"`
}

// FeedConfig maps a category to an RSS or Atom feed.
type FeedConfig struct {
	Category string `yaml:"category"`
	URL      string `yaml:"url"`
}

// AIConfig defines how to contact the summarization model.
type AIConfig struct {
	Provider      string `yaml:"provider"`
	Endpoint      string `yaml:"endpoint"`
	Model         string `yaml:"model"`
	APIKey        string `yaml:"apiKey"`
	MaxInputChars int    `yaml:"maxInputChars"`
	Prompt        string `yaml:"prompt"`
}

// ExtractorConfig tunes page fetching and the content cache.
type ExtractorConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
	HostInterval time.Duration `yaml:"hostInterval"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	CacheSize    int           `yaml:"cacheSize"`
	MaxKeywords  int           `yaml:"maxKeywords"`
}

// PipelineConfig holds acquisition defaults.
type PipelineConfig struct {
	Category         string `yaml:"category"`
	TargetCount      int    `yaml:"targetCount"`
	MaxExtraAttempts int    `yaml:"maxExtraAttempts"`
	BatchBuffer      int    `yaml:"batchBuffer"`
	Style            string `yaml:"style"`
	MaxHashtags      int    `yaml:"maxHashtags"`
}

// SchedulerConfig defines when digests are produced.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	Categories     []string       `yaml:"categories"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both token and chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads YAML configuration from $NEWSAGENT_CONFIG (if present) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit file path; an empty path skips the file.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := defaultConfig()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyProviderDefaults()
	cfg.bindTimezone()

	return cfg
}

// Validate reports the first missing or inconsistent setting as a *domain.ConfigurationError.
func (c Config) Validate() error {
	switch c.Headlines.Provider {
	case ProviderNewsAPI:
		if strings.TrimSpace(c.NewsAPI.APIKey) == "" {
			return &domain.ConfigurationError{Field: "newsapi.apiKey", Reason: newsAPIKeyEnv + " is required"}
		}
	case ProviderRSS:
		if len(c.Feeds) == 0 {
			return &domain.ConfigurationError{Field: "feeds", Reason: "at least one feed is required for the rss provider"}
		}
	default:
		return &domain.ConfigurationError{Field: "headlines.provider", Reason: "unknown provider " + c.Headlines.Provider}
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.AI.APIKey) == "" {
			return &domain.ConfigurationError{Field: "ai.apiKey", Reason: geminiAPIKeyEnv + " is required"}
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.AI.APIKey) == "" {
			return &domain.ConfigurationError{Field: "ai.apiKey", Reason: openAIAPIKeyEnv + " is required"}
		}
	case ProviderNone:
	default:
		return &domain.ConfigurationError{Field: "ai.provider", Reason: "unknown provider " + c.AI.Provider}
	}

	if _, err := domain.ParseSummaryStyle(c.Pipeline.Style); err != nil {
		return &domain.ConfigurationError{Field: "pipeline.style", Reason: err.Error()}
	}
	if c.Pipeline.TargetCount < 0 || c.Pipeline.MaxExtraAttempts < 0 {
		return &domain.ConfigurationError{Field: "pipeline", Reason: "counts must not be negative"}
	}
	if c.Extractor.CacheSize <= 0 {
		return &domain.ConfigurationError{Field: "extractor.cacheSize", Reason: "must be positive"}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(headlinesProvEnv); v != "" {
		c.Headlines.Provider = v
	}

	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.NewsAPI.APIKey = v
	}

	if v := os.Getenv(aiProviderEnv); v != "" {
		c.AI.Provider = v
	}

	if v := os.Getenv(aiModelEnv); v != "" {
		c.AI.Model = v
	}

	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Headlines.Provider = strings.ToLower(strings.TrimSpace(c.Headlines.Provider))

	switch c.AI.Provider {
	case ProviderGemini:
		if v := os.Getenv(geminiAPIKeyEnv); v != "" {
			c.AI.APIKey = v
		}
	case ProviderOpenAI:
		if v := os.Getenv(openAIAPIKeyEnv); v != "" {
			c.AI.APIKey = v
		}
	}

	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) applyProviderDefaults() {
	if c.AI.Provider == ProviderOpenAI {
		if c.AI.Model == "" || c.AI.Model == defaultGeminiModel {
			c.AI.Model = defaultOpenAIModel
		}
		if c.AI.Endpoint == "" {
			c.AI.Endpoint = defaultOpenAIURL
		}
	}
	if c.AI.Provider == ProviderGemini && c.AI.Model == "" {
		c.AI.Model = defaultGeminiModel
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Headlines: HeadlinesConfig{Provider: ProviderNewsAPI},
		NewsAPI: NewsAPIConfig{
			Endpoint: defaultNewsAPIURL,
			Country:  "us",
			Language: "en",
		},
		Feeds: []FeedConfig{
			{Category: "business", URL: "https://feeds.bbci.co.uk/news/business/rss.xml"},
			{Category: "technology", URL: "https://feeds.bbci.co.uk/news/technology/rss.xml"},
			{Category: "science", URL: "https://feeds.bbci.co.uk/news/science_and_environment/rss.xml"},
			{Category: "health", URL: "https://feeds.bbci.co.uk/news/health/rss.xml"},
		},
		AI: AIConfig{
			Provider:      ProviderGemini,
			Model:         defaultGeminiModel,
			MaxInputChars: 16000,
		},
		Extractor: ExtractorConfig{
			Timeout:      20 * time.Second,
			UserAgent:    defaultUserAgent,
			HostInterval: time.Second,
			MaxBodyBytes: 5 << 20,
			CacheSize:    defaultCacheEntries,
			MaxKeywords:  domain.MaxKeywords,
		},
		Pipeline: PipelineConfig{
			Category:         "business",
			TargetCount:      5,
			MaxExtraAttempts: 10,
			BatchBuffer:      3,
			Style:            string(domain.StyleTikTok),
			MaxHashtags:      10,
		},
		Scheduler: SchedulerConfig{
			CronExpression: "0 6 * * *",
			Timezone:       defaultTimezone,
			Categories:     []string{"business", "technology"},
			location:       tz,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}
