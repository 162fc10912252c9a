package config

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Answer    AnswerConfig    `yaml:"answer" mapstructure:"answer"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CrawlConfig configures the crawler.
type CrawlConfig struct {
	MaxPages        int     `yaml:"max_pages" mapstructure:"max_pages"`
	Concurrency     int     `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	PageTimeoutSecs int     `yaml:"page_timeout_secs" mapstructure:"page_timeout_secs"`
	UseBrowser      bool    `yaml:"use_browser" mapstructure:"use_browser"`
	CacheTTLHours   int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	RatePerSec      float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	UserAgent       string  `yaml:"user_agent" mapstructure:"user_agent"`
	FetchAttempts   int     `yaml:"fetch_attempts" mapstructure:"fetch_attempts"`
	FetchBackoffMs  int     `yaml:"fetch_backoff_ms" mapstructure:"fetch_backoff_ms"`
}

// RenderConfig configures the headless rendering engine.
type RenderConfig struct {
	Engine           string `yaml:"engine" mapstructure:"engine"`
	ChromePath       string `yaml:"chrome_path" mapstructure:"chrome_path"`
	NavTimeoutSecs   int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	HydrateMs        int    `yaml:"hydrate_ms" mapstructure:"hydrate_ms"`
	FailureThreshold int    `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int    `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnswerConfig configures the Answer Builder.
type AnswerConfig struct {
	MaxLength int `yaml:"max_length" mapstructure:"max_length"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Render engines.
const (
	EngineChrome = "chrome"
	EngineJina   = "jina"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRUST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("crawl.max_pages", 10)
	v.SetDefault("crawl.concurrency", 4)
	v.SetDefault("crawl.timeout_secs", 300)
	v.SetDefault("crawl.page_timeout_secs", 30)
	v.SetDefault("crawl.use_browser", false)
	v.SetDefault("crawl.cache_ttl_hours", 24)
	v.SetDefault("crawl.rate_per_sec", 5.0)
	v.SetDefault("crawl.user_agent", "")
	v.SetDefault("crawl.fetch_attempts", 2)
	v.SetDefault("crawl.fetch_backoff_ms", 500)
	v.SetDefault("render.engine", EngineChrome)
	v.SetDefault("render.chrome_path", "")
	v.SetDefault("render.nav_timeout_secs", 30)
	v.SetDefault("render.hydrate_ms", 3000)
	v.SetDefault("render.failure_threshold", 3)
	v.SetDefault("render.reset_timeout_secs", 60)
	v.SetDefault("jina.key", "")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("answer.max_length", 500)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "answer-trust.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks ranges and enumerated values.
func (c *Config) Validate() error {
	switch {
	case c.Crawl.MaxPages < 1:
		return eris.Errorf("config: crawl.max_pages must be >= 1, got %d", c.Crawl.MaxPages)
	case c.Crawl.Concurrency < 1:
		return eris.Errorf("config: crawl.concurrency must be >= 1, got %d", c.Crawl.Concurrency)
	case c.Crawl.TimeoutSecs < 1:
		return eris.Errorf("config: crawl.timeout_secs must be >= 1, got %d", c.Crawl.TimeoutSecs)
	case c.Crawl.PageTimeoutSecs < 1:
		return eris.Errorf("config: crawl.page_timeout_secs must be >= 1, got %d", c.Crawl.PageTimeoutSecs)
	case c.Crawl.CacheTTLHours < 0:
		return eris.Errorf("config: crawl.cache_ttl_hours must be >= 0, got %d", c.Crawl.CacheTTLHours)
	case c.Crawl.RatePerSec < 0:
		return eris.Errorf("config: crawl.rate_per_sec must be >= 0, got %g", c.Crawl.RatePerSec)
	case c.Crawl.FetchAttempts < 1:
		return eris.Errorf("config: crawl.fetch_attempts must be >= 1, got %d", c.Crawl.FetchAttempts)
	case c.Answer.MaxLength < 1:
		return eris.Errorf("config: answer.max_length must be >= 1, got %d", c.Answer.MaxLength)
	case c.Server.Port < 1 || c.Server.Port > 65535:
		return eris.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	if !slices.Contains([]string{EngineChrome, EngineJina}, c.Render.Engine) {
		return eris.Errorf("config: render.engine must be %q or %q, got %q", EngineChrome, EngineJina, c.Render.Engine)
	}
	if !slices.Contains([]string{"sqlite", "postgres"}, c.Store.Driver) {
		return eris.Errorf("config: store.driver must be sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required for postgres")
	}
	if c.Render.Engine == EngineJina && c.Crawl.UseBrowser && c.Jina.Key == "" {
		return eris.New("config: jina.key is required when rendering through jina")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
