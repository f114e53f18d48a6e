// Package config loads and validates notifier configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissing indicates a required configuration value is absent for the
// requested mode. Detected before any network call is made.
var ErrMissing = errors.New("required configuration missing")

// Config captures all configuration knobs loaded via Viper. It is built
// once at the process boundary and passed explicitly into components;
// nothing reads ambient environment state afterward.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Gist     GistConfig     `mapstructure:"gist"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Render   RenderConfig   `mapstructure:"render"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig describes the pricing page to scrape.
type SourceConfig struct {
	URL               string        `mapstructure:"url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	ContainerSelector string        `mapstructure:"container_selector"`
}

// TelegramConfig configures the messaging transport.
type TelegramConfig struct {
	BotToken   string        `mapstructure:"bot_token"`
	ChatID     string        `mapstructure:"chat_id"`
	APIBase    string        `mapstructure:"api_base"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// GistConfig configures the remote snapshot store. When Token and ID are
// both present the gist backend is selected for the whole run; otherwise
// the local file backend is used.
type GistConfig struct {
	Token    string        `mapstructure:"token"`
	ID       string        `mapstructure:"id"`
	FileName string        `mapstructure:"file_name"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SnapshotConfig sets the local file paths for persisted and pending state.
type SnapshotConfig struct {
	LocalPath   string `mapstructure:"local_path"`
	PendingPath string `mapstructure:"pending_path"`
}

// RenderConfig controls the optional screenshot artifact.
type RenderConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Selector  string        `mapstructure:"selector"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional config file and the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SILVERBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindCredentialEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", "https://giabac.phuquygroup.vn/")
	v.SetDefault("source.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("source.timeout", 20*time.Second)
	v.SetDefault("source.container_selector", "#priceListContainer")

	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", 20*time.Second)
	v.SetDefault("telegram.retries", 3)
	v.SetDefault("telegram.retry_delay", 3*time.Second)

	v.SetDefault("gist.file_name", "silver_price_snapshot.txt")
	v.SetDefault("gist.api_base", "https://api.github.com")
	v.SetDefault("gist.timeout", 20*time.Second)

	v.SetDefault("snapshot.local_path", "last_silver_price.txt")
	v.SetDefault("snapshot.pending_path", "silver_price_pending.txt")

	v.SetDefault("render.enabled", false)
	v.SetDefault("render.selector", "#priceListContainer")
	v.SetDefault("render.timeout", 20*time.Second)

	v.SetDefault("logging.development", false)
}

// bindCredentialEnv wires the credential keys to their historical
// environment names. Each credential accepts two names; the first set
// one wins.
func bindCredentialEnv(v *viper.Viper) {
	// Errors only occur with zero env names, which never happens here.
	_ = v.BindEnv("telegram.bot_token", "SILVER_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "SILVER_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("gist.token", "GIST_TOKEN", "TOKEN_GIST")
	_ = v.BindEnv("gist.id", "GIST_ID")
}

// ValidateCompare enforces the configuration needed by the compare mode.
func (c Config) ValidateCompare() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		return fmt.Errorf("%w: source.url", ErrMissing)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be > 0")
	}
	if strings.TrimSpace(c.Snapshot.PendingPath) == "" {
		return fmt.Errorf("%w: snapshot.pending_path", ErrMissing)
	}
	return c.validateStore()
}

// ValidateNotify enforces the configuration needed by the notify mode.
func (c Config) ValidateNotify() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("%w: telegram bot token (SILVER_TELEGRAM_BOT_TOKEN)", ErrMissing)
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		return fmt.Errorf("%w: telegram chat id (SILVER_TELEGRAM_CHAT_ID)", ErrMissing)
	}
	if c.Telegram.Retries <= 0 {
		return fmt.Errorf("telegram.retries must be > 0")
	}
	if c.Render.Enabled && c.Render.Timeout <= 0 {
		return fmt.Errorf("render.timeout must be > 0 when rendering is enabled")
	}
	return c.validateStore()
}

// validateStore rejects a half-configured remote store: one of token/id
// without the other is a mistake, not a request for the local fallback.
func (c Config) validateStore() error {
	hasToken := strings.TrimSpace(c.Gist.Token) != ""
	hasID := strings.TrimSpace(c.Gist.ID) != ""
	switch {
	case hasToken && !hasID:
		return fmt.Errorf("%w: gist id (GIST_ID), a token is set without a gist", ErrMissing)
	case hasID && !hasToken:
		return fmt.Errorf("%w: gist token (GIST_TOKEN), a gist is set without a token", ErrMissing)
	}
	if !hasToken && strings.TrimSpace(c.Snapshot.LocalPath) == "" {
		return fmt.Errorf("%w: snapshot.local_path", ErrMissing)
	}
	return nil
}

// UseGist reports whether the remote snapshot backend is configured.
func (c Config) UseGist() bool {
	return strings.TrimSpace(c.Gist.Token) != "" && strings.TrimSpace(c.Gist.ID) != ""
}
