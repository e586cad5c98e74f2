// Package config loads service configuration from an optional YAML
// file overlaid with NOTIFY_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "NOTIFY_"

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Log           LogConfig           `koanf:"log"`
	CORS          CORSConfig          `koanf:"cors"`
	Slack         SlackConfig         `koanf:"slack"`
	Notifications NotificationsConfig `koanf:"notifications"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// SlackConfig holds messaging platform credentials. The presence of
// BotToken and WebhookURL are the subsystem's only two feature flags:
// each transport is configured exactly when its credential is set, and
// the absence of both degrades to a no-transport dispatch result
// rather than an error.
type SlackConfig struct {
	BotToken   string        `koanf:"bot_token"`
	WebhookURL string        `koanf:"webhook_url" validate:"omitempty,url"`
	APIBaseURL string        `koanf:"api_base_url" validate:"omitempty,url"`
	APITimeout time.Duration `koanf:"api_timeout"`
}

// DirectChannelEnabled reports whether the direct-channel transport is
// configured.
func (c SlackConfig) DirectChannelEnabled() bool {
	return c.BotToken != ""
}

// WebhookEnabled reports whether the webhook transport is configured.
func (c SlackConfig) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// NotificationsConfig tunes delivery behavior.
type NotificationsConfig struct {
	PrimaryChannel    string        `koanf:"primary_channel"`
	FallbackChannels  []string      `koanf:"fallback_channels"`
	DirectBudget      time.Duration `koanf:"direct_budget"`
	WebhookBudget     time.Duration `koanf:"webhook_budget"`
	RedundantDelivery bool          `koanf:"redundant_delivery"`
	BotUsername       string        `koanf:"bot_username"`
	IconEmoji         string        `koanf:"icon_emoji"`
	PostRate          float64       `koanf:"post_rate" validate:"gte=0"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Slack: SlackConfig{
			APITimeout: 10 * time.Second,
		},
		Notifications: NotificationsConfig{
			PrimaryChannel:   "cargovortex-alerts",
			FallbackChannels: []string{"general", "random", "test"},
			DirectBudget:     10 * time.Second,
			WebhookBudget:    10 * time.Second,
			BotUsername:      "CargoVortex Bot",
			IconEmoji:        ":truck:",
			PostRate:         1,
		},
	}
}

// Load reads configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables. Environment keys map
// NOTIFY_SLACK__WEBHOOK_URL to slack.webhook_url: a double underscore
// separates nesting levels.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyToPath), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func envKeyToPath(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
