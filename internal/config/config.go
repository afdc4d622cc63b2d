package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"community/pkg/tz"
)

// ConfigPathEnvVar names an optional YAML file layered under the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

const minJWTSecretLength = 32

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	LLM      LLMConfig      `koanf:"llm"`
	Logging  LoggingConfig  `koanf:"logging"`
	I18n     I18nConfig     `koanf:"i18n"`
	Discord  DiscordConfig  `koanf:"discord"`
}

type ServerConfig struct {
	Addr               string        `koanf:"addr"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	RateLimitPerMinute int           `koanf:"rate_limit_per_minute"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string `koanf:"url"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`
}

type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

type LLMConfig struct {
	APIKey     string        `koanf:"api_key"`
	GroqAPIKey string        `koanf:"groq_api_key"`
	URL        string        `koanf:"url"`
	Model      string        `koanf:"model"`
	Timeout    time.Duration `koanf:"timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type I18nConfig struct {
	DefaultLocale   string `koanf:"default_locale"`
	DisplayTimezone string `koanf:"display_timezone"`
}

// DiscordConfig enables event announcements when Token is set.
type DiscordConfig struct {
	Token     string `koanf:"token"`
	ChannelID string `koanf:"channel_id"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			RateLimitPerMinute: 120,
			ShutdownTimeout:    15 * time.Second,
		},
		Database: DatabaseConfig{
			URL:            "postgres://localhost:5432/community?sslmode=disable",
			MigrateOnStart: true,
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
			BcryptCost: 12,
		},
		LLM: LLMConfig{
			URL:     "https://api.groq.com/openai/v1/chat/completions",
			Model:   "llama-3.3-70b-versatile",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		I18n: I18nConfig{
			DefaultLocale:   "en",
			DisplayTimezone: "UTC",
		},
	}
}

// Load reads .env (optional), then layers defaults, an optional YAML file
// and the environment, and validates the result.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI, etc.).
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}
	if err := splitList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envKeys = map[string]string{
	"http_addr":             "server.addr",
	"cors_origins":          "server.cors_origins",
	"rate_limit_per_minute": "server.rate_limit_per_minute",
	"shutdown_timeout":      "server.shutdown_timeout",
	"database_url":          "database.url",
	"migrate_on_start":      "database.migrate_on_start",
	"jwt_secret":            "auth.jwt_secret",
	"session_ttl":           "auth.session_ttl",
	"bcrypt_cost":           "auth.bcrypt_cost",
	"llm_api_key":           "llm.api_key",
	"groq_api_key":          "llm.groq_api_key",
	"llm_api_url":           "llm.url",
	"llm_model":             "llm.model",
	"llm_timeout":           "llm.timeout",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"default_locale":        "i18n.default_locale",
	"display_timezone":      "i18n.display_timezone",
	"discord_token":         "discord.token",
	"discord_channel_id":    "discord.channel_id",
}

// envTransformFunc maps a known environment variable to its config path.
// Unknown variables map to "" and are ignored.
func envTransformFunc(key string) string {
	return envKeys[strings.ToLower(key)]
}

// splitList turns a comma-separated string value at path into a slice.
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("config: set %s: %w", path, err)
	}
	return nil
}

// validate applies the configuration rules and fills derived values.
func (c *Config) validate() error {
	if len(strings.TrimSpace(c.Auth.JWTSecret)) < minJWTSecretLength {
		return fmt.Errorf("config: JWT_SECRET is required and must be at least %d characters", minJWTSecretLength)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}

	parsed, err := url.Parse(c.Database.URL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.Database.URL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.Database.URL)
	}

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = c.LLM.GroqAPIKey
	}
	if u, err := url.Parse(c.LLM.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid LLM_API_URL (%q)", c.LLM.URL)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	if _, err := tz.Load(c.I18n.DisplayTimezone); err != nil {
		return fmt.Errorf("config: invalid DISPLAY_TIMEZONE: %w", err)
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be positive")
	}

	if c.Discord.Token != "" {
		if strings.TrimSpace(c.Discord.ChannelID) == "" {
			return fmt.Errorf("config: DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
		}
		for _, r := range c.Discord.ChannelID {
			if r < '0' || r > '9' {
				return fmt.Errorf("config: DISCORD_CHANNEL_ID must be a Discord channel ID (digits only)")
			}
		}
	}
	return nil
}
