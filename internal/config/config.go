// Package config loads the moodtune server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file
// (CONFIG_PATH, ./config.yaml or /etc/moodtune/config.yaml), then
// environment variables such as PORT, DB_PATH and SECRET_KEY.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/moodtune/internal/logging"
)

const minSecretKeyLength = 32

var placeholderSecrets = []string{
	"change_me",
	"changeme",
	"replace_with_strong_random_secret_key",
	"secret",
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Media    MediaConfig    `koanf:"media"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	Timezone string         `koanf:"tz"`
}

type ServerConfig struct {
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`
	BodyLimitMB int      `koanf:"body_limit_mb"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type MediaConfig struct {
	Root      string `koanf:"root"`
	URLPrefix string `koanf:"url_prefix"`
}

type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
	// TokenTTL of zero keeps session tokens until logout.
	TokenTTL time.Duration `koanf:"token_ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (cfg *Config) Addr() string {
	return fmt.Sprintf(":%d", cfg.Server.Port)
}

func (cfg *Config) BodyLimitBytes() int {
	return cfg.Server.BodyLimitMB * 1024 * 1024
}

func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (cfg *Config) Validate() error {
	var problems []string

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port must be between 1 and 65535, got %d", cfg.Server.Port))
	}
	if cfg.Server.BodyLimitMB < 1 {
		problems = append(problems, "server.body_limit_mb must be positive")
	}
	if strings.TrimSpace(cfg.Database.Path) == "" {
		problems = append(problems, "database.path is required")
	}
	if strings.TrimSpace(cfg.Media.Root) == "" {
		problems = append(problems, "media.root is required")
	}
	if !strings.HasPrefix(cfg.Media.URLPrefix, "/") {
		problems = append(problems, "media.url_prefix must start with /")
	}
	if err := validateSecretKey(cfg.Auth.SecretKey); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.Auth.TokenTTL < 0 {
		problems = append(problems, "auth.token_ttl must not be negative")
	}
	if !logging.ValidLevel(cfg.Log.Level) {
		problems = append(problems, fmt.Sprintf("log.level %q is not supported", cfg.Log.Level))
	}
	if format := strings.ToLower(cfg.Log.Format); format != "json" && format != "console" {
		problems = append(problems, fmt.Sprintf("log.format must be json or console, got %q", cfg.Log.Format))
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("tz %q is not a known location", cfg.Timezone))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func validateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("auth.secret_key is required (set SECRET_KEY)")
	}
	for _, placeholder := range placeholderSecrets {
		if strings.EqualFold(trimmed, placeholder) {
			return errors.New("auth.secret_key must not be a placeholder value")
		}
	}
	if len(trimmed) < minSecretKeyLength {
		return fmt.Errorf("auth.secret_key must be at least %d characters", minSecretKeyLength)
	}
	return nil
}
