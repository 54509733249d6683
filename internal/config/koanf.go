package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodtune/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

var envMappings = map[string]string{
	"port":             "server.port",
	"cors_origins":     "server.cors_origins",
	"body_limit_mb":    "server.body_limit_mb",
	"db_path":          "database.path",
	"media_root":       "media.root",
	"media_url_prefix": "media.url_prefix",
	"secret_key":       "auth.secret_key",
	"token_ttl":        "auth.token_ttl",
	"log_level":        "log.level",
	"log_format":       "log.format",
	"tz":               "tz",
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
			BodyLimitMB: 10,
		},
		Database: DatabaseConfig{
			Path: "data/moodtune.db",
		},
		Media: MediaConfig{
			Root:      "data/media",
			URLPrefix: "/media",
		},
		Auth: AuthConfig{
			TokenTTL: 0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Timezone: "UTC",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process list values: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processSliceFields splits comma-separated env values into lists.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps known environment variables onto config paths and
// drops everything else.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
