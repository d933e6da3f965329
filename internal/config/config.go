package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"mspro-labs/bean-thinking/internal/feedback"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath is read when CONFIG_PATH is unset. It may be absent.
const DefaultConfigPath = "config.yaml"

// AppConfig holds everything the commands need.
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Feedback FeedbackConfig `koanf:"feedback"`
	Session  SessionConfig  `koanf:"session"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type CatalogConfig struct {
	Path   string `koanf:"path"` // YAML catalog file
	DBPath string `koanf:"db"`   // sqlite catalog, takes precedence over Path
}

type FeedbackConfig struct {
	URL       string          `koanf:"url"`
	Timeout   time.Duration   `koanf:"timeout"`
	RateLimit int             `koanf:"rate_limit"` // submissions per IP per minute
	Fields    feedback.Fields `koanf:"fields"`
}

type SessionConfig struct {
	CookieName string `koanf:"cookie_name"`
	Secure     bool   `koanf:"secure"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Feedback: FeedbackConfig{
			URL:       "https://docs.google.com/forms/d/e/FORM_ID/formResponse",
			Timeout:   10 * time.Second,
			RateLimit: 10,
			Fields:    feedback.DefaultFields(),
		},
		Session: SessionConfig{CookieName: "bean_session"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// envKeys maps environment variables onto config paths. DB_PATH and
// CONFIG_PATH keep their historical names.
var envKeys = map[string]string{
	"db_path":               "catalog.db",
	"catalog_path":          "catalog.path",
	"listen_addr":           "server.addr",
	"feedback_url":          "feedback.url",
	"feedback_timeout":      "feedback.timeout",
	"feedback_rate_limit":   "feedback.rate_limit",
	"session_cookie_name":   "session.cookie_name",
	"session_cookie_secure": "session.secure",
	"log_level":             "log.level",
	"log_format":            "log.format",
}

func envTransform(key string) string {
	// Unmapped variables map to "" and are skipped.
	return envKeys[strings.ToLower(key)]
}

// Load builds the configuration from defaults, then the YAML file at
// CONFIG_PATH (or config.yaml) if it exists, then environment variables.
func Load() (AppConfig, error) {
	path := os.Getenv(ConfigPathEnvVar)
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path. A missing file is
// only an error when the path was set explicitly through CONFIG_PATH.
func LoadFrom(path string) (AppConfig, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return AppConfig{}, fmt.Errorf("failed to load config file at '%s': %w", path, err)
			}
		} else if os.Getenv(ConfigPathEnvVar) != "" {
			return AppConfig{}, fmt.Errorf("failed to read config file at '%s': %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c AppConfig) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Feedback.Timeout < 0 {
		return fmt.Errorf("feedback.timeout must not be negative")
	}
	if c.Feedback.RateLimit < 0 {
		return fmt.Errorf("feedback.rate_limit must not be negative")
	}
	f := c.Feedback.Fields
	for name, key := range map[string]string{
		"nickname": f.Nickname, "session_id": f.SessionID, "timestamp": f.Timestamp,
		"flavours": f.Flavours, "brew_style": f.BrewStyle, "adventure_level": f.AdventureLevel,
		"postcode": f.Postcode, "matched_names": f.MatchedNames, "rating": f.Rating, "comments": f.Comments,
	} {
		if key == "" {
			return fmt.Errorf("feedback.fields.%s must not be empty", name)
		}
	}
	return nil
}
