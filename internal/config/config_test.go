package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Feedback.Timeout != 10*time.Second {
		t.Errorf("expected 10s feedback timeout, got %v", cfg.Feedback.Timeout)
	}
	if cfg.Feedback.Fields.Comments != "entry.FORM_FIELD_ID_10" {
		t.Errorf("unexpected default comments field %q", cfg.Feedback.Fields.Comments)
	}
	if cfg.Catalog.DBPath != "" || cfg.Catalog.Path != "" {
		t.Errorf("expected built-in catalog by default, got %+v", cfg.Catalog)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
feedback:
  url: https://forms.example.com/formResponse
  timeout: 3s
  fields:
    rating: entry.111
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("DB_PATH", "/tmp/catalog.db")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("file should set addr, got %q", cfg.Server.Addr)
	}
	if cfg.Feedback.URL != "https://forms.example.com/formResponse" || cfg.Feedback.Timeout != 3*time.Second {
		t.Errorf("file feedback settings not applied: %+v", cfg.Feedback)
	}
	if cfg.Feedback.Fields.Rating != "entry.111" {
		t.Errorf("expected overridden rating field, got %q", cfg.Feedback.Fields.Rating)
	}
	if cfg.Feedback.Fields.Nickname != "entry.FORM_FIELD_ID_1" {
		t.Errorf("unset fields should keep defaults, got %q", cfg.Feedback.Fields.Nickname)
	}
	if cfg.Catalog.DBPath != "/tmp/catalog.db" {
		t.Errorf("DB_PATH not applied, got %q", cfg.Catalog.DBPath)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("env should override file log level, got %q", cfg.Log.Level)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	t.Setenv(ConfigPathEnvVar, missing)
	if _, err := Load(); err == nil {
		t.Error("expected an explicitly configured missing file to fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Feedback.Fields.Postcode = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected empty field key to fail")
	}

	cfg = defaultConfig()
	cfg.Server.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected empty addr to fail")
	}
}
