package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bowline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
badge_dir: ./badges
storage:
  bucket: compliance-badges
  prefix: v1
  region: us-east-1
  s3_path_style: true
adapter:
  type: webhook
  url: https://ci.example.com/hooks/report
  timeout: 30s
  headers:
    Authorization: Bearer token
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BadgeDir != "./badges" {
		t.Errorf("badge_dir = %q", cfg.BadgeDir)
	}
	if cfg.Storage.Bucket != "compliance-badges" || !cfg.Storage.S3PathStyle {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Adapter.Type != "webhook" {
		t.Errorf("adapter type = %q", cfg.Adapter.Type)
	}
	if cfg.Adapter.Timeout.Duration != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer token" {
		t.Errorf("headers = %v", cfg.Adapter.Headers)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoad_InvalidAdapterType(t *testing.T) {
	path := writeConfig(t, "adapter:\n  type: carrier-pigeon\n  url: x\n")
	if _, err := Load(path); err == nil {
		t.Error("unknown adapter type should fail validation")
	}
}

func TestLoad_AdapterRequiresURL(t *testing.T) {
	path := writeConfig(t, "adapter:\n  type: redis\n")
	if _, err := Load(path); err == nil {
		t.Error("adapter without url should fail validation")
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("BADGE_BUCKET", "nightly-badges")
	path := writeConfig(t, "storage:\n  bucket: ${BADGE_BUCKET}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Bucket != "nightly-badges" {
		t.Errorf("bucket = %q", cfg.Storage.Bucket)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("SET_VAR", "value")
	os.Unsetenv("UNSET_VAR")

	tests := []struct {
		in   string
		want string
	}{
		{"${SET_VAR}", "value"},
		{"${UNSET_VAR}", ""},
		{"${UNSET_VAR:-fallback}", "fallback"},
		{"${SET_VAR:-fallback}", "value"},
		{"plain text", "plain text"},
		{"prefix-${SET_VAR}-suffix", "prefix-value-suffix"},
	}
	for _, tt := range tests {
		if got := ExpandEnv(tt.in); got != tt.want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDuration_Invalid(t *testing.T) {
	path := writeConfig(t, "adapter:\n  type: webhook\n  url: x\n  timeout: soon\n")
	if _, err := Load(path); err == nil {
		t.Error("unparseable duration should fail")
	}
}
