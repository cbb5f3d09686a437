package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STUDIO_POLL_INTERVAL", "STUDIO_POLL_TIMEOUT", "STUDIO_RECORD_TTL", "SSM_API_KEY_PARAM", "MEDIA_BUCKET_NAME"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != studio.DefaultPollInterval || cfg.PollTimeout != studio.DefaultPollTimeout {
		t.Errorf("poll = %v / %v", cfg.PollInterval, cfg.PollTimeout)
	}
	if cfg.RecordTTL != DefaultRecordTTL {
		t.Errorf("ttl = %v", cfg.RecordTTL)
	}
	if cfg.SSMKeyParam != "/ai-creative-studio/gemini-api-key" {
		t.Errorf("ssm param = %q", cfg.SSMKeyParam)
	}
	if cfg.MediaBucket != "" {
		t.Errorf("bucket = %q", cfg.MediaBucket)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STUDIO_POLL_INTERVAL", "2s")
	t.Setenv("STUDIO_POLL_TIMEOUT", "3m")
	t.Setenv("MEDIA_BUCKET_NAME", "media")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 2*time.Second || cfg.PollTimeout != 3*time.Minute {
		t.Errorf("poll = %v / %v", cfg.PollInterval, cfg.PollTimeout)
	}
	p := cfg.Poller()
	if p.Interval != 2*time.Second || p.Timeout != 3*time.Minute {
		t.Errorf("poller = %+v", p)
	}
	if cfg.MediaBucket != "media" {
		t.Errorf("bucket = %q", cfg.MediaBucket)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("STUDIO_POLL_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid duration")
	}
	t.Setenv("STUDIO_POLL_TIMEOUT", "-1m")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STUDIO_TEST_DOTENV=from-file\nSTUDIO_TEST_SET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDIO_TEST_DOTENV", "")
	os.Unsetenv("STUDIO_TEST_DOTENV")
	t.Setenv("STUDIO_TEST_SET", "from-env")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("STUDIO_TEST_DOTENV"); got != "from-file" {
		t.Errorf("STUDIO_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("STUDIO_TEST_SET"); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should not be an error: %v", err)
	}
}
