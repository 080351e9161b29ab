package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Addr != DefaultAddr {
		t.Fatalf("expected default addr %q, got %q", DefaultAddr, cfg.Addr)
	}
	if !cfg.AuthFailOpen {
		t.Fatal("expected auth_fail_open to default to true")
	}
	if cfg.ResumeUploadStrict {
		t.Fatal("expected resume_upload_strict to default to false")
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimitWindow() != 15*time.Minute {
		t.Fatalf("expected 100 req / 15 min default, got %d / %s",
			cfg.RateLimit.Requests, cfg.RateLimitWindow())
	}
}

func TestLoadTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cstsite.toml")
	content := `
addr = "127.0.0.1:8090"
db_path = "/tmp/test.db"
auth_fail_open = false
resume_upload_strict = true

[rate_limit]
requests = 50
window_minutes = 5

[smtp]
host = "smtp.example.com"
from_address = "noreply@example.com"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CSTSITE_CONFIG", path)
	t.Setenv("CSTSITE_JWT_SECRET", "test-secret-test-secret-test-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8090" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.AuthFailOpen {
		t.Fatal("expected auth_fail_open=false from file")
	}
	if !cfg.ResumeUploadStrict {
		t.Fatal("expected resume_upload_strict=true from file")
	}
	if cfg.RateLimit.Requests != 50 || cfg.RateLimitWindow() != 5*time.Minute {
		t.Fatalf("unexpected rate limit: %d / %s", cfg.RateLimit.Requests, cfg.RateLimitWindow())
	}
	if cfg.JWTSecret != "test-secret-test-secret-test-123" {
		t.Fatal("expected jwt secret from env")
	}
	if !cfg.MailConfigured() {
		t.Fatal("expected mail to be configured")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cstsite.toml")
	if err := os.WriteFile(path, []byte(`addr = ":9000"`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CSTSITE_CONFIG", path)
	t.Setenv("CSTSITE_ADDR", ":7000")
	t.Setenv("CSTSITE_AUTH_FAIL_OPEN", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("expected env addr to win, got %q", cfg.Addr)
	}
	if cfg.AuthFailOpen {
		t.Fatal("expected env to flip auth_fail_open")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CSTSITE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Fatalf("expected defaults, got addr %q", cfg.Addr)
	}
}
