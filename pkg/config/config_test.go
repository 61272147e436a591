package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Upstream.BaseURL != "https://www.nemlig.com/webapi" {
		t.Fatalf("unexpected base URL: %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Upstream.RequestsPerSecond != 1 {
		t.Fatalf("expected 1 rps, got %v", cfg.Upstream.RequestsPerSecond)
	}
	if cfg.Upstream.Burst != 2 {
		t.Fatalf("expected burst 2, got %d", cfg.Upstream.Burst)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("redis should be disabled without a URL")
	}
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	t.Setenv("NEMLIG_API_URL", "https://example.test/webapi/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Upstream.BaseURL != "https://example.test/webapi" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Upstream.BaseURL)
	}
}

func TestHasCredentials(t *testing.T) {
	u := UpstreamConfig{Username: "user@example.test", Password: "hunter2"}
	if !u.HasCredentials() {
		t.Fatal("expected credentials to be recognized")
	}
	u.Password = "   "
	if u.HasCredentials() {
		t.Fatal("blank password should not count as credentials")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
