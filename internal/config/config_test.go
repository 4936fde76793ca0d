package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "PORT")
	unsetEnvWithCleanup(t, "VIDEO_POLL_INTERVAL_SECONDS")
	unsetEnvWithCleanup(t, "VIDEO_POLL_MAX_ATTEMPTS")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default server port 8080, got %q", cfg.ServerPort)
	}
	if cfg.VideoPollIntervalSeconds != 10 {
		t.Fatalf("expected default poll interval 10, got %d", cfg.VideoPollIntervalSeconds)
	}
	if cfg.VideoPollMaxAttempts != 90 {
		t.Fatalf("expected default poll attempt limit 90, got %d", cfg.VideoPollMaxAttempts)
	}
	if cfg.VideoResolution != "720p" {
		t.Fatalf("expected default resolution 720p, got %q", cfg.VideoResolution)
	}
}

func TestLoadConfig_APIKeyAlias(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "GEMINI_API_KEY")
	setEnvWithCleanup(t, "API_KEY", "alias-only-key")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "alias-only-key" {
		t.Fatalf("expected GeminiAPIKey from alias env var, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadConfig_NonPositivePollSettingsCoerced(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "VIDEO_POLL_INTERVAL_SECONDS", "0")
	setEnvWithCleanup(t, "VIDEO_POLL_MAX_ATTEMPTS", "-3")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.VideoPollIntervalSeconds != 10 {
		t.Fatalf("expected coerced poll interval 10, got %d", cfg.VideoPollIntervalSeconds)
	}
	if cfg.VideoPollMaxAttempts != 90 {
		t.Fatalf("expected coerced poll attempt limit 90, got %d", cfg.VideoPollMaxAttempts)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
