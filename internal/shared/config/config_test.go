package config

import (
	goerrors "errors"
	"os"
	"testing"

	"telewatch/internal/shared/errors"
)

func TestLoad_MissingBotToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	if !goerrors.Is(err, errors.ErrMissingBotToken) {
		t.Fatalf("expected ErrMissingBotToken, got %v", err)
	}
}

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TelegramBotToken != "123:abc" {
		t.Fatalf("unexpected token: %q", cfg.TelegramBotToken)
	}
	if cfg.StoragePath != "./data" {
		t.Fatalf("unexpected storage path default: %q", cfg.StoragePath)
	}
	if cfg.HTTPPort != "8080" || !cfg.HTTPEnabled {
		t.Fatalf("unexpected http defaults: %q enabled=%v", cfg.HTTPPort, cfg.HTTPEnabled)
	}
	if cfg.ReconnectMaxAttempts != 8 || cfg.ShutdownGraceSeconds != 5 || cfg.RingSize != 256 {
		t.Fatalf("unexpected tuning defaults: %+v", cfg)
	}
	if cfg.AppEnv != AppEnvProduction {
		t.Fatalf("unexpected app env default: %v", cfg.AppEnv)
	}
}

func TestLoad_ConfigFileWithEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())

	yaml := []byte("telegram_bot_token: from-file\nstorage_path: /var/lib/telewatch\nring_size: 32\n")
	if err := os.WriteFile("config.yaml", yaml, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TelegramBotToken != "from-env" {
		t.Fatalf("env must override the file, got %q", cfg.TelegramBotToken)
	}
	if cfg.StoragePath != "/var/lib/telewatch" || cfg.RingSize != 32 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoad_UnknownAppEnvFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppEnv != AppEnvProduction {
		t.Fatalf("unknown app_env must fall back to production, got %v", cfg.AppEnv)
	}
}
