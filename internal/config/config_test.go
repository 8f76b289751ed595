package config

import (
	"log/slog"
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	for _, env := range []string{
		"GOXLRD_DATA_DIR", "GOXLRD_HTTP_PORT", "GOXLRD_SOCKET_PATH", "GOXLRD_LOG_LEVEL",
	} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	os.Args = []string{"goxlrd"}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != defaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, defaultDataDir)
	}
	if cfg.HTTPPort != defaultHTTPPort {
		t.Errorf("HTTPPort = %d, want %d", cfg.HTTPPort, defaultHTTPPort)
	}
	if cfg.SocketPath != defaultSocketPath {
		t.Errorf("SocketPath = %q, want %q", cfg.SocketPath, defaultSocketPath)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.RespawnCooldown != defaultRespawnCooldown {
		t.Errorf("RespawnCooldown = %s, want %s", cfg.RespawnCooldown, defaultRespawnCooldown)
	}
}

func TestEnvVarOverride(t *testing.T) {
	os.Args = []string{"goxlrd"}
	t.Setenv("GOXLRD_HTTP_PORT", "9090")
	t.Setenv("GOXLRD_DATA_DIR", "/tmp/goxlrd-test")
	t.Setenv("GOXLRD_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.DataDir != "/tmp/goxlrd-test" {
		t.Errorf("DataDir = %q, want /tmp/goxlrd-test", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestCLIFlagsPrecedence(t *testing.T) {
	os.Args = []string{"goxlrd", "--http-port", "3000", "--log-level", "warn"}
	t.Setenv("GOXLRD_HTTP_PORT", "9090")
	t.Setenv("GOXLRD_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != 3000 {
		t.Errorf("HTTPPort = %d, want 3000 (CLI should override env)", cfg.HTTPPort)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (CLI should override env)", cfg.LogLevel)
	}
}

func TestValidateInvalidPort(t *testing.T) {
	os.Args = []string{"goxlrd", "--http-port", "99999"}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid port, got nil")
	}
}

func TestValidateInvalidLogLevel(t *testing.T) {
	os.Args = []string{"goxlrd", "--log-level", "verbose"}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
}

func TestValidateNonPositiveCooldown(t *testing.T) {
	os.Args = []string{"goxlrd", "--respawn-cooldown", "0s"}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive respawn-cooldown")
	}
}

func TestJWTSecretBytesGeneratesWhenEmpty(t *testing.T) {
	cfg := &Config{}
	key, err := cfg.JWTSecretBytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != 32 {
		t.Fatalf("generated key length = %d, want 32", len(key))
	}
	if cfg.JWTSecret == "" {
		t.Fatal("generated secret should be persisted back onto the config")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
