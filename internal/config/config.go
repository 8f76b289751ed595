// Package config loads daemon runtime configuration from CLI flags and
// environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the daemon.
// Precedence: CLI flags > env vars > defaults.
type Config struct {
	DataDir          string
	HTTPPort         int
	HTTPBindAddress  string
	CORSOrigins      string
	LogLevel         string
	LogFormat        string
	SocketPath       string
	SocketPassphrase string // plaintext; hashed and persisted on startup, never stored as-is
	JWTSecret        string // hex-encoded 32-byte secret for admin HTTP auth (auto-generated if empty)
	RespawnCooldown  time.Duration
	PollInterval     time.Duration
	CommandTimeout   time.Duration
}

// defaults
const (
	defaultDataDir         = "./data"
	defaultHTTPPort        = 14564
	defaultHTTPBindAddress = "localhost"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultSocketPath      = "/tmp/goxlr.socket"
	defaultRespawnCooldown = 2 * time.Second
	defaultPollInterval    = 20 * time.Millisecond
	defaultCommandTimeout  = 1 * time.Second
)

// envPrefix is the prefix for all daemon environment variables.
const envPrefix = "GOXLRD_"

// Load parses configuration from CLI flags and environment variables.
// Precedence: CLI flags > env vars > defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("goxlrd", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "data-dir", defaultDataDir, "data directory for the device event journal")
	fs.IntVar(&cfg.HTTPPort, "http-port", defaultHTTPPort, "HTTP/WebSocket server listen port")
	fs.StringVar(&cfg.HTTPBindAddress, "http-bind-address", defaultHTTPBindAddress, "HTTP/WebSocket server bind address")
	fs.StringVar(&cfg.CORSOrigins, "cors-origins", "", "comma-separated list of allowed CORS origins (use * for all)")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "log output format (text, json)")
	fs.StringVar(&cfg.SocketPath, "socket-path", defaultSocketPath, "unix-domain socket path for the CLI control surface")
	fs.StringVar(&cfg.SocketPassphrase, "socket-passphrase", "", "optional control-socket passphrase, hashed and persisted on startup (never stored in plaintext); the control socket does not check it")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "hex-encoded 32-byte secret for admin HTTP auth (auto-generated if empty)")
	fs.DurationVar(&cfg.RespawnCooldown, "respawn-cooldown", defaultRespawnCooldown, "minimum time an errored device waits before respawn")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", defaultPollInterval, "device polling interval for the polled USB back-end")
	fs.DurationVar(&cfg.CommandTimeout, "command-timeout", defaultCommandTimeout, "timeout for a single vendor-control round trip")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	applyEnvOverrides(fs, cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides checks environment variables for any flag that was not
// explicitly provided on the command line. This preserves the precedence:
// CLI flags > env vars > defaults.
func applyEnvOverrides(fs *flag.FlagSet, cfg *Config) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	envMap := map[string]string{
		"data-dir":          envPrefix + "DATA_DIR",
		"http-port":         envPrefix + "HTTP_PORT",
		"http-bind-address": envPrefix + "HTTP_BIND_ADDRESS",
		"cors-origins":      envPrefix + "CORS_ORIGINS",
		"log-level":         envPrefix + "LOG_LEVEL",
		"log-format":        envPrefix + "LOG_FORMAT",
		"socket-path":       envPrefix + "SOCKET_PATH",
		"socket-passphrase": envPrefix + "SOCKET_PASSPHRASE",
		"jwt-secret":        envPrefix + "JWT_SECRET",
		"respawn-cooldown":  envPrefix + "RESPAWN_COOLDOWN",
		"poll-interval":     envPrefix + "POLL_INTERVAL",
		"command-timeout":   envPrefix + "COMMAND_TIMEOUT",
	}

	for flagName, envVar := range envMap {
		if set[flagName] {
			continue
		}
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			continue
		}
		switch flagName {
		case "data-dir":
			cfg.DataDir = val
		case "http-port":
			if v, err := strconv.Atoi(val); err == nil {
				cfg.HTTPPort = v
			}
		case "http-bind-address":
			cfg.HTTPBindAddress = val
		case "cors-origins":
			cfg.CORSOrigins = val
		case "log-level":
			cfg.LogLevel = val
		case "log-format":
			cfg.LogFormat = val
		case "socket-path":
			cfg.SocketPath = val
		case "socket-passphrase":
			cfg.SocketPassphrase = val
		case "jwt-secret":
			cfg.JWTSecret = val
		case "respawn-cooldown":
			if v, err := time.ParseDuration(val); err == nil {
				cfg.RespawnCooldown = v
			}
		case "poll-interval":
			if v, err := time.ParseDuration(val); err == nil {
				cfg.PollInterval = v
			}
		case "command-timeout":
			if v, err := time.ParseDuration(val); err == nil {
				cfg.CommandTimeout = v
			}
		}
	}
}

// validate checks that the config values are sane.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http-port must be between 1 and 65535, got %d", c.HTTPPort)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log-level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("log-format must be one of text, json; got %q", c.LogFormat)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)

	if c.SocketPath == "" {
		return fmt.Errorf("socket-path must not be empty")
	}
	if c.RespawnCooldown <= 0 {
		return fmt.Errorf("respawn-cooldown must be positive, got %s", c.RespawnCooldown)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive, got %s", c.PollInterval)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command-timeout must be positive, got %s", c.CommandTimeout)
	}

	return nil
}

// JWTSecretBytes returns the decoded 32-byte JWT signing secret.
// If no secret is configured, it generates a random 32-byte key and stores
// the hex-encoded value back in the config for the process lifetime.
func (c *Config) JWTSecretBytes() ([]byte, error) {
	if c.JWTSecret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating jwt secret: %w", err)
		}
		c.JWTSecret = hex.EncodeToString(key)
		slog.Warn("no jwt-secret configured, generated ephemeral key (tokens will not survive restart)")
		return key, nil
	}
	key, err := hex.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("decoding jwt secret: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("jwt secret must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// SlogHandler returns a slog.Handler configured with the appropriate format
// (text or json) and log level.
func (c *Config) SlogHandler(w *os.File) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SlogLevel returns the slog.Level corresponding to the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
