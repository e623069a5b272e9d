// Package config reads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/supportkit/pathfinder/internal/logging"
)

const (
	DefaultPort            = "8080"
	DefaultModel           = "gemini-3-flash-preview"
	DefaultLanguage        = "Thai"
	DefaultSessionTTL      = 2 * time.Hour
	DefaultJournalCapacity = 1000
)

// ErrMissingAPIKey is returned by Validate when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required")

type Config struct {
	Port     string
	LogLevel string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// FlowFile overrides the embedded delivery flow when set.
	FlowFile string
	Language string

	// Sessions are kept in memory unless RedisAddr or SessionDir is set.
	// Redis wins when both are configured.
	SessionDir    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	JournalCapacity int
}

// Load reads the configuration. Variables already present in the environment
// take precedence over values from the .env files; missing files are ignored.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config: ignoring %s: %v\n", f, err)
		}
	}

	cfg := Config{
		Port:     envOr("PATHFINDER_PORT", DefaultPort),
		LogLevel: envOr("PATHFINDER_LOG_LEVEL", "info"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", DefaultModel),

		FlowFile: os.Getenv("PATHFINDER_FLOW_FILE"),
		Language: envOr("PATHFINDER_LANGUAGE", DefaultLanguage),

		SessionDir:    os.Getenv("PATHFINDER_SESSION_DIR"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		SessionTTL:    envDuration("SESSION_TTL", DefaultSessionTTL),

		JournalCapacity: envInt("JOURNAL_CAPACITY", DefaultJournalCapacity),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.JournalCapacity < 0 {
		cfg.JournalCapacity = DefaultJournalCapacity
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}

	return cfg
}

// Validate checks the settings required to serve traffic.
func (c Config) Validate() error {
	var errs []error
	if c.GeminiAPIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PATHFINDER_PORT must be numeric, got %q", c.Port))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("PATHFINDER_LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
