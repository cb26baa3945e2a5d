package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port uint

	LogLevel  string
	LogFormat string

	CSRFCookieName string
	StaticDir      string
}

// DefaultEnvFile is loaded when Load is given no files. Unlike files
// passed explicitly, it may be missing.
const DefaultEnvFile = ".env"

// Load reads configuration from the environment, after applying
// envFiles, or [DefaultEnvFile] when none are given.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
		}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	port, err := strconv.ParseUint(getEnv("PORT", "3000"), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("PORT must be a port number: %w", err)
	}

	config := &Config{
		Host:           getEnv("HOST", "localhost"),
		Port:           uint(port),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		CSRFCookieName: getEnv("CSRF_COOKIE_NAME", "csrftoken"),
		StaticDir:      getEnv("STATIC_DIR", "app/static/"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.CSRFCookieName == "" {
		return fmt.Errorf("CSRF_COOKIE_NAME is required")
	}
	return nil
}

// Logger builds the application logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
