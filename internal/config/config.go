// Package config reads service settings from the environment, loading a .env file first
// when one is present.
package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Require when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("empty GEMINI_API_KEY in environment")

const (
	DefaultModel = "gemini-2.0-flash"
	DefaultAddr  = ":8080"
)

// Config is the environment-derived configuration.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	Addr         string
	CORSOrigins  string
}

// Load reads .env files (missing files are ignored) and then the process environment.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load env file", "error", err)
	}
	return Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", DefaultModel),
		Addr:         getenv("ANALYZE_ADDR", DefaultAddr),
		CORSOrigins:  os.Getenv("CORS_ORIGINS"),
	}
}

// Require checks the settings needed to reach the analysis API.
func (c Config) Require() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
