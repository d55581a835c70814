// Package config loads runtime configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the analyzer. Values act as defaults
// for the corresponding command-line flags; flags win when both are set.
type Config struct {
	InboundPath  string
	OutboundPath string
	OutputDir    string
	Format       string
	LogLevel     string
	MetricsAddr  string
	PushURL      string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		InboundPath:  getEnv("ABANDON_INBOUND", ""),
		OutboundPath: getEnv("ABANDON_OUTBOUND", ""),
		OutputDir:    getEnv("ABANDON_OUTPUT_DIR", "."),
		Format:       getEnv("ABANDON_FORMAT", "text"),
		LogLevel:     getEnv("ABANDON_LOG_LEVEL", "info"),
		MetricsAddr:  getEnv("ABANDON_METRICS_ADDR", ""),
		PushURL:      getEnv("ABANDON_PUSH_URL", ""),
	}
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
