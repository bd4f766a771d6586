// Package config centralises configuration parsing for the health data server.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration values for the health data server.
// Everything the aggregation path needs (export location, window ceiling) is
// carried here explicitly; nothing reads ambient process state later on.
type Config struct {
	HTTPAddress     string
	DataDir         string        // Directory holding the exported health bundle.
	ExportFile      string        // Path of export.xml; defaults to DataDir/export.xml.
	MaxWindowDays   int           // Ceiling for the activity date window.
	AllowedOrigin   string        // CORS origin for the local frontend.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	cfg := Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8000"),
		DataDir:         getEnv("DATA_DIR", "appleHealthData"),
		MaxWindowDays:   getIntEnv("MAX_WINDOW_DAYS", 30),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "*"),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:     getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	cfg.ExportFile = getEnv("EXPORT_FILE", filepath.Join(cfg.DataDir, "export.xml"))
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
