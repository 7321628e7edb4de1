package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rezonia/uae-einvoice/internal/logger"
)

type Config struct {
	// HTTP server
	Address string

	// JSON dataset the in-memory repository is seeded from
	DataFile string

	// Attachment storage
	AttachmentDir string
	BaseURL       string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Address:       getEnv("EINVOICE_ADDRESS", ":8080"),
		DataFile:      getEnv("EINVOICE_DATA", ""),
		AttachmentDir: getEnv("EINVOICE_ATTACHMENT_DIR", "attachments"),
		BaseURL:       getEnv("EINVOICE_BASE_URL", "/private/files"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("EINVOICE_ADDRESS is required")
	}
	if strings.TrimSpace(c.AttachmentDir) == "" {
		return fmt.Errorf("EINVOICE_ATTACHMENT_DIR is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("EINVOICE_BASE_URL is not a valid URL: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
