package config

import (
	"fmt"
	"strconv"
)

// LoggerConfig holds configuration for structured logging
type LoggerConfig struct {
	Level       string
	Format      string
	ServiceName string
	LogFile     string
	MaxSize     int
	MaxBackups  int
	MaxAge      int
	Compress    bool
}

// LoadLoggerConfig loads logging configuration from environment variables
func LoadLoggerConfig(getenv func(string) string) (LoggerConfig, error) {
	config := LoggerConfig{
		Level:       getenv("LOG_LEVEL"),
		Format:      getenv("LOG_FORMAT"),
		ServiceName: "shopcheck",
		LogFile:     getenv("LOG_FILE"),
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      7,
	}

	if config.Level == "" {
		config.Level = "info"
	}
	if config.Format == "" {
		config.Format = "console"
	}
	if config.Format != "console" && config.Format != "json" {
		return config, fmt.Errorf("LOG_FORMAT must be console or json, got %q", config.Format)
	}

	if v := getenv("LOG_MAX_SIZE_MB"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return config, fmt.Errorf("LOG_MAX_SIZE_MB must be a positive integer, got %q", v)
		}
		config.MaxSize = size
	}

	return config, nil
}
