package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Menu     MenuConfig
	Refresh  RefreshConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	// Users maps each known user name to their shared login code.
	// Exact string match, no hashing. This is a convenience gate for a
	// small fixed group, not a security boundary.
	Users map[string]string

	// TokenSecret signs session tokens. Required.
	TokenSecret string

	// TokenTTLHours is how long a session token stays valid.
	TokenTTLHours int
}

type StoreConfig struct {
	DBPath string
}

type MenuConfig struct {
	Path string
}

type RefreshConfig struct {
	// IntervalSeconds is the minimum gap between store change probes
	// per session.
	IntervalSeconds int
}

// defaultUsers is the built-in user table, overridable via USER_CODES.
var defaultUsers = map[string]string{
	"Abbie":   "1111",
	"Michael": "2222",
	"Sam":     "3333",
	"Jonny":   "4444",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			Users:         getEnvAsUserMap("USER_CODES", defaultUsers),
			TokenSecret:   os.Getenv("TOKEN_SECRET"),
			TokenTTLHours: getEnvAsInt("TOKEN_TTL_HOURS", 24),
		},
		Store: StoreConfig{
			DBPath: getEnv("DB_PATH", "./data/orders.db"),
		},
		Menu: MenuConfig{
			Path: getEnv("MENU_PATH", "menu_items.json"),
		},
		Refresh: RefreshConfig{
			IntervalSeconds: getEnvAsInt("REFRESH_SECONDS", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.Users) == 0 {
		return fmt.Errorf("at least one user must be configured")
	}

	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}

	if c.Refresh.IntervalSeconds <= 0 {
		return fmt.Errorf("REFRESH_SECONDS must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsUserMap parses "Name:code,Name:code" pairs. Malformed pairs are
// skipped; an empty result falls back to the default table.
func getEnvAsUserMap(key string, defaultValue map[string]string) map[string]string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	users := make(map[string]string)
	for _, pair := range strings.Split(valueStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		users[parts[0]] = parts[1]
	}
	if len(users) == 0 {
		return defaultValue
	}
	return users
}
