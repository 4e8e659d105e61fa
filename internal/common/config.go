// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the Folio client
type Config struct {
	Environment string        `toml:"environment"`
	API         APIConfig     `toml:"api"`
	Auth        AuthConfig    `toml:"auth"`
	Display     DisplayConfig `toml:"display"`
	Logging     LoggingConfig `toml:"logging"`
}

// APIConfig holds Folio user-management API configuration
type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AuthConfig holds credential configuration. Token takes precedence over
// TokenFile; both may be empty, in which case requests go out unauthenticated
// and the server answers 401.
type AuthConfig struct {
	Token     string `toml:"token"`
	TokenFile string `toml:"token_file"`
}

// DisplayConfig holds presentation configuration
type DisplayConfig struct {
	Currency string `toml:"currency"` // fallback currency code when the account has none
	Locale   string `toml:"locale"`   // BCP 47 tag for number/date formatting
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NoticeTTL is how long transient success notices stay visible.
const NoticeTTL = 3 * time.Second

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		API: APIConfig{
			BaseURL:   "https://api.folio.app",
			RateLimit: 5,
			Timeout:   "30s",
		},
		Auth: AuthConfig{
			TokenFile: ".folio/token",
		},
		Display: DisplayConfig{
			Currency: "USD",
			Locale:   "en",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateDisplay(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("FOLIO_API_BASE_URL"); url != "" {
		config.API.BaseURL = url
	}

	if rl := os.Getenv("FOLIO_API_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil && n > 0 {
			config.API.RateLimit = n
		}
	}

	if timeout := os.Getenv("FOLIO_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}

	if token := os.Getenv("FOLIO_TOKEN"); token != "" {
		config.Auth.Token = token
	}

	if path := os.Getenv("FOLIO_TOKEN_FILE"); path != "" {
		config.Auth.TokenFile = path
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if dc := os.Getenv("FOLIO_DISPLAY_CURRENCY"); dc != "" {
		config.Display.Currency = strings.ToUpper(dc)
	}

	if loc := os.Getenv("FOLIO_LOCALE"); loc != "" {
		config.Display.Locale = loc
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateDisplay normalizes display settings, falling back to defaults on
// values the formatter cannot use.
func validateDisplay(config *Config) {
	config.Display.Currency = strings.ToUpper(strings.TrimSpace(config.Display.Currency))
	if len(config.Display.Currency) != 3 {
		config.Display.Currency = "USD"
	}
	if strings.TrimSpace(config.Display.Locale) == "" {
		config.Display.Locale = "en"
	}
}
