package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TVDB_FETCH_TVDB_API_KEY
const EnvPrefix = "TVDB_FETCH"

const placeholderAPIKey = "your-api-key-here"

// Load loads the configuration from file and environment.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tvdb-fetch"))
		}

		// Check /etc
		v.AddConfigPath("/etc/tvdb-fetch/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TVDB defaults
	v.SetDefault("tvdb.url", "https://api.thetvdb.com")
	v.SetDefault("tvdb.api_key", "")
	v.SetDefault("tvdb.timeout", 30*time.Second)

	// Show defaults
	v.SetDefault("shows.names", []string{})
	v.SetDefault("shows.ignore", []string{})
	v.SetDefault("shows.show_fields", []string{})
	v.SetDefault("shows.episode_fields", []string{})
	v.SetDefault("shows.concurrency", 1)
	v.SetDefault("shows.batch_name_echo", false)

	v.SetDefault("filter.default_expression", "")

	// Output defaults
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TVDB.URL == "" {
		return fmt.Errorf("tvdb.url is required")
	}

	if cfg.TVDB.APIKey == "" || cfg.TVDB.APIKey == placeholderAPIKey {
		return fmt.Errorf("tvdb.api_key must be set to a valid API key")
	}

	if cfg.TVDB.Timeout <= 0 {
		return fmt.Errorf("tvdb.timeout must be positive, got %s", cfg.TVDB.Timeout)
	}

	if cfg.Shows.Concurrency < 1 {
		return fmt.Errorf("shows.concurrency must be at least 1, got %d", cfg.Shows.Concurrency)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Output.Format != "json" && cfg.Output.Format != "text" {
		return fmt.Errorf("invalid output.format: %s (must be 'json' or 'text')", cfg.Output.Format)
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return fmt.Errorf("filter preset '%s' has an empty expression", name)
		}
	}

	return nil
}
