package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TVDB    TVDBConfig    `mapstructure:"tvdb"`
	Shows   ShowsConfig   `mapstructure:"shows"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TVDBConfig holds TVDB API connection details
type TVDBConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ShowsConfig controls which shows are fetched and which fields are kept
type ShowsConfig struct {
	Names         []string `mapstructure:"names"`
	Ignore        []string `mapstructure:"ignore"`
	ShowFields    []string `mapstructure:"show_fields"`
	EpisodeFields []string `mapstructure:"episode_fields"`
	Concurrency   int      `mapstructure:"concurrency"`
	BatchNameEcho bool     `mapstructure:"batch_name_echo"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetConfig `mapstructure:"presets"`
}

// PresetConfig is a named filter expression
type PresetConfig struct {
	Description string `mapstructure:"description"`
	Expression  string `mapstructure:"expression"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
