package config

// Config is the resolved runtime configuration. Values come from viper
// (defaults, config file, XTRACTOR_* environment, bound flags) and are
// decoded with mapstructure.
type Config struct {
	Media   MediaConfig   `mapstructure:"media"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
}

// MediaConfig controls media location and extraction.
type MediaConfig struct {
	Extract       bool     `mapstructure:"extract"`
	Directory     string   `mapstructure:"directory"`
	List          bool     `mapstructure:"list"`
	Prefix        string   `mapstructure:"prefix"`
	Extensions    []string `mapstructure:"extensions"`
	PreservePaths bool     `mapstructure:"preserve_paths"`
	MaxEntryBytes int64    `mapstructure:"max_entry_bytes"`
}

// BatchConfig controls directory runs.
type BatchConfig struct {
	FailFast bool `mapstructure:"fail_fast"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// StoreConfig contains database configuration for the libsql scan history.
type StoreConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}
