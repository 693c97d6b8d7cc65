// Package config resolves xtractor configuration from viper into a typed
// Config and exposes the XDG locations derived from the app identity.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xtractor/xtractor/internal/appid"
	"github.com/xtractor/xtractor/internal/media"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// EnvKeyReplacer maps nested keys to environment names
// (media.prefix -> XTRACTOR_MEDIA_PREFIX).
var EnvKeyReplacer = strings.NewReplacer(".", "_")

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// SetDefaults registers the default value for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("media.extract", false)
	v.SetDefault("media.directory", "")
	v.SetDefault("media.list", false)
	v.SetDefault("media.prefix", media.DefaultPrefix)
	v.SetDefault("media.extensions", append([]string(nil), media.DefaultExtensions...))
	v.SetDefault("media.preserve_paths", false)
	v.SetDefault("media.max_entry_bytes", media.DefaultMaxEntryBytes)

	v.SetDefault("batch.fail_fast", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "cli")

	v.SetDefault("store.enabled", false)
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", "")
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")
}

// Load decodes the settings held by v, validates them and makes the result
// available through GetConfig.
func Load(_ context.Context, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
		SetDefaults(v)
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects settings that cannot drive a run.
func (c *Config) Validate() error {
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = "info"
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	c.Logging.Level = level

	switch strings.ToLower(strings.TrimSpace(c.Logging.Profile)) {
	case "", "cli":
		c.Logging.Profile = "cli"
	case "structured":
		c.Logging.Profile = "structured"
	default:
		return fmt.Errorf("invalid logging.profile %q", c.Logging.Profile)
	}

	if strings.TrimSpace(c.Media.Prefix) == "" {
		return fmt.Errorf("media.prefix must not be empty")
	}
	for _, ext := range c.Media.Extensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return fmt.Errorf("media.extensions contains an empty entry")
		}
	}
	if c.Media.MaxEntryBytes < 0 {
		return fmt.Errorf("media.max_entry_bytes must not be negative")
	}

	if c.Store.Driver != "" && c.Store.Driver != "libsql" {
		return fmt.Errorf("unsupported store.driver %q", c.Store.Driver)
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// appNamesForPaths returns the config name and binary name from app identity,
// falling back to "xtractor" if not set.
func appNamesForPaths() (configName string, binaryName string) {
	configName = "xtractor"
	binaryName = "xtractor"

	identity, err := appid.Get(context.Background())
	if err != nil || identity == nil {
		return configName, binaryName
	}
	if strings.TrimSpace(identity.ConfigName) != "" {
		configName = identity.ConfigName
	}
	if strings.TrimSpace(identity.BinaryName) != "" {
		binaryName = identity.BinaryName
	}
	return configName, binaryName
}

// DefaultConfigDir returns the XDG config directory for the app.
func DefaultConfigDir() string {
	configName, _ := appNamesForPaths()
	return gfconfig.GetAppConfigDir(configName)
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := DefaultConfigDir()
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultStorePath returns the XDG-compliant path to the history database.
func DefaultStorePath() string {
	configName, binaryName := appNamesForPaths()
	dataDir := gfconfig.GetAppDataDir(configName)
	if strings.TrimSpace(dataDir) == "" {
		return "./" + binaryName + ".db"
	}
	return filepath.Join(dataDir, binaryName+".db")
}
