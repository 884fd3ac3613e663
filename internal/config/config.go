// Package config provides configuration loading for pyscope.
//
// Configuration hierarchy (highest to lowest priority):
//  1. Environment variables (PYSCOPE_*)
//  2. Global config (~/.pyscope/config.yml)
//  3. Built-in defaults
//
// Nested fields map to environment variables with underscores, e.g.
// PYSCOPE_CACHE_BASE_DIR.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds machine-wide pyscope settings.
type Config struct {
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// CacheConfig controls the introspection result cache.
type CacheConfig struct {
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"` // Directory for the cache database
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`   // Consult the cache without the --cache flag
}

// Load reads ~/.pyscope/config.yml. A missing file is not an error; defaults
// apply. Environment variables (PYSCOPE_* prefix) override file values.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path, used by the --config
// flag. An empty path falls back to the default search location.
func LoadFrom(cfgFile string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	pyscopeDir := filepath.Join(home, ".pyscope")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(pyscopeDir)
	}

	v.SetEnvPrefix("PYSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("cache.base_dir")
	v.BindEnv("cache.enabled")

	v.SetDefault("cache.base_dir", filepath.Join(pyscopeDir, "cache"))
	v.SetDefault("cache.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
