// Package config provides a reusable loader for agentfund-protocol
// configuration files and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tigurius/agentfund-protocol/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for an agentfund-protocol
// node. It mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Store struct {
		Path        string `mapstructure:"path" json:"path"`
		WALPath     string `mapstructure:"wal_path" json:"wal_path"`
		CacheSize   int    `mapstructure:"cache_size" json:"cache_size"`
	} `mapstructure:"store" json:"store"`

	Limits struct {
		MaxBatch      int   `mapstructure:"max_batch" json:"max_batch"`
		DisputeWindow int64 `mapstructure:"dispute_window" json:"dispute_window"`
	} `mapstructure:"limits" json:"limits"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetEnvPrefix("AGENTFUND")
	viper.AutomaticEnv() // picks up AGENTFUND_* overrides

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the AGENTFUND_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("AGENTFUND_ENV", ""))
}
