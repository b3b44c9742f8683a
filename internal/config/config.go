// Package config holds the application configuration, loaded from a YAML file
// and ARCHGRAPH_* environment variables through viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Sources   SourcesConfig   `mapstructure:"sources" yaml:"sources"`
	Traversal TraversalConfig `mapstructure:"traversal" yaml:"traversal"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes, per rotated file
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// DatabaseConfig points at the PostgreSQL instance backing the graph store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// SourcesConfig describes where graph-definition documents live.
type SourcesConfig struct {
	Root     string   `mapstructure:"root" yaml:"root"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

// TraversalConfig bounds BFS walks and context bundles.
type TraversalConfig struct {
	MaxDepth  int `mapstructure:"max_depth" yaml:"max_depth"`
	MaxNodes  int `mapstructure:"max_nodes" yaml:"max_nodes"`
	MaxChunks int `mapstructure:"max_chunks" yaml:"max_chunks"`
}

// Load reads the configuration from the given file (or the default locations
// when empty), applies environment overrides, and fills in defaults.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".archgraph"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ARCHGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars carry the run.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "archgraph")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	// Registered so an env-only ARCHGRAPH_DATABASE_URL reaches Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("sources.root", ".")
	v.SetDefault("sources.patterns", []string{"graph/**/*.yaml", "graph/**/*.yml"})
	v.SetDefault("traversal.max_depth", 3)
	v.SetDefault("traversal.max_nodes", 25)
	v.SetDefault("traversal.max_chunks", 50)
}
