// Package config loads the command line tool's settings from defaults, an
// optional YAML file and EPUBDOC_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved configuration.
type Config struct {
	// StateDir holds the reading position store.
	StateDir string `mapstructure:"state_dir"`

	Log  LogConfig  `mapstructure:"log"`
	Read ReadConfig `mapstructure:"read"`
}

// LogConfig selects the logger built by internal/logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReadConfig holds defaults for the read command.
type ReadConfig struct {
	// Count is the number of tokens printed per invocation.
	Count int `mapstructure:"count"`
}

// DefaultStateDir returns $XDG_STATE_HOME/epubdoc, or ~/.local/state/epubdoc.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "epubdoc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "epubdoc")
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		StateDir: DefaultStateDir(),
		Log:      LogConfig{Level: "warn", Format: "text"},
		Read:     ReadConfig{Count: 20},
	}
}

// Load resolves the configuration. cfgFile names an explicit config file;
// when empty, epubdoc.yaml is looked up in the working directory and in
// $HOME/.config/epubdoc, and a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("state_dir", defaults.StateDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("read.count", defaults.Read.Count)

	// EPUBDOC_LOG_LEVEL overrides log.level and so on.
	v.SetEnvPrefix("EPUBDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("epubdoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/epubdoc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Read.Count <= 0 {
		cfg.Read.Count = defaults.Read.Count
	}
	return &cfg, nil
}
