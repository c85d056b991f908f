// Package config loads settings from flags, environment variables, and an
// optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gitrecap/render"
)

const (
	// configName is the config file name without extension.
	configName = ".gitrecap"

	// configType is the config file format.
	configType = "yaml"

	// envPrefix is the environment variable prefix for settings.
	envPrefix = "GITRECAP"

	defaultAPIURL  = "https://api.github.com"
	defaultSince   = "1 week ago"
	defaultUntil   = "today"
	defaultFormat  = "text"
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
)

// ErrInvalidValue reports a configuration value outside its allowed range.
var ErrInvalidValue = errors.New("invalid configuration value")

// Config holds every tunable of a recap run. Field tags use mapstructure
// for viper unmarshalling and match the flag names.
type Config struct {
	Token     string        `mapstructure:"token"`
	APIURL    string        `mapstructure:"api-url"`
	Branch    string        `mapstructure:"branch"`
	Since     string        `mapstructure:"since"`
	Until     string        `mapstructure:"until"`
	Author    string        `mapstructure:"author"`
	Committer string        `mapstructure:"committer"`
	Include   string        `mapstructure:"include"`
	Exclude   string        `mapstructure:"exclude"`
	NoMerges  bool          `mapstructure:"no-merges"`
	Max       int           `mapstructure:"max"`
	Format    string        `mapstructure:"format"`
	Output    string        `mapstructure:"output"`
	Stats     bool          `mapstructure:"stats"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	Watch     time.Duration `mapstructure:"watch"`
	DSN       string        `mapstructure:"dsn"`
}

// Load builds the configuration. If configPath is non-empty it names an
// explicit config file; otherwise the file is searched in the working
// directory and $HOME. A missing file is not an error. When flags is
// non-nil its values are bound on top, so changed flags win over both
// environment and file.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viperCfg.AutomaticEnv()

	if flags != nil {
		if err := viperCfg.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	if readErr := viperCfg.ReadInConfig(); readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config
	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks value ranges that the type system cannot.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Retries < 0 {
		return fmt.Errorf("%w: retries must not be negative, got %d", ErrInvalidValue, c.Retries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidValue, c.Timeout)
	}
	if c.Max < 0 {
		return fmt.Errorf("%w: max must not be negative, got %d", ErrInvalidValue, c.Max)
	}
	if c.Watch < 0 {
		return fmt.Errorf("%w: watch interval must not be negative, got %s", ErrInvalidValue, c.Watch)
	}
	return nil
}

// applyDefaults registers every key so environment variables are picked up
// even for settings without a flag binding.
func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("token", "")
	viperCfg.SetDefault("api-url", defaultAPIURL)
	viperCfg.SetDefault("branch", "")
	viperCfg.SetDefault("since", defaultSince)
	viperCfg.SetDefault("until", defaultUntil)
	viperCfg.SetDefault("author", "")
	viperCfg.SetDefault("committer", "")
	viperCfg.SetDefault("include", "")
	viperCfg.SetDefault("exclude", "")
	viperCfg.SetDefault("no-merges", false)
	viperCfg.SetDefault("max", 0)
	viperCfg.SetDefault("format", defaultFormat)
	viperCfg.SetDefault("output", "")
	viperCfg.SetDefault("stats", false)
	viperCfg.SetDefault("timeout", defaultTimeout)
	viperCfg.SetDefault("retries", defaultRetries)
	viperCfg.SetDefault("watch", time.Duration(0))
	viperCfg.SetDefault("dsn", "")
}
