package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Provider ProviderConfig `mapstructure:"provider"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ProviderConfig selects the site definition and how it is reached.
type ProviderConfig struct {
	Definition string `mapstructure:"definition"`
	Variant    string `mapstructure:"variant"` // basic or full
	Origin     string `mapstructure:"origin"`  // overrides the definition link
	UserAgent  string `mapstructure:"user_agent"`
	Timeout    int    `mapstructure:"timeout"` // seconds

	QueryLimit     int `mapstructure:"query_limit"` // per period, 0 disables
	QueryPeriodMin int `mapstructure:"query_period_min"`
}

// FeedConfig controls the periodic latest-listing sync.
type FeedConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	IntervalMin int  `mapstructure:"interval_min"`
	MaxEntries  int  `mapstructure:"max_entries"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8787,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Provider: ProviderConfig{
			Definition:     "tokyotosho",
			Variant:        "full",
			Timeout:        30,
			QueryPeriodMin: 60,
		},
		Feed: FeedConfig{
			Enabled:     true,
			IntervalMin: 15,
			MaxEntries:  500,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	// A missing .env is normal; only real read errors matter.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.toshokan")
	}

	v.SetEnvPrefix("TOSHOKAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the provider cannot run with.
func (c *Config) Validate() error {
	switch c.Provider.Variant {
	case "basic", "full":
	default:
		return fmt.Errorf("invalid provider.variant %q: must be basic or full", c.Provider.Variant)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("invalid provider.timeout %d", c.Provider.Timeout)
	}
	if c.Provider.QueryLimit < 0 {
		return fmt.Errorf("invalid provider.query_limit %d", c.Provider.QueryLimit)
	}
	return nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("provider.definition", d.Provider.Definition)
	v.SetDefault("provider.variant", d.Provider.Variant)
	v.SetDefault("provider.origin", "")
	v.SetDefault("provider.user_agent", "")
	v.SetDefault("provider.timeout", d.Provider.Timeout)
	v.SetDefault("provider.query_limit", d.Provider.QueryLimit)
	v.SetDefault("provider.query_period_min", d.Provider.QueryPeriodMin)

	v.SetDefault("feed.enabled", d.Feed.Enabled)
	v.SetDefault("feed.interval_min", d.Feed.IntervalMin)
	v.SetDefault("feed.max_entries", d.Feed.MaxEntries)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
