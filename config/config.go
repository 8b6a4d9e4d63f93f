package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Skryldev/moviedb/db"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig says where the store lives. Credentials are not part of
// it: they come from the command line or an interactive prompt.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	// Name is the schema name for MySQL and the file path for SQLite.
	Name               string            `mapstructure:"name"`
	Params             map[string]string `mapstructure:"params"`
	SlowQueryThreshold time.Duration     `mapstructure:"slow_query_threshold"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Queries logs every statement at debug level (bound values excluded).
	Queries bool `mapstructure:"queries"`
}

// Load reads config.<env>.yaml from the first of paths that has one (the
// working directory and ./configs by default), then applies MOVIEDB_*
// environment overrides such as MOVIEDB_DATABASE_HOST. A missing file is not
// an error.
func Load(paths ...string) (*Config, error) {
	env := os.Getenv("MOVIEDB_ENV")
	if env == "" {
		env = "local"
	}
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}

	v := viper.New()
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("env", env)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "moviedb")
	v.SetDefault("database.params", map[string]string{})
	v.SetDefault("database.slow_query_threshold", "0s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.queries", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("MOVIEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects drivers that are not registered and unknown log settings.
func (c *Config) Validate() error {
	if _, err := db.LookupDriver(c.Database.Driver); err != nil {
		return fmt.Errorf("config: database.driver: %w", err)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database.name must not be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel converts Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// DriverOptions combines the configured location with a user's credentials.
func (d DatabaseConfig) DriverOptions(user, password string) db.DriverOptions {
	return db.DriverOptions{
		Host:     d.Host,
		Port:     d.Port,
		User:     user,
		Password: password,
		Database: d.Name,
		Extra:    d.Params,
	}
}
