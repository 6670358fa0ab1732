package graphgo

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig.
const EnvPrefix = "GRAPHGO"

// Config holds the engine settings read from the environment, e.g.
// GRAPHGO_WORKERS=8 or GRAPHGO_LOG_FORMAT=json.
type Config struct {
	Workers           int           `envconfig:"WORKERS" default:"0"`
	MemoryLimitBytes  int64         `envconfig:"MEMORY_LIMIT_BYTES" default:"0"`
	MaxConcurrentJobs int64         `envconfig:"MAX_CONCURRENT_JOBS" default:"1"`
	ProgressInterval  time.Duration `envconfig:"PROGRESS_INTERVAL" default:"1s"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string        `envconfig:"LOG_FORMAT" default:"text"`
	Verbose           bool          `envconfig:"VERBOSE" default:"false"`
}

// LoadConfig reads the configuration from the environment. Variables from the
// given .env files are loaded first without overriding variables that are
// already set.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case c.MemoryLimitBytes < 0:
		return fmt.Errorf("%w: memory limit must not be negative", ErrInvalidConfig)
	case c.MaxConcurrentJobs < 1:
		return fmt.Errorf("%w: max concurrent jobs must be positive", ErrInvalidConfig)
	case c.ProgressInterval < 0:
		return fmt.Errorf("%w: progress interval must not be negative", ErrInvalidConfig)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "none":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return l, nil
}

// Logger returns the logger described by LogLevel and LogFormat.
func (c *Config) Logger() (*Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return NewJSONLogger(nil, level), nil
	case "none":
		return NoopLogger(), nil
	default:
		return NewTextLogger(nil, level), nil
	}
}

// Options converts the configuration into engine options.
func (c *Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithLogger(logger),
		WithWorkers(c.Workers),
		WithMemoryLimit(c.MemoryLimitBytes),
		WithMaxConcurrentJobs(c.MaxConcurrentJobs),
	}
	if c.Verbose {
		opts = append(opts, WithVerbose(c.ProgressInterval))
	}
	return opts, nil
}
