// Package config holds the process configuration, built once at startup
// from flags, VANISH_* environment variables, an optional config file and
// an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"time"

	"vanishmail/internal/vanish"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
)

// EnvPrefix is prepended to upper-cased flag names to form env var names,
// e.g. -base-url is read from VANISH_BASE_URL.
const EnvPrefix = "VANISH"

// Config is the process-wide configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	APIKeyFile string
	Timeout    time.Duration
	LogLevel   string
	LogFile    string
}

// RegisterFlags binds cfg to fs with defaults. A "config" flag naming an
// optional plain-text config file is registered as well.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.BaseURL, "base-url", vanish.DefaultBaseURL, "Vanish API base URL")
	fs.StringVar(&cfg.APIKey, "api-key", "", "Vanish API key")
	fs.StringVar(&cfg.APIKeyFile, "api-key-file", "", "file holding the Vanish API key, reloaded on change")
	fs.DurationVar(&cfg.Timeout, "timeout", vanish.DefaultTimeout, "per-request timeout for API calls")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "also write logs to this file, with rotation")
	fs.String("config", "", "config file (optional)")
}

// Options returns the ff options used to parse a flag set registered with
// RegisterFlags. Precedence is flags, then environment, then config file.
func Options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(EnvPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	}
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		_ = godotenv.Load(name)
	}
}

// Parse is a convenience for tests and single-command tools: it registers
// flags on a fresh flag set named name, parses args and validates.
func Parse(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg := &Config{}
	RegisterFlags(fs, cfg)
	if err := ff.Parse(fs, args, Options()...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.APIKey != "" && c.APIKeyFile != "" {
		return errors.New("api-key and api-key-file are mutually exclusive")
	}
	return nil
}
