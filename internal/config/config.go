// Package config loads chancellor settings: defaults, then a YAML file, then
// CHANCELLOR_* environment overrides. Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/chancellor/internal/rules"
	"github.com/talgya/chancellor/internal/state"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHANCELLOR_"

// API configures the HTTP server.
type API struct {
	Port            int    `yaml:"port"`
	AdminKey        string `yaml:"admin_key"`
	TurnRatePerHour int    `yaml:"turn_rate_per_hour"`
}

// Config is the full set of settings.
type Config struct {
	Seed       int64  `yaml:"seed"`
	Difficulty string `yaml:"difficulty"`
	FiscalRule string `yaml:"fiscal_rule"`
	Turns      int    `yaml:"turns"`
	DBPath     string `yaml:"db_path"`
	Strict     bool   `yaml:"strict"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	Autopilot  bool   `yaml:"autopilot"`
	API        API    `yaml:"api"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Difficulty: string(state.DifficultyStandard),
		FiscalRule: rules.Default,
		Turns:      60,
		DBPath:     "data/chancellor.db",
		LogLevel:   "info",
		LogFormat:  "text",
		API: API{
			Port:            8080,
			TurnRatePerHour: 120,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var errs []error
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = n
		}
	}
	str("DIFFICULTY", &c.Difficulty)
	str("FISCAL_RULE", &c.FiscalRule)
	integer("TURNS", &c.Turns)
	str("DB_PATH", &c.DBPath)
	boolean("STRICT", &c.Strict)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	boolean("AUTOPILOT", &c.Autopilot)
	integer("PORT", &c.API.Port)
	str("ADMIN_KEY", &c.API.AdminKey)
	integer("TURN_RATE_PER_HOUR", &c.API.TurnRatePerHour)
	return errors.Join(errs...)
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch state.Difficulty(c.Difficulty) {
	case state.DifficultyEasy, state.DifficultyStandard, state.DifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	if _, ok := rules.Lookup(c.FiscalRule); !ok {
		return fmt.Errorf("unknown fiscal rule %q", c.FiscalRule)
	}
	if c.Turns < 0 {
		return fmt.Errorf("turns must be non-negative, got %d", c.Turns)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.API.TurnRatePerHour <= 0 {
		return fmt.Errorf("api.turn_rate_per_hour must be positive, got %d", c.API.TurnRatePerHour)
	}
	return nil
}

// ParseLevel maps a level name to slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return l, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}
