// Package config loads application settings from a YAML file, VERITAS_*
// environment variables and command-line flags, in ascending precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full application configuration.
type Config struct {
	Listen   string   `koanf:"listen" validate:"required"`
	Database string   `koanf:"database" validate:"required"`
	CacheDir string   `koanf:"cache_dir" validate:"required"`
	Decks    []string `koanf:"decks"`

	User struct {
		ID   string `koanf:"id" validate:"required"`
		Name string `koanf:"name"`
	} `koanf:"user"`

	Session struct {
		DefaultLimit int `koanf:"default_limit" validate:"gt=0"`
	} `koanf:"session"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load merges the config file (if present), environment and flags, applies
// defaults for anything still unset, and validates the result.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// VERITAS_USER__ID=u1 becomes user.id.
	envProvider := env.ProviderWithValue("VERITAS_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, "VERITAS_"))
		return strings.ReplaceAll(key, "__", "."), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8484"
	}
	if cfg.Database == "" {
		cfg.Database = "veritas.db"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "decks"
	}
	if cfg.User.ID == "" {
		cfg.User.ID = "local"
	}
	if cfg.User.Name == "" {
		cfg.User.Name = "Estudante"
	}
	if cfg.Session.DefaultLimit == 0 {
		cfg.Session.DefaultLimit = 10
	}
}
