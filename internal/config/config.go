// Package config loads application settings, layered lowest to highest
// precedence: YAML config file, LEITBOX_-prefixed environment variables,
// command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "LEITBOX_"

// Config holds every runtime setting.
type Config struct {
	Listen     string `koanf:"listen" validate:"required,hostname_port"`
	DBPath     string `koanf:"db" validate:"required"`
	QueueLimit int    `koanf:"queue_limit" validate:"gte=1"`
	ReposDir   string `koanf:"repos_dir" validate:"required"`
}

// Flags defines the command-line flags on f with their default values.
// The same flag set is handed back to Load so koanf can layer it.
func Flags(f *pflag.FlagSet) {
	f.String("config", "", "Path to a YAML config file")
	f.String("listen", "127.0.0.1:8484", "Address the web UI listens on")
	f.String("db", "leitbox.db", "Path to the SQLite database file")
	f.Int("queue-limit", 20, "Maximum cards per study session")
	f.String("repos-dir", "repos", "Cache directory for git deck sources")
}

// Load resolves the final configuration from the parsed flag set.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// LEITBOX_QUEUE_LIMIT=40 -> queue_limit: 40
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flags win; unchanged flags only fill keys nothing else has set.
	if err := k.Load(posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
		return strings.ReplaceAll(fl.Name, "-", "_"), posflag.FlagVal(f, fl)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for main: it prints the error and exits on failure.
func MustLoad(f *pflag.FlagSet) *Config {
	cfg, err := Load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}
