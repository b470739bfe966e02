package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if DIVLAB_CONFIG is set
//  3. env (prefix DIVLAB_)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := os.Getenv("DIVLAB_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables: DIVLAB_MAX_RECOVERY_DAYS, DIVLAB_MIN_CORRELATION, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("DIVLAB_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "divlab_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
