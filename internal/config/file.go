package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML file on top of the defaults, then applies the
// environment from lookup. ${VAR} references in the file are expanded with
// the same lookup, and environment values win over file values.
func LoadFromFile(path string, lookup LookupFunc) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.Expand(string(data), func(name string) string {
		v, _ := lookup(name)
		return v
	})

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Load returns FromLookup(lookup) when path is empty and LoadFromFile otherwise.
func Load(path string, lookup LookupFunc) (*Config, error) {
	if path == "" {
		cfg := FromLookup(lookup)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromFile(path, lookup)
}
