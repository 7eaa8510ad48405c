package main

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/config"
)

// loadSettings layers flags over the optional config file over the
// environment, then validates the result.
func loadSettings(flags config.Config, configPath string) (config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	base := env
	if configPath != "" {
		file, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		base = file.MergeWithDefaults(env)
		base.Verbose = base.Verbose || file.Verbose
	}

	cfg := flags.MergeWithDefaults(base)
	cfg.Verbose = flags.Verbose || base.Verbose
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
