package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildPath string // hcl build files

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildPath == "" {
		return nil, errors.New("BuildPath is a required configuration field and cannot be empty")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}
