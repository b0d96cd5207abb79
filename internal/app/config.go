package app

import (
	"errors"
	"fmt"
	"slices"
)

var (
	logFormats = []string{"text", "json"}
	isolations = []string{"goroutine", "process"}
	errNoPaths = errors.New("at least one definition path is required")
	errWorkers = errors.New("workers must be a positive number")
	errHCPort  = errors.New("healthcheck port must be between 0 and 65535")
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are .hcl files or directories holding them.
	Paths []string
	// ArgsFile is an optional YAML file with extra executions.
	ArgsFile string
	// EventsPath is an optional file receiving run events as JSON lines.
	EventsPath string

	Workers   int
	Isolation string
	FailFast  bool
	LogsDir   string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if len(cfg.Paths) == 0 {
		errs = append(errs, errNoPaths)
	}
	if cfg.Workers <= 0 {
		errs = append(errs, errWorkers)
	}
	if cfg.Isolation == "" {
		cfg.Isolation = "goroutine"
	}
	if !slices.Contains(isolations, cfg.Isolation) {
		errs = append(errs, fmt.Errorf("invalid isolation %q: must be one of %v", cfg.Isolation, isolations))
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be one of %v", cfg.LogFormat, logFormats))
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, errHCPort)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	cfg.Paths = slices.Clone(cfg.Paths)
	return &cfg, nil
}
