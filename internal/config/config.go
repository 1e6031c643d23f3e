// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/registry"
	"github.com/spf13/afero"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "CMDHOST_"

// Defaults.
const (
	DefaultNATSURL        = "nats://127.0.0.1:4222"
	DefaultClientName     = "cmdhost"
	DefaultSubjectPrefix  = "cmdhost"
	DefaultRequestTimeout = "5s"
	DefaultMetricsListen  = "127.0.0.1:9464"
)

var (
	// ErrReadFile is returned when the configuration file cannot be read.
	ErrReadFile = errors.New("failed to read config file")
	// ErrInvalidYaml is returned when the configuration file is not valid YAML for Config.
	ErrInvalidYaml = errors.New("invalid config YAML")
	// ErrEnv is returned when an environment override cannot be parsed.
	ErrEnv = errors.New("invalid environment override")
	// ErrInvalid is returned when the merged configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

// Config is the complete cmdhost configuration.
type Config struct {
	NATS     NATS     `yaml:"nats" envPrefix:"NATS_"`
	Registry Registry `yaml:"registry" envPrefix:"REGISTRY_"`
	Log      Log      `yaml:"log" envPrefix:"LOG_"`
	Metrics  Metrics  `yaml:"metrics" envPrefix:"METRICS_"`
}

// NATS configures the transport between facades and the host.
type NATS struct {
	URL            string `yaml:"url" env:"URL"`
	Name           string `yaml:"name" env:"NAME"`
	SubjectPrefix  string `yaml:"subject_prefix" env:"SUBJECT_PREFIX"`
	RequestTimeout string `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

// Timeout returns RequestTimeout as a duration. Call it only on a validated Config.
func (n NATS) Timeout() time.Duration {
	d, _ := time.ParseDuration(n.RequestTimeout)
	return d
}

// Registry configures the local command registry.
type Registry struct {
	DuplicatePolicy string `yaml:"duplicate_policy" env:"DUPLICATE_POLICY"`
}

// Policy returns DuplicatePolicy parsed. Call it only on a validated Config.
func (r Registry) Policy() registry.DuplicatePolicy {
	p, _ := registry.ParseDuplicatePolicy(r.DuplicatePolicy)
	return p
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Metrics configures the Prometheus endpoint. An empty Listen disables it.
type Metrics struct {
	Listen string `yaml:"listen" env:"LISTEN"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		NATS: NATS{
			URL:            DefaultNATSURL,
			Name:           DefaultClientName,
			SubjectPrefix:  DefaultSubjectPrefix,
			RequestTimeout: DefaultRequestTimeout,
		},
		Registry: Registry{DuplicatePolicy: registry.DuplicateReject.String()},
		Log:      Log{Level: "warn", Format: ctxlog.FormatConsole},
		Metrics:  Metrics{Listen: DefaultMetricsListen},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path is
// empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := afero.ReadFile(FsFactory(), path)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrReadFile, path, err)
		}

		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
			return nil, errors.Join(ErrInvalidYaml, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Join(ErrEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field and returns all problems found, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.NATS.URL) == "" {
		result = multierror.Append(result, errors.New("nats.url must not be empty"))
	}

	if err := validateSubjectPrefix(c.NATS.SubjectPrefix); err != nil {
		result = multierror.Append(result, err)
	}

	if d, err := time.ParseDuration(c.NATS.RequestTimeout); err != nil {
		result = multierror.Append(result, fmt.Errorf("nats.request_timeout: %w", err))
	} else if d <= 0 {
		result = multierror.Append(result, fmt.Errorf("nats.request_timeout must be positive, got %s", d))
	}

	if _, err := registry.ParseDuplicatePolicy(c.Registry.DuplicatePolicy); err != nil {
		result = multierror.Append(result, fmt.Errorf("registry.duplicate_policy: %w", err))
	}

	if _, err := ctxlog.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("log.level: %w", err))
	}

	switch strings.ToLower(c.Log.Format) {
	case ctxlog.FormatConsole, ctxlog.FormatJSON, "":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format: %w: %q", ctxlog.ErrUnknownFormat, c.Log.Format))
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Join(ErrInvalid, err)
	}

	return nil
}

func validateSubjectPrefix(p string) error {
	if p == "" {
		return errors.New("nats.subject_prefix must not be empty")
	}

	if strings.ContainsAny(p, "*> \t") || strings.HasPrefix(p, ".") || strings.HasSuffix(p, ".") {
		return fmt.Errorf("nats.subject_prefix %q is not a valid subject token sequence", p)
	}

	return nil
}
