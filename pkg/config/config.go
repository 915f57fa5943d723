// Package config loads the YAML run configuration of a conductance sweep.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-conductance/pkg/community"
	"github.com/dd0wney/cluso-conductance/pkg/graphml"
	"github.com/dd0wney/cluso-conductance/pkg/source"
	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

var validate = validator.New()

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the root of a sweep configuration file
type Config struct {
	Input    InputConfig  `yaml:"input"`
	Sweep    SweepConfig  `yaml:"sweep"`
	Output   OutputConfig `yaml:"output"`
	LogLevel string       `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// InputConfig locates the graphs and says how to read them
type InputConfig struct {
	PathTemplate  string    `yaml:"path_template" validate:"required"`
	Attribute     string    `yaml:"attribute" validate:"required"`
	WeightKey     string    `yaml:"weight_key"`
	DefaultWeight float64   `yaml:"default_weight" validate:"gte=0"`
	Unweighted    bool      `yaml:"unweighted"`
	S3            *S3Config `yaml:"s3" validate:"omitempty"`
}

type S3Config struct {
	Region          string `yaml:"region" validate:"required"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// SweepConfig lists the parameter values, either explicitly or as a range.
// Workers bounds concurrent community scoring within one graph.
type SweepConfig struct {
	Params  []float64    `yaml:"params"`
	Range   *RangeConfig `yaml:"range" validate:"omitempty"`
	Workers int          `yaml:"workers" validate:"gte=0,lte=256"`
}

// RangeConfig is a half-open range [Start, Stop) walked by Step
type RangeConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop" validate:"gtfield=Start"`
	Step  float64 `yaml:"step" validate:"gt=0"`
}

// OutputConfig names the sinks a finished sweep is written to. Empty paths
// are skipped.
type OutputConfig struct {
	JSON        string `yaml:"json"`
	CSV         string `yaml:"csv"`
	Parquet     string `yaml:"parquet"`
	Table       bool   `yaml:"table"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Default returns a configuration with every optional field filled in
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Attribute: community.ModularityClass,
			WeightKey: graphml.DefaultWeightKey,
		},
		Output:   OutputConfig{Table: true},
		LogLevel: "info",
	}
}

// Load reads and validates a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that exactly one of sweep.params and
// sweep.range is given. LogLevel is lower-cased first, matching the names
// logging.ParseLevel accepts.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, formatValidationError(err))
	}
	switch {
	case len(c.Sweep.Params) == 0 && c.Sweep.Range == nil:
		return fmt.Errorf("%w: sweep: one of params or range is required", ErrInvalid)
	case len(c.Sweep.Params) > 0 && c.Sweep.Range != nil:
		return fmt.Errorf("%w: sweep: params and range are mutually exclusive", ErrInvalid)
	}
	return nil
}

// Params returns the sweep parameter values in order
func (c *Config) Params() ([]float64, error) {
	if c.Sweep.Range == nil {
		out := make([]float64, len(c.Sweep.Params))
		copy(out, c.Sweep.Params)
		return out, nil
	}
	r := c.Sweep.Range
	return sweep.Range(r.Start, r.Stop, r.Step)
}

// DecodeOptions returns the GraphML options for the input graphs
func (c *Config) DecodeOptions() graphml.Options {
	return graphml.Options{
		WeightKey:     c.Input.WeightKey,
		DefaultWeight: c.Input.DefaultWeight,
		Unweighted:    c.Input.Unweighted,
	}
}

// S3Options returns the S3 client options, or false when S3 is not configured
func (c *Config) S3Options() (source.S3Options, bool) {
	if c.Input.S3 == nil {
		return source.S3Options{}, false
	}
	return source.S3Options{
		Region:          c.Input.S3.Region,
		Endpoint:        c.Input.S3.Endpoint,
		AccessKeyID:     c.Input.S3.AccessKeyID,
		SecretAccessKey: c.Input.S3.SecretAccessKey,
	}, true
}

// formatValidationError reports the first failed field constraint
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required", "required_with":
			return fmt.Errorf("%s: field is required", field)
		case "gt", "gtfield":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
		case "url":
			return fmt.Errorf("%s: must be a URL", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
