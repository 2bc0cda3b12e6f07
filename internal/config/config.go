// SPDX-License-Identifier: MIT

// Package config loads the beliefctl YAML configuration and turns it into
// engine and builder options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dobots/aim-sub000/bp"
	"github.com/dobots/aim-sub000/builder"
	"github.com/dobots/aim-sub000/internal/logging"
)

// ErrInvalid indicates a configuration value outside its domain.
var ErrInvalid = errors.New("config: invalid value")

// DefaultMaxTicks bounds a run when the file does not.
const DefaultMaxTicks = 100

// Engine mirrors the bp options.
type Engine struct {
	Tolerance  float64 `yaml:"tolerance"`
	Norm       string  `yaml:"norm"` // linf | l1
	Normalize  bool    `yaml:"normalize"`
	ZeroPolicy string  `yaml:"zero_policy"` // recompute | emit
	Workers    int     `yaml:"workers"`
	MaxTicks   int     `yaml:"max_ticks"`
}

// Builder mirrors the builder options.
type Builder struct {
	Coupling   float64 `yaml:"coupling"`
	FieldScale float64 `yaml:"field_scale"`
	Seed       int64   `yaml:"seed"`
	Labels     string  `yaml:"labels"` // numeric | column | prefix:<p>
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Metrics toggles the Prometheus recorder.
type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the root document.
type Config struct {
	Engine  Engine  `yaml:"engine"`
	Builder Builder `yaml:"builder"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: Engine{
			Tolerance:  bp.DefaultTolerance,
			Norm:       bp.DefaultNorm.String(),
			Normalize:  bp.DefaultNormalize,
			ZeroPolicy: bp.DefaultZeroPolicy.String(),
			Workers:    bp.DefaultWorkers,
			MaxTicks:   DefaultMaxTicks,
		},
		Builder: Builder{
			Coupling:   builder.DefaultCoupling,
			FieldScale: builder.DefaultFieldScale,
			Seed:       1,
			Labels:     builder.SchemeNumeric,
		},
		Log:     Log{Level: "info", Format: "text"},
		Metrics: Metrics{Enabled: true},
	}
}

// Load reads and validates the file at path. Keys absent from the file keep
// their defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field against its domain.
func (c *Config) Validate() error {
	e := c.Engine
	if !(e.Tolerance > 0) || math.IsInf(e.Tolerance, 0) {
		return fmt.Errorf("engine.tolerance %g: %w", e.Tolerance, ErrInvalid)
	}
	if _, err := parseNorm(e.Norm); err != nil {
		return err
	}
	if _, err := parseZero(e.ZeroPolicy); err != nil {
		return err
	}
	if e.Workers < 1 {
		return fmt.Errorf("engine.workers %d: %w", e.Workers, ErrInvalid)
	}
	if e.MaxTicks < 1 {
		return fmt.Errorf("engine.max_ticks %d: %w", e.MaxTicks, ErrInvalid)
	}
	b := c.Builder
	if math.IsNaN(b.Coupling) || math.IsInf(b.Coupling, 0) {
		return fmt.Errorf("builder.coupling %g: %w", b.Coupling, ErrInvalid)
	}
	if !(b.FieldScale >= 0) || math.IsInf(b.FieldScale, 0) {
		return fmt.Errorf("builder.field_scale %g: %w", b.FieldScale, ErrInvalid)
	}
	if _, err := builder.ParseLabelScheme(b.Labels); err != nil {
		return fmt.Errorf("builder.labels: %w: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w: %w", ErrInvalid, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalid)
	}

	return nil
}

// EngineOptions converts the engine section. Call Validate first.
func (c *Config) EngineOptions() []bp.Option {
	norm, _ := parseNorm(c.Engine.Norm)
	zero, _ := parseZero(c.Engine.ZeroPolicy)

	return []bp.Option{
		bp.WithTolerance(c.Engine.Tolerance),
		bp.WithNorm(norm),
		bp.WithNormalize(c.Engine.Normalize),
		bp.WithZeroPolicy(zero),
		bp.WithWorkers(c.Engine.Workers),
	}
}

// BuilderOptions converts the builder section. Call Validate first.
func (c *Config) BuilderOptions() []builder.BuilderOption {
	labels, _ := builder.ParseLabelScheme(c.Builder.Labels)

	return []builder.BuilderOption{
		builder.WithCoupling(c.Builder.Coupling),
		builder.WithFieldScale(c.Builder.FieldScale),
		builder.WithSeed(c.Builder.Seed),
		builder.WithLabelScheme(labels),
	}
}

func parseNorm(s string) (bp.Norm, error) {
	for _, n := range []bp.Norm{bp.NormLInf, bp.NormL1} {
		if n.String() == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("engine.norm %q: %w", s, ErrInvalid)
}

func parseZero(s string) (bp.ZeroPolicy, error) {
	for _, z := range []bp.ZeroPolicy{bp.ZeroRecompute, bp.ZeroEmit} {
		if z.String() == s {
			return z, nil
		}
	}
	return 0, fmt.Errorf("engine.zero_policy %q: %w", s, ErrInvalid)
}
