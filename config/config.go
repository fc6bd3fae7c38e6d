// Package config defines gigen's immutable run configuration, its
// reference-implementation-matching defaults, and validation. Loading
// from a generic map (for embedding gigen as a library) goes through
// github.com/mitchellh/mapstructure, matching limaJavier-timetabling's
// use of the same library for configuration decoding.
package config

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is passed by value and never mutated after Validate succeeds,
// per the "no global mutable configuration" design note: every component
// receives its own copy or a read-only reference.
type Config struct {
	// Samples is the number of near-uniform samples UniGen2 should draw.
	// Ignored by a count-only run.
	Samples int `mapstructure:"samples"`

	PivotUniGen    int     `mapstructure:"pivotUniGen"`
	PivotApproxMC  int     `mapstructure:"pivotApproxMC"`
	Kappa          float64 `mapstructure:"kappa"`
	TApproxMC      int     `mapstructure:"tApproxMC"`
	StartIteration int     `mapstructure:"startIteration"`
	CallsPerSolver int     `mapstructure:"callsPerSolver"` // 0 means auto
	Multisample    bool    `mapstructure:"multisample"`

	TotalTimeout time.Duration `mapstructure:"totalTimeout"`
	SafetyMargin time.Duration `mapstructure:"safetyMargin"`

	// Seed, if nonzero, replays a previous run's random sequence.
	// Zero means "seed from OS entropy".
	Seed int64 `mapstructure:"seed"`
}

// Default returns the reference implementation's tuning: pivotApproxMC
// and pivotUniGen chosen so a single hash step roughly doubles or halves
// the enumerated cell, kappa tuned for UniGen2's uniformity guarantee.
func Default() Config {
	return Config{
		Samples:        1,
		PivotUniGen:    73,
		PivotApproxMC:  72,
		Kappa:          0.638,
		TApproxMC:      1,
		StartIteration: 0,
		CallsPerSolver: 0,
		Multisample:    false,
		TotalTimeout:   72000 * time.Second,
		SafetyMargin:   3000 * time.Second,
	}
}

// FromMap overlays values decoded from m onto Default(), for callers
// embedding gigen with configuration sourced from JSON/YAML/etc already
// unmarshaled into a generic map.
func FromMap(m map[string]interface{}) (Config, error) {
	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "config: building decoder")
	}
	if err := dec.Decode(m); err != nil {
		return Config{}, errors.Wrap(err, "config: decoding")
	}
	return cfg, nil
}

// Validate checks cfg against an independent set of size sVars, matching
// the reference implementation's own startIteration sanity check.
func (c Config) Validate(sVars int) error {
	if c.StartIteration > sVars {
		return errors.Wrapf(ErrInvalidConfig, "startIteration=%d exceeds independent set size %d", c.StartIteration, sVars)
	}
	if c.PivotApproxMC <= 0 {
		return errors.Wrap(ErrInvalidConfig, "pivotApproxMC must be positive")
	}
	if c.PivotUniGen <= 0 {
		return errors.Wrap(ErrInvalidConfig, "pivotUniGen must be positive")
	}
	if c.TApproxMC <= 0 {
		return errors.Wrap(ErrInvalidConfig, "tApproxMC must be positive")
	}
	if c.Kappa <= 0 {
		return errors.Wrap(ErrInvalidConfig, "kappa must be positive")
	}
	if c.Samples < 0 {
		return errors.Wrap(ErrInvalidConfig, "samples must be non-negative")
	}
	if c.SafetyMargin >= c.TotalTimeout {
		return errors.Wrap(ErrInvalidConfig, "safetyMargin must be smaller than totalTimeout")
	}
	return nil
}
