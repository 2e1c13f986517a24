// Package heightfield provides the continuous terrain height field and the
// height, normal and water queries derived from it.
package heightfield

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/midgard-terrain/internal/engine/noise"
)

// ErrInvalidConfig is returned when a Config violates its invariants.
var ErrInvalidConfig = errors.New("invalid height field config")

// Config parameterizes one terrain instance. It is immutable for the
// lifetime of a Field; changing biome means building a new Field.
type Config struct {
	Seed                  int64         `yaml:"seed"`
	Noise                 noise.Backend `yaml:"noise"`
	BaseHeightScale       float64       `yaml:"base_height_scale"`
	ContinentScale        float64       `yaml:"continent_scale"`
	NoiseScale            float64       `yaml:"noise_scale"`
	MountainScale         float64       `yaml:"mountain_scale"`
	MaxMountainHeight     float64       `yaml:"max_mountain_height"`
	SpawnRadius           float64       `yaml:"spawn_radius"`
	SpawnTransitionRadius float64       `yaml:"spawn_transition_radius"`
	WaterLevel            float64       `yaml:"water_level"`
	WaterMaxDepth         float64       `yaml:"water_max_depth"`
}

// DefaultConfig returns the reference temperate preset.
func DefaultConfig() Config {
	return Config{
		Seed:                  1234,
		Noise:                 noise.BackendSimplex,
		BaseHeightScale:       4,
		ContinentScale:        0.00007,
		NoiseScale:            0.04,
		MountainScale:         0.001,
		MaxMountainHeight:     400,
		SpawnRadius:           200,
		SpawnTransitionRadius: 2500,
		WaterLevel:            0,
		WaterMaxDepth:         50,
	}
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v))
		}
	}

	positive("base_height_scale", c.BaseHeightScale)
	positive("continent_scale", c.ContinentScale)
	positive("noise_scale", c.NoiseScale)
	positive("mountain_scale", c.MountainScale)

	if c.MaxMountainHeight < 0 {
		errs = append(errs, fmt.Errorf("%w: max_mountain_height must not be negative, got %v", ErrInvalidConfig, c.MaxMountainHeight))
	}
	if c.WaterMaxDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: water_max_depth must not be negative, got %v", ErrInvalidConfig, c.WaterMaxDepth))
	}
	if c.SpawnRadius < 0 {
		errs = append(errs, fmt.Errorf("%w: spawn_radius must not be negative, got %v", ErrInvalidConfig, c.SpawnRadius))
	}
	if !(c.SpawnTransitionRadius > c.SpawnRadius) {
		errs = append(errs, fmt.Errorf("%w: spawn_transition_radius (%v) must exceed spawn_radius (%v)",
			ErrInvalidConfig, c.SpawnTransitionRadius, c.SpawnRadius))
	}
	switch c.Noise {
	case "", noise.BackendSimplex, noise.BackendPerlin:
	default:
		errs = append(errs, fmt.Errorf("%w: %w: %q", ErrInvalidConfig, noise.ErrUnknownBackend, c.Noise))
	}

	return errors.Join(errs...)
}

// ContinentalMultiplier scales the continental layer so that the deepest
// basin reaches exactly WaterMaxDepth below the water line.
func (c Config) ContinentalMultiplier() float64 {
	return (c.WaterMaxDepth + math.Abs(c.WaterLevel)) / c.BaseHeightScale
}

// WaterThreshold is the water level in normalized height units.
func (c Config) WaterThreshold() float64 {
	return c.WaterLevel / c.BaseHeightScale
}

// MountainAmplitude is the peak mountain contribution in normalized units.
func (c Config) MountainAmplitude() float64 {
	return c.MaxMountainHeight / c.BaseHeightScale
}
