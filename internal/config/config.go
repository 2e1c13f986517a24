// Package config handles terrain configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/midgard-terrain/internal/engine/heightfield"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/vegetation"
	"github.com/Faultbox/midgard-terrain/internal/game/world"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Config holds all terrain settings.
type Config struct {
	Terrain    heightfield.Config `yaml:"terrain"`
	LOD        quadtree.Params    `yaml:"lod"`
	Vegetation world.Vegetation   `yaml:"vegetation"`
	Update     world.Options      `yaml:"update"`
	Logging    LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string            `yaml:"level"`
	File  logger.FileConfig `yaml:"file"`
}

// Default returns a Config with the temperate preset.
func Default() *Config {
	return &Config{
		Terrain:    heightfield.DefaultConfig(),
		LOD:        quadtree.DefaultParams(),
		Vegetation: DefaultVegetation(),
		Update:     world.DefaultOptions(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultVegetation returns the temperate vegetation set.
func DefaultVegetation() world.Vegetation {
	return world.Vegetation{
		Salt: 7919,
		Types: []vegetation.Type{
			{
				Name:    "grass",
				Density: 40000,
				Height:  vegetation.Range{Min: 0.5, Max: 120},
				Slope:   vegetation.Range{Min: 0, Max: 0.35},
				Scale:   vegetation.Range{Min: 0.7, Max: 1.3},
				Asset:   vegetation.ProceduralMesh{Factory: "grass_tuft"},
			},
			{
				Name:         "pine",
				Density:      2500,
				Height:       vegetation.Range{Min: 2, Max: 300},
				Slope:        vegetation.Range{Min: 0, Max: 0.25},
				Scale:        vegetation.Range{Min: 0.8, Max: 1.4},
				PerAxisScale: false,
				Yaw:          vegetation.Range{Min: 0, Max: 2 * math.Pi},
				Asset: vegetation.ModelBacked{
					MeshNamesPerLOD: []string{"pine_lod0", "pine_lod1", "pine_lod2"},
					Collider:        "capsule",
				},
			},
			{
				Name:         "boulder",
				Density:      300,
				Height:       vegetation.Range{Min: -5, Max: 400},
				Slope:        vegetation.Range{Min: 0.1, Max: 0.7},
				Scale:        vegetation.Range{Min: 0.5, Max: 2.5},
				PerAxisScale: true,
				Asset: vegetation.ModelBacked{
					MeshNamesPerLOD: []string{"boulder_lod0", "boulder_lod1"},
					Collider:        "hull",
				},
			},
		},
	}
}

// Validate checks every section and reports all violations at once.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Terrain.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("terrain: %w", err))
	}
	if err := c.LOD.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lod: %w", err))
	}
	for i, t := range c.Vegetation.Types {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("vegetation.types[%d]: %w", i, err))
		}
	}
	if err := c.Update.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("update: %w", err))
	}
	return errors.Join(errs...)
}

// InitLogger configures the global logger from the logging section.
func (c LoggingConfig) InitLogger() error {
	return logger.InitWithFileConfig(c.Level, c.File, true)
}
