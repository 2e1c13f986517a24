// Package quadtree provides the level-of-detail quadtree forest that decides
// which terrain tiles exist around the viewer, and the edge stitching
// analysis that keeps adjacent tiles of different detail crack-free.
package quadtree

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when Params violates its invariants.
var ErrInvalidParams = errors.New("invalid quadtree params")

// WindowShape selects how the root window around the viewer is enumerated.
type WindowShape string

const (
	// WindowSquare keeps roots within Chebyshev distance ViewRadius.
	WindowSquare WindowShape = "square"
	// WindowCircle keeps roots within Euclidean distance ViewRadius.
	WindowCircle WindowShape = "circle"
)

// Params holds LOD tuning constants.
type Params struct {
	SplitFactor    float64     `yaml:"split_factor"`
	Hysteresis     float64     `yaml:"hysteresis"`
	MinTileSize    float64     `yaml:"min_tile_size"`
	RootSize       float64     `yaml:"root_size"`
	TileResolution int         `yaml:"tile_resolution"` // segments per tile side
	ViewRadius     int         `yaml:"view_radius"`     // in root tiles
	Window         WindowShape `yaml:"window"`
}

// DefaultParams returns the standard LOD settings.
func DefaultParams() Params {
	return Params{
		SplitFactor:    2.0,
		Hysteresis:     1.25,
		MinTileSize:    64,
		RootSize:       4096,
		TileResolution: 32,
		ViewRadius:     1,
		Window:         WindowSquare,
	}
}

// Validate checks the invariants.
func (p Params) Validate() error {
	var errs []error
	if !(p.SplitFactor > 0) {
		errs = append(errs, fmt.Errorf("%w: split_factor must be positive, got %v", ErrInvalidParams, p.SplitFactor))
	}
	if !(p.Hysteresis > 1) {
		errs = append(errs, fmt.Errorf("%w: hysteresis must exceed 1, got %v", ErrInvalidParams, p.Hysteresis))
	}
	if !(p.MinTileSize > 0) {
		errs = append(errs, fmt.Errorf("%w: min_tile_size must be positive, got %v", ErrInvalidParams, p.MinTileSize))
	} else if !(p.RootSize >= p.MinTileSize) || !isPowerOfTwo(p.RootSize/p.MinTileSize) {
		errs = append(errs, fmt.Errorf("%w: root_size (%v) must be a power-of-two multiple of min_tile_size (%v)",
			ErrInvalidParams, p.RootSize, p.MinTileSize))
	}
	if p.TileResolution < 2 {
		errs = append(errs, fmt.Errorf("%w: tile_resolution must be at least 2, got %d", ErrInvalidParams, p.TileResolution))
	}
	if p.ViewRadius < 0 {
		errs = append(errs, fmt.Errorf("%w: view_radius must not be negative, got %d", ErrInvalidParams, p.ViewRadius))
	}
	switch p.Window {
	case "", WindowSquare, WindowCircle:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown window shape %q", ErrInvalidParams, p.Window))
	}
	return errors.Join(errs...)
}

// LODForSize returns the LOD label of a node of the given size.
// MinTileSize is LOD 0.
func (p Params) LODForSize(size float64) int {
	return int(math.Round(math.Log2(size / p.MinTileSize)))
}

// RootLOD is the LOD of a root node.
func (p Params) RootLOD() int {
	return p.LODForSize(p.RootSize)
}

// SplitDistance is the viewer distance below which a node of the given size splits.
func (p Params) SplitDistance(size float64) float64 {
	return size * p.SplitFactor
}

// MergeDistance is the viewer distance above which a node of the given size merges.
func (p Params) MergeDistance(size float64) float64 {
	return size * p.SplitFactor * p.Hysteresis
}

// KeyAt returns the key of the grid-aligned node of the given size that
// contains (x, z).
func (p Params) KeyAt(x, z, size float64) Key {
	cx := (math.Floor(x/size) + 0.5) * size
	cz := (math.Floor(z/size) + 0.5) * size
	return makeKey(p.LODForSize(size), cx, cz)
}

func isPowerOfTwo(v float64) bool {
	if v < 1 || math.IsInf(v, 0) {
		return false
	}
	frac, exp := math.Frexp(v)
	return frac == 0.5 && exp >= 1
}
