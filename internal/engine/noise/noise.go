// Package noise provides deterministic, seed-keyed coherent gradient noise.
package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Backend selects the gradient noise implementation.
type Backend string

const (
	// BackendSimplex uses OpenSimplex noise. This is the default.
	BackendSimplex Backend = "simplex"
	// BackendPerlin uses classic Perlin noise (single octave).
	BackendPerlin Backend = "perlin"
)

// ErrUnknownBackend is returned when a backend name is not recognized.
var ErrUnknownBackend = errors.New("unknown noise backend")

// Source is a seeded coherent noise function.
// Implementations return values in [-1, 1] and are safe for concurrent use.
type Source interface {
	Eval2(x, y float64) float64
	Eval3(x, y, z float64) float64
	Seed() int64
}

// New creates a noise source for the given backend and seed.
// An empty backend selects simplex.
func New(backend Backend, seed int64) (Source, error) {
	switch backend {
	case "", BackendSimplex:
		return NewSimplex(seed), nil
	case BackendPerlin:
		return NewPerlin(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Simplex wraps OpenSimplex noise.
type Simplex struct {
	seed  int64
	noise opensimplex.Noise
}

// NewSimplex creates an OpenSimplex source.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{seed: seed, noise: opensimplex.New(seed)}
}

// Eval2 samples 2D noise.
func (s *Simplex) Eval2(x, y float64) float64 {
	return clampUnit(s.noise.Eval2(x, y))
}

// Eval3 samples 3D noise.
func (s *Simplex) Eval3(x, y, z float64) float64 {
	return clampUnit(s.noise.Eval3(x, y, z))
}

// Seed returns the seed the source was created with.
func (s *Simplex) Seed() int64 { return s.seed }

// Perlin wraps a single-octave Perlin generator.
type Perlin struct {
	seed  int64
	noise *perlin.Perlin
}

// perlinGain rescales single-octave Perlin output (roughly ±0.7) toward ±1.
const perlinGain = 1.4

// NewPerlin creates a Perlin source.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{seed: seed, noise: perlin.NewPerlin(2, 2, 1, seed)}
}

// Eval2 samples 2D noise.
func (p *Perlin) Eval2(x, y float64) float64 {
	return clampUnit(p.noise.Noise2D(x, y) * perlinGain)
}

// Eval3 samples 3D noise.
func (p *Perlin) Eval3(x, y, z float64) float64 {
	return clampUnit(p.noise.Noise3D(x, y, z) * perlinGain)
}

// Seed returns the seed the source was created with.
func (p *Perlin) Seed() int64 { return p.seed }

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampUnit keeps output inside [-1, 1]. Non-finite values pass through
// so callers can detect and neutralize them.
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
