package vegetation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
)

const (
	// attemptsPerInstance bounds rejection sampling per target instance.
	attemptsPerInstance = 10
	// countJitter is the +/- multiplicative jitter on the expected count.
	countJitter = 0.2
	// typeSaltStride separates the streams of different types in one cell.
	typeSaltStride = 1000

	squareMetresPerKm2 = 1_000_000
)

// Terrain is the ground a Placer plants on. *heightfield.Field implements it.
type Terrain interface {
	Height(x, z float64) float64
	Normal(x, z float64) mgl32.Vec3
}

// Placer generates vegetation per grid cell. Output depends only on the
// cell coordinate, the type index and the salt, so it is safe for
// concurrent use.
type Placer struct {
	terrain  Terrain
	cellSize float64
	salt     int64
	types    []Type
}

// NewPlacer validates types and creates a placer over cells of cellSize.
func NewPlacer(terrain Terrain, cellSize float64, salt int64, types []Type) (*Placer, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidType, cellSize)
	}
	var errs []error
	resolved := make([]Type, len(types))
	for i, t := range types {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("vegetation type %d: %w", i, err))
		}
		resolved[i] = t.withDefaults()
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Placer{terrain: terrain, cellSize: cellSize, salt: salt, types: resolved}, nil
}

// Types returns the vegetation types, with defaults applied.
func (p *Placer) Types() []Type { return p.types }

// CellSize returns the grid cell edge length.
func (p *Placer) CellSize() float64 { return p.cellSize }

// CellAt returns the grid coordinate of the cell containing (x, z).
func (p *Placer) CellAt(x, z float64) (gridX, gridZ int64) {
	return int64(math.Floor(x / p.cellSize)), int64(math.Floor(z / p.cellSize))
}

// PlaceCell returns the instances of type typeIndex in one cell. A cell
// whose rules cannot be met within the attempt budget returns fewer
// instances than its target.
func (p *Placer) PlaceCell(gridX, gridZ int64, typeIndex int) []Transform {
	if typeIndex < 0 || typeIndex >= len(p.types) {
		return nil
	}
	t := &p.types[typeIndex]
	rng := cellStream(gridX, gridZ, p.salt+int64(typeIndex)*typeSaltStride)

	expected := t.Density * p.cellSize * p.cellSize / squareMetresPerKm2
	expected *= 1 + countJitter*(2*rng.Float64()-1)
	count := int(math.Floor(expected))
	if rng.Float64() < expected-float64(count) {
		count++
	}
	if count == 0 {
		return nil
	}

	minNormalY := 1 - t.Slope.Max
	maxNormalY := 1 - t.Slope.Min
	originX := float64(gridX) * p.cellSize
	originZ := float64(gridZ) * p.cellSize

	out := make([]Transform, 0, count)
	for attempt := 0; attempt < count*attemptsPerInstance && len(out) < count; attempt++ {
		x := originX + rng.Float64()*p.cellSize
		z := originZ + rng.Float64()*p.cellSize

		y := p.terrain.Height(x, z)
		if !t.Height.Contains(y) {
			continue
		}
		ny := float64(p.terrain.Normal(x, z)[1])
		if ny < minNormalY || ny > maxNormalY {
			continue
		}

		var scale mgl32.Vec3
		if t.PerAxisScale {
			scale = mgl32.Vec3{
				float32(t.Scale.Lerp(rng.Float64())),
				float32(t.Scale.Lerp(rng.Float64())),
				float32(t.Scale.Lerp(rng.Float64())),
			}
		} else {
			s := float32(t.Scale.Lerp(rng.Float64()))
			scale = mgl32.Vec3{s, s, s}
		}

		out = append(out, Transform{
			Position: mgl32.Vec3{float32(x), float32(y), float32(z)},
			Yaw:      float32(t.Yaw.Lerp(rng.Float64())),
			Scale:    scale,
		})
	}
	return out
}

// PlaceTile concatenates the instances of every cell whose center lies
// inside the node, north to south and west to east.
func (p *Placer) PlaceTile(node quadtree.Node, typeIndex int) []Transform {
	minX, minZ, maxX, maxZ := node.Bounds()
	x0, x1 := p.cellSpan(minX, maxX)
	z0, z1 := p.cellSpan(minZ, maxZ)

	var out []Transform
	for gz := z0; gz < z1; gz++ {
		for gx := x0; gx < x1; gx++ {
			out = append(out, p.PlaceCell(gx, gz, typeIndex)...)
		}
	}
	return out
}

// cellSpan returns the half-open range of cells whose center c satisfies
// lo <= c < hi.
func (p *Placer) cellSpan(lo, hi float64) (first, end int64) {
	first = int64(math.Ceil(lo/p.cellSize - 0.5))
	end = int64(math.Ceil(hi/p.cellSize - 0.5))
	return first, end
}
