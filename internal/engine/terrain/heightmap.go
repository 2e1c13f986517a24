package terrain

import "math"

// Heightmap keeps the world-space heights a tile was built from, so
// consumers can query the rendered surface without resampling noise.
type Heightmap struct {
	Heights []float32 // row-major, z outer
	Samples int       // samples per side
	MinX    float64
	MinZ    float64
	Step    float64
}

// At returns the height at grid sample (i, j).
func (h *Heightmap) At(i, j int) float32 {
	return h.Heights[j*h.Samples+i]
}

// HeightAt returns the bilinearly interpolated height at a world position.
// Positions outside the tile are clamped to its edge.
func (h *Heightmap) HeightAt(worldX, worldZ float64) float32 {
	if h == nil || h.Samples < 2 {
		return 0
	}

	cellFX := (worldX - h.MinX) / h.Step
	cellFZ := (worldZ - h.MinZ) / h.Step

	last := h.Samples - 2
	cellX := clampi(int(math.Floor(cellFX)), 0, last)
	cellZ := clampi(int(math.Floor(cellFZ)), 0, last)

	fracX := clampf(float32(cellFX-float64(cellX)), 0, 1)
	fracZ := clampf(float32(cellFZ-float64(cellZ)), 0, 1)

	// North edge (lower Z) then south edge, blended on Z.
	north := h.At(cellX, cellZ)*(1-fracX) + h.At(cellX+1, cellZ)*fracX
	south := h.At(cellX, cellZ+1)*(1-fracX) + h.At(cellX+1, cellZ+1)*fracX
	return north*(1-fracZ) + south*fracZ
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
