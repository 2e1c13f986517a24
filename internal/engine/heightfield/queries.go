package heightfield

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	normalEpsilon = 0.5
	// Beyond farNormalDistance the finite-difference step grows by
	// farNormalEpsilonScale to keep normals stable where heights are large.
	farNormalDistance     = 500.0
	farNormalEpsilonScale = 4.0
)

// Height returns the world-space height at (x, z).
func (f *Field) Height(x, z float64) float64 {
	return f.Sample(x, z) * f.cfg.BaseHeightScale
}

// Normal returns the unit surface normal at (x, z).
func (f *Field) Normal(x, z float64) mgl32.Vec3 {
	var n mgl32.Vec3
	f.NormalInto(x, z, &n)
	return n
}

// NormalInto writes the unit surface normal at (x, z) into out.
func (f *Field) NormalInto(x, z float64, out *mgl32.Vec3) {
	eps := normalEpsilon
	if x*x+z*z > farNormalDistance*farNormalDistance {
		eps *= farNormalEpsilonScale
	}

	dhdx := (f.Height(x+eps, z) - f.Height(x-eps, z)) / (2 * eps)
	dhdz := (f.Height(x, z+eps) - f.Height(x, z-eps)) / (2 * eps)

	*out = SlopeNormal(dhdx, dhdz)
}

// IsWater reports whether (x, z) lies below the water level.
func (f *Field) IsWater(x, z float64) bool {
	return f.Height(x, z) < f.cfg.WaterLevel
}

// WaterDepth returns how far below the water level the ground at (x, z) is,
// or 0 on dry land.
func (f *Field) WaterDepth(x, z float64) float64 {
	return math.Max(0, f.cfg.WaterLevel-f.Height(x, z))
}

// SlopeNormal converts height gradients to the normalized (-dh/dx, 1, -dh/dz).
func SlopeNormal(dhdx, dhdz float64) mgl32.Vec3 {
	nx, ny, nz := -dhdx, 1.0, -dhdz
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl32.Vec3{0, 1, 0}
	}
	return mgl32.Vec3{float32(nx / l), float32(ny / l), float32(nz / l)}
}
