// Package vegetation places vegetation instances on a fixed world grid,
// independent of the terrain LOD that happens to render an area.
package vegetation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidType is returned when a vegetation Type violates its invariants.
var ErrInvalidType = errors.New("invalid vegetation type")

// Range is a closed interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Lerp maps t in [0, 1) onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

func (r Range) isZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Type describes one kind of vegetation and its placement rules.
type Type struct {
	Name string
	// Density is the expected number of instances per square kilometre.
	Density float64
	// Height bounds the world-space ground height an instance may stand on.
	Height Range
	// Slope bounds steepness: 0 is flat ground, 1 is a vertical wall. An
	// instance is accepted when the ground normal's Y lies in
	// [1-Slope.Max, 1-Slope.Min].
	Slope Range
	// Scale is drawn uniformly per instance. With PerAxisScale each axis
	// gets its own draw.
	Scale        Range
	PerAxisScale bool
	// Yaw in radians. A zero range means a full turn.
	Yaw   Range
	Asset Asset
}

// Validate checks the type's invariants.
func (t Type) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: "+format, append([]any{ErrInvalidType, t.Name}, args...)...))
	}

	if t.Name == "" {
		bad("name must not be empty")
	}
	if t.Density < 0 || math.IsNaN(t.Density) || math.IsInf(t.Density, 0) {
		bad("density must be a non-negative number, got %v", t.Density)
	}
	if t.Height.Min > t.Height.Max {
		bad("height min %v exceeds max %v", t.Height.Min, t.Height.Max)
	}
	if t.Slope.Min < 0 || t.Slope.Max > 1 || t.Slope.Min > t.Slope.Max {
		bad("slope must satisfy 0 <= min <= max <= 1, got [%v, %v]", t.Slope.Min, t.Slope.Max)
	}
	if !t.Scale.isZero() && (t.Scale.Min <= 0 || t.Scale.Min > t.Scale.Max) {
		bad("scale must satisfy 0 < min <= max, got [%v, %v]", t.Scale.Min, t.Scale.Max)
	}
	if t.Yaw.Min > t.Yaw.Max {
		bad("yaw min %v exceeds max %v", t.Yaw.Min, t.Yaw.Max)
	}
	if t.Asset == nil {
		bad("asset is required")
	} else if err := t.Asset.validate(); err != nil {
		bad("%v", err)
	}

	return errors.Join(errs...)
}

// withDefaults fills the zero scale and yaw ranges.
func (t Type) withDefaults() Type {
	if t.Scale.isZero() {
		t.Scale = Range{Min: 1, Max: 1}
	}
	if t.Yaw.isZero() {
		t.Yaw = Range{Min: 0, Max: 2 * math.Pi}
	}
	return t
}

// Transform places one instance. Rotation is yaw only.
type Transform struct {
	Position mgl32.Vec3
	Yaw      float32
	Scale    mgl32.Vec3
}

// Matrix returns the instance's model matrix (translate * rotateY * scale).
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(mgl32.HomogRotate3DY(t.Yaw)).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
