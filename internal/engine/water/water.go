// Package water provides water surface geometry for terrain tiles.
package water

import "github.com/go-gl/mathgl/mgl32"

// Vertex represents a water surface vertex. Wave displacement is applied
// downstream, so the normal is always straight up.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2 // world-space, drives wave phase
	Depth    float32    // water column depth under this vertex
}

// Mesh holds water geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Level    float32 // water Y level in world coordinates
}

// Sample is one grid point of a tile, as seen by the water builder.
type Sample struct {
	X, Z  float32
	UV    mgl32.Vec2
	Depth float32
}

// Up is the normal of an undisturbed water surface.
var Up = mgl32.Vec3{0, 1, 0}

// BuildSurface creates water geometry over an n×n sample grid (row-major,
// z outer). Only quads with at least one submerged corner are emitted and
// only the vertices they reference are kept. It returns nil when no quad
// is submerged.
func BuildSurface(samples []Sample, n int, level float32) *Mesh {
	if n < 2 || len(samples) < n*n {
		return nil
	}

	remap := make([]int32, n*n)
	for i := range remap {
		remap[i] = -1
	}

	var mesh *Mesh
	vertexFor := func(idx int) uint32 {
		if remap[idx] < 0 {
			s := samples[idx]
			remap[idx] = int32(len(mesh.Vertices))
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: mgl32.Vec3{s.X, level, s.Z},
				Normal:   Up,
				UV:       s.UV,
				Depth:    s.Depth,
			})
		}
		return uint32(remap[idx])
	}

	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			a := j*n + i
			b := a + 1
			c := a + n
			d := c + 1
			if samples[a].Depth <= 0 && samples[b].Depth <= 0 && samples[c].Depth <= 0 && samples[d].Depth <= 0 {
				continue
			}
			if mesh == nil {
				mesh = &Mesh{Level: level}
			}
			va, vb, vc, vd := vertexFor(a), vertexFor(b), vertexFor(c), vertexFor(d)
			mesh.Indices = append(mesh.Indices, va, vc, vb, vb, vc, vd)
		}
	}

	return mesh
}

// Empty reports whether m has no geometry.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}
