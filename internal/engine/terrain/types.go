// Package terrain builds stitched, GPU-ready terrain tile meshes from the
// height field.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/water"
)

// Vertex represents a terrain mesh vertex with all attributes.
type Vertex struct {
	Position mgl32.Vec3 // world space
	Normal   mgl32.Vec3
	UV       mgl32.Vec2 // world-space XZ, snapped on stitched edges
	Depth    float32    // water depth above this vertex, 0 on land
}

// Mesh holds the terrain geometry of one tile ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Tile is the complete geometry of one quadtree leaf. Water is nil when no
// vertex of the tile is under water.
type Tile struct {
	Key        quadtree.Key
	Node       quadtree.Node
	Stitch     quadtree.Stitch
	Resolution int
	Terrain    *Mesh
	Water      *water.Mesh
	Heights    *Heightmap
}

// HasWater reports whether the tile produced a water surface.
func (t *Tile) HasWater() bool {
	return !t.Water.Empty()
}
