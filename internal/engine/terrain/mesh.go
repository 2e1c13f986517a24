package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/heightfield"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/water"
)

// Source samples normalized height. *heightfield.Field implements it.
type Source interface {
	Sample(x, z float64) float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(x, z float64) float64

// Sample calls f(x, z).
func (f SourceFunc) Sample(x, z float64) float64 { return f(x, z) }

// Builder turns quadtree leaves into tile meshes. It only reads its Source,
// so one Builder may build many tiles concurrently.
type Builder struct {
	src         Source
	heightScale float64
	waterLevel  float64
}

// NewBuilder creates a builder over src. Heights are multiplied by
// heightScale; vertices below waterLevel get a positive depth.
func NewBuilder(src Source, heightScale, waterLevel float64) *Builder {
	return &Builder{src: src, heightScale: heightScale, waterLevel: waterLevel}
}

// FromField creates a builder using the field's scale and water level.
func FromField(f *heightfield.Field) *Builder {
	cfg := f.Config()
	return NewBuilder(f, cfg.BaseHeightScale, cfg.WaterLevel)
}

// Build creates the terrain mesh, and water mesh if any, for one leaf.
// resolution is the number of segments per tile side.
func (b *Builder) Build(node quadtree.Node, stitch quadtree.Stitch, resolution int) *Tile {
	n := resolution + 1
	step := node.Size / float64(resolution)
	minX := node.CenterX - node.Size/2
	minZ := node.CenterZ - node.Size/2

	heights := make([]float64, n*n)
	vertices := make([]Vertex, n*n)
	samples := make([]water.Sample, n*n)
	submerged := false

	bounds := Bounds{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}

	for j := range n {
		wz := minZ + float64(j)*step
		for i := range n {
			wx := minX + float64(i)*step
			idx := j*n + i

			h, uvX, uvZ := b.edgeSample(stitch, i, j, n, wx, wz)
			heights[idx] = h

			y := h * b.heightScale
			depth := float32(math.Max(0, b.waterLevel-y))
			if depth > 0 {
				submerged = true
			}

			pos := mgl32.Vec3{float32(wx), float32(y), float32(wz)}
			uv := mgl32.Vec2{float32(uvX), float32(uvZ)}
			vertices[idx] = Vertex{Position: pos, UV: uv, Depth: depth}
			samples[idx] = water.Sample{X: pos[0], Z: pos[2], UV: uv, Depth: depth}
			updateBounds(&bounds, pos)
		}
	}

	b.computeNormals(vertices, heights, n, minX, minZ, step)

	tile := &Tile{
		Key:        node.Key,
		Node:       node,
		Stitch:     stitch,
		Resolution: resolution,
		Terrain: &Mesh{
			Vertices: vertices,
			Indices:  GridIndices(n),
			Bounds:   bounds,
		},
		Heights: heightmapFrom(vertices, n, minX, minZ, step),
	}
	if submerged {
		tile.Water = water.BuildSurface(samples, n, float32(b.waterLevel))
	}
	return tile
}

// edgeSample returns the normalized height and UV for grid sample (i, j).
// On an edge bordering a coarser leaf the height is interpolated between
// the coarser grid's samples so both tiles agree on every edge point, and
// the UV is snapped to the nearest coarse sample.
func (b *Builder) edgeSample(stitch quadtree.Stitch, i, j, n int, wx, wz float64) (h, uvX, uvZ float64) {
	last := n - 1
	switch {
	case j == 0 && stitch[quadtree.North].Stitched:
		return b.lerpX(wx, wz, stitch[quadtree.North].NeighborStep)
	case j == last && stitch[quadtree.South].Stitched:
		return b.lerpX(wx, wz, stitch[quadtree.South].NeighborStep)
	case i == 0 && stitch[quadtree.West].Stitched:
		return b.lerpZ(wx, wz, stitch[quadtree.West].NeighborStep)
	case i == last && stitch[quadtree.East].Stitched:
		return b.lerpZ(wx, wz, stitch[quadtree.East].NeighborStep)
	}
	return b.src.Sample(wx, wz), wx, wz
}

func (b *Builder) lerpX(wx, wz, step float64) (h, uvX, uvZ float64) {
	x0 := math.Floor(wx/step) * step
	t := (wx - x0) / step
	h0 := b.src.Sample(x0, wz)
	if t == 0 {
		return h0, x0, wz
	}
	h1 := b.src.Sample(x0+step, wz)
	return h0 + (h1-h0)*t, math.Round(wx/step) * step, wz
}

func (b *Builder) lerpZ(wx, wz, step float64) (h, uvX, uvZ float64) {
	z0 := math.Floor(wz/step) * step
	t := (wz - z0) / step
	h0 := b.src.Sample(wx, z0)
	if t == 0 {
		return h0, wx, z0
	}
	h1 := b.src.Sample(wx, z0+step)
	return h0 + (h1-h0)*t, wx, math.Round(wz/step) * step
}

// computeNormals uses central differences. Neighbors inside the tile come
// from the height cache; neighbors across the tile edge are sampled from
// the field directly, so normals agree with the adjacent tile whatever its
// LOD.
func (b *Builder) computeNormals(vertices []Vertex, heights []float64, n int, minX, minZ, step float64) {
	last := n - 1
	for j := range n {
		wz := minZ + float64(j)*step
		for i := range n {
			wx := minX + float64(i)*step
			idx := j*n + i

			var hl, hr, hn, hs float64
			if i > 0 {
				hl = heights[idx-1]
			} else {
				hl = b.src.Sample(wx-step, wz)
			}
			if i < last {
				hr = heights[idx+1]
			} else {
				hr = b.src.Sample(wx+step, wz)
			}
			if j > 0 {
				hn = heights[idx-n]
			} else {
				hn = b.src.Sample(wx, wz-step)
			}
			if j < last {
				hs = heights[idx+n]
			} else {
				hs = b.src.Sample(wx, wz+step)
			}

			dhdx := (hr - hl) * b.heightScale / (2 * step)
			dhdz := (hs - hn) * b.heightScale / (2 * step)
			vertices[idx].Normal = heightfield.SlopeNormal(dhdx, dhdz)
		}
	}
}

// GridIndices returns the shared-vertex index buffer of an n×n grid: two
// counter-clockwise (seen from above) triangles per quad.
func GridIndices(n int) []uint32 {
	if n < 2 {
		return nil
	}
	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			a := uint32(j*n + i)
			b := a + 1
			c := a + uint32(n)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return indices
}

func heightmapFrom(vertices []Vertex, n int, minX, minZ, step float64) *Heightmap {
	heights := make([]float32, len(vertices))
	for i := range vertices {
		heights[i] = vertices[i].Position[1]
	}
	return &Heightmap{Heights: heights, Samples: n, MinX: minX, MinZ: minZ, Step: step}
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
