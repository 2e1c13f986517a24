package water

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func grid(n int, depth func(i, j int) float32) []Sample {
	out := make([]Sample, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			out = append(out, Sample{
				X:     float32(i),
				Z:     float32(j),
				UV:    mgl32.Vec2{float32(i), float32(j)},
				Depth: depth(i, j),
			})
		}
	}
	return out
}

func TestBuildSurfaceDry(t *testing.T) {
	samples := grid(5, func(i, j int) float32 { return 0 })
	if m := BuildSurface(samples, 5, 0); m != nil {
		t.Errorf("expected nil mesh for a dry tile, got %d indices", len(m.Indices))
	}
	var m *Mesh
	if !m.Empty() {
		t.Error("nil mesh should report Empty")
	}
}

func TestBuildSurfaceFullySubmerged(t *testing.T) {
	n := 5
	samples := grid(n, func(i, j int) float32 { return 3 })
	m := BuildSurface(samples, n, -1)
	if m == nil {
		t.Fatal("expected water mesh")
	}
	if len(m.Vertices) != n*n {
		t.Errorf("expected %d vertices, got %d", n*n, len(m.Vertices))
	}
	if len(m.Indices) != (n-1)*(n-1)*6 {
		t.Errorf("expected %d indices, got %d", (n-1)*(n-1)*6, len(m.Indices))
	}
	for _, v := range m.Vertices {
		if v.Position[1] != -1 {
			t.Fatalf("vertex not at water level: %v", v.Position)
		}
		if v.Normal != Up {
			t.Fatalf("expected up normal, got %v", v.Normal)
		}
	}
}

func TestBuildSurfaceSingleCorner(t *testing.T) {
	n := 4
	// Only sample (1,1) is submerged: it touches 4 quads.
	samples := grid(n, func(i, j int) float32 {
		if i == 1 && j == 1 {
			return 0.5
		}
		return 0
	})
	m := BuildSurface(samples, n, 0)
	if m == nil {
		t.Fatal("expected water mesh")
	}
	if got := len(m.Indices) / 6; got != 4 {
		t.Errorf("expected 4 quads, got %d", got)
	}
	if len(m.Vertices) != 9 {
		t.Errorf("expected 9 compacted vertices, got %d", len(m.Vertices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildSurfaceWindingUp(t *testing.T) {
	samples := grid(3, func(i, j int) float32 { return 1 })
	m := BuildSurface(samples, 3, 0)
	for k := 0; k < len(m.Indices); k += 3 {
		a := m.Vertices[m.Indices[k]].Position
		b := m.Vertices[m.Indices[k+1]].Position
		c := m.Vertices[m.Indices[k+2]].Position
		if n := b.Sub(a).Cross(c.Sub(a)); n[1] <= 0 {
			t.Fatalf("triangle %d faces down: %v", k/3, n)
		}
	}
}

func TestBuildSurfaceRejectsShortInput(t *testing.T) {
	if m := BuildSurface(nil, 3, 0); m != nil {
		t.Error("expected nil for missing samples")
	}
	if m := BuildSurface(grid(1, func(i, j int) float32 { return 1 }), 1, 0); m != nil {
		t.Error("expected nil for a single sample")
	}
}
