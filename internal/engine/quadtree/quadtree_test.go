package quadtree

import (
	"errors"
	"testing"
)

func testParams() Params {
	return Params{
		SplitFactor:    2,
		Hysteresis:     1.25,
		MinTileSize:    64,
		RootSize:       1024,
		TileResolution: 8,
		ViewRadius:     1,
		Window:         WindowSquare,
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		valid  bool
	}{
		{"default", func(p *Params) { *p = DefaultParams() }, true},
		{"test params", func(p *Params) {}, true},
		{"root equals min", func(p *Params) { p.RootSize = 64 }, true},
		{"hysteresis one", func(p *Params) { p.Hysteresis = 1 }, false},
		{"zero split", func(p *Params) { p.SplitFactor = 0 }, false},
		{"root not power of two", func(p *Params) { p.RootSize = 960 }, false},
		{"root below min", func(p *Params) { p.RootSize = 32 }, false},
		{"zero min", func(p *Params) { p.MinTileSize = 0 }, false},
		{"resolution one", func(p *Params) { p.TileResolution = 1 }, false},
		{"negative radius", func(p *Params) { p.ViewRadius = -1 }, false},
		{"bad window", func(p *Params) { p.Window = "hex" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid params, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestLODForSize(t *testing.T) {
	p := testParams()
	tests := []struct {
		size float64
		want int
	}{
		{64, 0}, {128, 1}, {256, 2}, {1024, 4},
	}
	for _, tt := range tests {
		if got := p.LODForSize(tt.size); got != tt.want {
			t.Errorf("LODForSize(%v) = %d, want %d", tt.size, got, tt.want)
		}
	}
	if p.RootLOD() != 4 {
		t.Errorf("expected root LOD 4, got %d", p.RootLOD())
	}
}

func TestKeyAt(t *testing.T) {
	p := testParams()
	got := p.KeyAt(-1, 130, 128)
	want := Key{LOD: 1, X: -64, Z: 192}
	if got != want {
		t.Errorf("KeyAt = %v, want %v", got, want)
	}
	if got.String() != "L1:-64:192" {
		t.Errorf("unexpected key string %q", got.String())
	}
}

func TestSplitCoversRoot(t *testing.T) {
	p := testParams()
	tree := NewTree(p, 512, 512)
	stats := tree.Update(512, 512)
	if stats.Splits == 0 {
		t.Fatal("expected viewer at center to split the root")
	}

	nodes := make(map[Key]Node)
	leaves := tree.Collect(nil, nodes)

	var area float64
	for _, l := range leaves {
		if !l.Leaf {
			t.Errorf("collected non-leaf %v", l.Key)
		}
		if l.Size < p.MinTileSize {
			t.Errorf("leaf %v smaller than min tile size", l.Key)
		}
		if l.LOD != p.LODForSize(l.Size) {
			t.Errorf("leaf %v has LOD %d for size %v", l.Key, l.LOD, l.Size)
		}
		minX, minZ, maxX, maxZ := l.Bounds()
		if minX < 0 || minZ < 0 || maxX > 1024 || maxZ > 1024 {
			t.Errorf("leaf %v outside root", l.Key)
		}
		area += l.Size * l.Size
	}
	if area != 1024*1024 {
		t.Errorf("leaf area = %v, want %v", area, 1024*1024)
	}
	if len(nodes) != tree.Len() {
		t.Errorf("registered %d nodes, tree has %d live", len(nodes), tree.Len())
	}

	s := NewSnapshot(p, mapValues(nodes))
	leaf, ok := s.LeafAt(512, 512)
	if !ok {
		t.Fatal("no leaf at viewer position")
	}
	if leaf.Size != p.MinTileSize {
		t.Errorf("leaf under viewer has size %v, want %v", leaf.Size, p.MinTileSize)
	}
}

func TestChildrenLayout(t *testing.T) {
	p := testParams()
	tree := NewTree(p, 512, 512)
	tree.split(tree.root)

	want := [4][2]float64{
		NW: {256, 256},
		NE: {768, 256},
		SW: {256, 768},
		SE: {768, 768},
	}
	for q, h := range tree.nodes[tree.root].children {
		n := tree.nodes[h].view()
		if n.CenterX != want[q][0] || n.CenterZ != want[q][1] {
			t.Errorf("child %d center = (%v,%v), want %v", q, n.CenterX, n.CenterZ, want[q])
		}
		if n.Size != 512 || n.LOD != p.RootLOD()-1 || !n.Leaf {
			t.Errorf("child %d = %+v, want leaf of size 512 at lod %d", q, n, p.RootLOD()-1)
		}
	}
}

func TestHysteresisLeafStaysLeaf(t *testing.T) {
	p := testParams()
	tree := NewTree(p, 512, 512)

	// Between split (2048) and merge (2560) distance of the root.
	vx, vz := 512.0+2300, 512.0
	for i := 0; i < 10; i++ {
		stats := tree.Update(vx, vz)
		if stats.Splits != 0 || stats.Merges != 0 {
			t.Fatalf("update %d changed the tree: %+v", i, stats)
		}
	}
	if !tree.Root().Leaf {
		t.Error("expected root to remain a leaf")
	}
}

func TestHysteresisSubdividedStaysSubdivided(t *testing.T) {
	p := testParams()
	tree := NewTree(p, 512, 512)
	tree.Update(512, 512)
	if tree.Root().Leaf {
		t.Fatal("expected root to be subdivided")
	}

	vx, vz := 512.0+2300, 512.0
	tree.Update(vx, vz)
	first := tree.Collect(nil, nil)

	for i := 0; i < 10; i++ {
		stats := tree.Update(vx, vz)
		if stats.Splits != 0 || stats.Merges != 0 {
			t.Fatalf("update %d changed the tree: %+v", i, stats)
		}
	}
	if tree.Root().Leaf {
		t.Error("expected root to remain subdivided inside the hysteresis band")
	}
	if got := tree.Collect(nil, nil); len(got) != len(first) {
		t.Errorf("leaf count changed from %d to %d", len(first), len(got))
	}
}

func TestMergeBeyondHysteresis(t *testing.T) {
	p := testParams()
	tree := NewTree(p, 512, 512)
	tree.Update(512, 512)
	deep := tree.Len()

	stats := tree.Update(512+3000, 512)
	if stats.Merges == 0 {
		t.Fatal("expected a merge beyond the merge distance")
	}
	if !tree.Root().Leaf {
		t.Error("expected root to be a leaf")
	}
	if tree.Len() != 1 {
		t.Errorf("expected 1 live node after merge, got %d", tree.Len())
	}

	// Re-splitting reuses released arena slots.
	arena := len(tree.nodes)
	tree.Update(512, 512)
	if len(tree.nodes) != arena {
		t.Errorf("arena grew from %d to %d instead of reusing slots", arena, len(tree.nodes))
	}
	if tree.Len() != deep {
		t.Errorf("expected %d live nodes after re-split, got %d", deep, tree.Len())
	}
}

func TestForestWindow(t *testing.T) {
	tests := []struct {
		name   string
		window WindowShape
		radius int
		want   int
	}{
		{"square r0", WindowSquare, 0, 1},
		{"square r1", WindowSquare, 1, 9},
		{"circle r1", WindowCircle, 1, 5},
		{"square r2", WindowSquare, 2, 25},
		{"circle r2", WindowCircle, 2, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			p.Window = tt.window
			p.ViewRadius = tt.radius
			f, err := NewForest(p)
			if err != nil {
				t.Fatalf("NewForest failed: %v", err)
			}
			stats := f.Update(100, 100)
			if stats.Created != tt.want {
				t.Errorf("created %d roots, want %d", stats.Created, tt.want)
			}
			if len(f.Roots()) != tt.want {
				t.Errorf("have %d roots, want %d", len(f.Roots()), tt.want)
			}
		})
	}
}

func TestForestEvictsAndCreates(t *testing.T) {
	f, err := NewForest(testParams())
	if err != nil {
		t.Fatalf("NewForest failed: %v", err)
	}
	f.Update(-1, -1)
	if _, ok := f.Tree(RootCoord{X: -1, Z: -1}); !ok {
		t.Fatal("expected root containing the viewer at (-1,-1)")
	}

	// One root east: a 3-wide column is evicted and another created.
	stats := f.Update(10, -1)
	if stats.Evicted != 3 || stats.Created != 3 {
		t.Errorf("expected 3 evicted and 3 created, got %+v", stats)
	}

	stats = f.Update(20, -1)
	if stats.Evicted != 0 || stats.Created != 0 {
		t.Errorf("expected no root churn inside the same root, got %+v", stats)
	}
}

func TestForestRejectsInvalidParams(t *testing.T) {
	p := testParams()
	p.Hysteresis = 0.5
	if _, err := NewForest(p); err == nil {
		t.Error("expected error for hysteresis below 1")
	}
}

func TestSnapshotKeysUniqueAcrossRoots(t *testing.T) {
	f, _ := NewForest(testParams())
	f.Update(0, 0)
	s := f.Snapshot()

	total := 0
	for _, c := range f.Roots() {
		tree, _ := f.Tree(c)
		total += tree.Len()
	}
	if s.Len() != total {
		t.Errorf("snapshot has %d keys, forest has %d nodes (key collision)", s.Len(), total)
	}

	var area float64
	for _, l := range s.Leaves() {
		area += l.Size * l.Size
	}
	if want := 9.0 * 1024 * 1024; area != want {
		t.Errorf("leaf area = %v, want %v", area, want)
	}

	counts := s.LeafCountByLOD()
	if counts[0] == 0 {
		t.Error("expected finest leaves near the viewer")
	}
}

func TestSnapshotIsolatedFromLaterUpdates(t *testing.T) {
	f, _ := NewForest(testParams())
	f.Update(0, 0)
	s := f.Snapshot()
	before := len(s.Leaves())

	f.Update(50000, 50000)
	if len(s.Leaves()) != before {
		t.Error("snapshot changed after a later update")
	}
}

func mapValues(m map[Key]Node) []Node {
	out := make([]Node, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	return out
}
