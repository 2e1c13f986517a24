package quadtree

import (
	"cmp"
	"math"
	"slices"
)

// RootCoord is the grid coordinate of a root tile: the root spans
// [X*RootSize, (X+1)*RootSize) on each axis.
type RootCoord struct {
	X int64
	Z int64
}

// Forest is the set of active roots in a window around the viewer.
type Forest struct {
	params Params
	roots  map[RootCoord]*Tree
}

// NewForest validates params and creates an empty forest.
func NewForest(params Params) (*Forest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Forest{params: params, roots: make(map[RootCoord]*Tree)}, nil
}

// Params returns the LOD parameters.
func (f *Forest) Params() Params { return f.params }

// RootCoordAt returns the root tile containing (x, z).
func (f *Forest) RootCoordAt(x, z float64) RootCoord {
	return RootCoord{
		X: int64(math.Floor(x / f.params.RootSize)),
		Z: int64(math.Floor(z / f.params.RootSize)),
	}
}

// Roots returns the active root coordinates in a stable order.
func (f *Forest) Roots() []RootCoord {
	coords := make([]RootCoord, 0, len(f.roots))
	for c := range f.roots {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, compareRootCoord)
	return coords
}

// Tree returns the tree rooted at c.
func (f *Forest) Tree(c RootCoord) (*Tree, bool) {
	t, ok := f.roots[c]
	return t, ok
}

// Update creates and evicts roots around the viewer at (x, z) and then
// splits or merges every surviving root.
func (f *Forest) Update(x, z float64) UpdateStats {
	var stats UpdateStats

	want := f.window(f.RootCoordAt(x, z))
	for c := range f.roots {
		if _, ok := want[c]; !ok {
			delete(f.roots, c)
			stats.Evicted++
		}
	}
	for c := range want {
		if _, ok := f.roots[c]; !ok {
			cx := (float64(c.X) + 0.5) * f.params.RootSize
			cz := (float64(c.Z) + 0.5) * f.params.RootSize
			f.roots[c] = NewTree(f.params, cx, cz)
			stats.Created++
		}
	}

	for _, c := range f.Roots() {
		stats.add(f.roots[c].Update(x, z))
	}
	return stats
}

func (f *Forest) window(center RootCoord) map[RootCoord]struct{} {
	r := int64(f.params.ViewRadius)
	want := make(map[RootCoord]struct{}, (2*r+1)*(2*r+1))
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if f.params.Window == WindowCircle && dx*dx+dz*dz > r*r {
				continue
			}
			want[RootCoord{X: center.X + dx, Z: center.Z + dz}] = struct{}{}
		}
	}
	return want
}

// Snapshot collects the leaves of every root and a lookup of every node.
// The result is a consistent view for one update cycle and is never mutated
// by later updates.
func (f *Forest) Snapshot() *Snapshot {
	s := &Snapshot{params: f.params, nodes: make(map[Key]Node)}
	for _, c := range f.Roots() {
		s.leaves = f.roots[c].Collect(s.leaves, s.nodes)
	}
	return s
}

func compareRootCoord(a, b RootCoord) int {
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}
