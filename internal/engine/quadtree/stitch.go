package quadtree

// Edge names one side of a tile. North is -Z, west is -X.
type Edge int

const (
	North Edge = iota
	South
	East
	West
)

// Edges lists all four edges in index order.
var Edges = [4]Edge{North, South, East, West}

func (e Edge) String() string {
	switch e {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// probeOffset is how far outside an edge the neighbor probe is taken.
// It must stay well below MinTileSize.
const probeOffset = 0.5

// EdgeStitch describes one edge of a leaf.
type EdgeStitch struct {
	Stitched     bool
	NeighborStep float64 // sample spacing of the coarser neighbor
}

// Stitch holds per-edge stitching, indexed by Edge.
type Stitch [4]EdgeStitch

// Any reports whether at least one edge needs stitching.
func (s Stitch) Any() bool {
	for _, e := range s {
		if e.Stitched {
			return true
		}
	}
	return false
}

// Stitch determines, for each edge of leaf, whether a coarser leaf borders
// it. Only the coarsest bordering leaf matters since the finer tile must
// snap to the grid that is actually rendered there.
func (s *Snapshot) Stitch(leaf Node) Stitch {
	var out Stitch
	for _, e := range Edges {
		px, pz := probePoint(leaf, e)
		for check := leaf.Size * 2; check <= s.params.RootSize; check *= 2 {
			n, ok := s.nodes[s.params.KeyAt(px, pz, check)]
			if ok && n.Leaf {
				out[e] = EdgeStitch{
					Stitched:     true,
					NeighborStep: check / float64(s.params.TileResolution),
				}
				break
			}
		}
	}
	return out
}

// StitchAll computes stitching for every leaf.
func (s *Snapshot) StitchAll() map[Key]Stitch {
	out := make(map[Key]Stitch, len(s.leaves))
	for _, l := range s.leaves {
		out[l.Key] = s.Stitch(l)
	}
	return out
}

func probePoint(n Node, e Edge) (x, z float64) {
	half := n.Size / 2
	switch e {
	case North:
		return n.CenterX, n.CenterZ - half - probeOffset
	case South:
		return n.CenterX, n.CenterZ + half + probeOffset
	case East:
		return n.CenterX + half + probeOffset, n.CenterZ
	default:
		return n.CenterX - half - probeOffset, n.CenterZ
	}
}
