package quadtree

// Snapshot is the combined leaf list and node lookup of one LOD update.
type Snapshot struct {
	params Params
	leaves []Node
	nodes  map[Key]Node
}

// NewSnapshot builds a snapshot from an explicit node set. Leaves are taken
// in the order given.
func NewSnapshot(params Params, nodes []Node) *Snapshot {
	s := &Snapshot{params: params, nodes: make(map[Key]Node, len(nodes))}
	for _, n := range nodes {
		s.nodes[n.Key] = n
		if n.Leaf {
			s.leaves = append(s.leaves, n)
		}
	}
	return s
}

// Params returns the LOD parameters the snapshot was built with.
func (s *Snapshot) Params() Params { return s.params }

// Leaves returns the leaf nodes. The slice must not be modified.
func (s *Snapshot) Leaves() []Node { return s.leaves }

// Len returns the number of registered nodes (leaves and internal).
func (s *Snapshot) Len() int { return len(s.nodes) }

// Lookup finds a node by key.
func (s *Snapshot) Lookup(k Key) (Node, bool) {
	n, ok := s.nodes[k]
	return n, ok
}

// LeafAt returns the leaf containing (x, z), if any.
func (s *Snapshot) LeafAt(x, z float64) (Node, bool) {
	for size := s.params.MinTileSize; size <= s.params.RootSize; size *= 2 {
		if n, ok := s.nodes[s.params.KeyAt(x, z, size)]; ok && n.Leaf {
			return n, true
		}
	}
	return Node{}, false
}

// LeafCountByLOD returns how many leaves exist at each LOD.
func (s *Snapshot) LeafCountByLOD() map[int]int {
	counts := make(map[int]int)
	for _, l := range s.leaves {
		counts[l.LOD]++
	}
	return counts
}
