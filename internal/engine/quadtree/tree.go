package quadtree

// Tree is one root node and its subtree, stored in an arena.
type Tree struct {
	params Params
	nodes  []node
	free   []Handle
	root   Handle
	live   int
}

// UpdateStats counts structural changes made by an update.
type UpdateStats struct {
	Splits  int
	Merges  int
	Created int // roots created
	Evicted int // roots evicted
}

func (s *UpdateStats) add(o UpdateStats) {
	s.Splits += o.Splits
	s.Merges += o.Merges
	s.Created += o.Created
	s.Evicted += o.Evicted
}

// NewTree creates a tree whose root is a single leaf of size params.RootSize
// centered at (centerX, centerZ).
func NewTree(params Params, centerX, centerZ float64) *Tree {
	t := &Tree{params: params}
	t.root = t.alloc(node{
		centerX:  centerX,
		centerZ:  centerZ,
		size:     params.RootSize,
		lod:      params.RootLOD(),
		kind:     kindLeaf,
		children: [4]Handle{NoHandle, NoHandle, NoHandle, NoHandle},
	})
	return t
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.nodes[t.root].view()
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return t.live
}

// Update splits and merges nodes for a viewer at (x, z).
func (t *Tree) Update(x, z float64) UpdateStats {
	var stats UpdateStats
	t.update(t.root, x, z, &stats)
	return stats
}

func (t *Tree) update(h Handle, x, z float64, stats *UpdateStats) {
	n := t.nodes[h]
	dist := n.view().Distance(x, z)

	switch n.kind {
	case kindLeaf:
		if dist < t.params.SplitDistance(n.size) && n.size > t.params.MinTileSize {
			t.split(h)
			stats.Splits++
			// New children may need to split again for the same viewer.
			for _, c := range t.nodes[h].children {
				t.update(c, x, z, stats)
			}
		}
	case kindInternal:
		if dist > t.params.MergeDistance(n.size) {
			t.merge(h)
			stats.Merges++
			return
		}
		for _, c := range n.children {
			t.update(c, x, z, stats)
		}
	}
}

func (t *Tree) split(h Handle) {
	parent := t.nodes[h]
	quarter := parent.size / 4

	var children [4]Handle
	for q, sign := range quadrantSigns {
		children[q] = t.alloc(node{
			centerX:  parent.centerX + sign[0]*quarter,
			centerZ:  parent.centerZ + sign[1]*quarter,
			size:     parent.size / 2,
			lod:      parent.lod - 1,
			kind:     kindLeaf,
			children: [4]Handle{NoHandle, NoHandle, NoHandle, NoHandle},
		})
	}

	// alloc may have grown the arena; index again.
	t.nodes[h].kind = kindInternal
	t.nodes[h].children = children
}

// merge discards the whole subtree below h and turns h into a leaf.
func (t *Tree) merge(h Handle) {
	for _, c := range t.nodes[h].children {
		t.release(c)
	}
	t.nodes[h].kind = kindLeaf
	t.nodes[h].children = [4]Handle{NoHandle, NoHandle, NoHandle, NoHandle}
}

func (t *Tree) release(h Handle) {
	if h == NoHandle {
		return
	}
	if t.nodes[h].kind == kindInternal {
		for _, c := range t.nodes[h].children {
			t.release(c)
		}
	}
	t.nodes[h] = node{kind: kindFree, children: [4]Handle{NoHandle, NoHandle, NoHandle, NoHandle}}
	t.free = append(t.free, h)
	t.live--
}

func (t *Tree) alloc(n node) Handle {
	t.live++
	if k := len(t.free); k > 0 {
		h := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

// Collect appends every leaf to leaves and registers every visited node in
// nodes, returning the extended leaf slice.
func (t *Tree) Collect(leaves []Node, nodes map[Key]Node) []Node {
	return t.collect(t.root, leaves, nodes)
}

func (t *Tree) collect(h Handle, leaves []Node, nodes map[Key]Node) []Node {
	n := &t.nodes[h]
	v := n.view()
	if nodes != nil {
		nodes[v.Key] = v
	}
	if n.kind == kindLeaf {
		return append(leaves, v)
	}
	for _, c := range n.children {
		leaves = t.collect(c, leaves, nodes)
	}
	return leaves
}
