package quadtree

import (
	"fmt"
	"math"
)

// Key identifies a node across the whole forest. Embedding the LOD and the
// floored world-space center keeps keys unique across different roots.
type Key struct {
	LOD int
	X   int64
	Z   int64
}

func makeKey(lod int, centerX, centerZ float64) Key {
	return Key{LOD: lod, X: int64(math.Floor(centerX)), Z: int64(math.Floor(centerZ))}
}

// String formats the key as "L<lod>:<x>:<z>".
func (k Key) String() string {
	return fmt.Sprintf("L%d:%d:%d", k.LOD, k.X, k.Z)
}

// Quadrant indexes the four children of an internal node.
type Quadrant int

// Child order. North is -Z, west is -X.
const (
	NW Quadrant = iota
	NE
	SW
	SE
)

// quadrantSigns holds the (x, z) offset sign of each quadrant's center.
var quadrantSigns = [4][2]float64{
	NW: {-1, -1},
	NE: {1, -1},
	SW: {-1, 1},
	SE: {1, 1},
}

// Node is an immutable view of one quadtree node, as published in a Snapshot.
type Node struct {
	Key     Key
	CenterX float64
	CenterZ float64
	Size    float64
	LOD     int
	Leaf    bool
}

// Bounds returns the node's world-space extent.
func (n Node) Bounds() (minX, minZ, maxX, maxZ float64) {
	half := n.Size / 2
	return n.CenterX - half, n.CenterZ - half, n.CenterX + half, n.CenterZ + half
}

// Contains reports whether (x, z) is inside the node. Bounds are half-open.
func (n Node) Contains(x, z float64) bool {
	minX, minZ, maxX, maxZ := n.Bounds()
	return x >= minX && x < maxX && z >= minZ && z < maxZ
}

// Distance returns the horizontal distance from (x, z) to the node center.
func (n Node) Distance(x, z float64) float64 {
	return math.Hypot(x-n.CenterX, z-n.CenterZ)
}

// Handle indexes a node in a Tree's arena.
type Handle int32

// NoHandle marks an absent node.
const NoHandle Handle = -1

type nodeKind uint8

const (
	kindLeaf nodeKind = iota
	kindInternal
	kindFree
)

// node is the arena representation: either a leaf or an internal node with
// exactly four children.
type node struct {
	centerX  float64
	centerZ  float64
	size     float64
	lod      int
	kind     nodeKind
	children [4]Handle
}

func (n *node) view() Node {
	return Node{
		Key:     makeKey(n.lod, n.centerX, n.centerZ),
		CenterX: n.centerX,
		CenterZ: n.centerZ,
		Size:    n.size,
		LOD:     n.lod,
		Leaf:    n.kind == kindLeaf,
	}
}
