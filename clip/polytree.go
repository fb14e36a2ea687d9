package clip

import (
	"github.com/paulmach/orb"
)

// PolyNode is a contour in the result hierarchy. Nodes own their children, the parent reference is non-owning. Contours at even depth are filled, contours at odd depth are holes.
type PolyNode struct {
	contour Ring
	childs  []*PolyNode
	parent  *PolyNode
	index   int
	depth   int
}

// Contour returns the node's ring. Outer contours wind counter clockwise and holes wind clockwise.
func (n *PolyNode) Contour() Ring {
	return n.contour
}

// Childs returns the node's children in order.
func (n *PolyNode) Childs() []*PolyNode {
	return n.childs
}

// ChildCount returns the number of children.
func (n *PolyNode) ChildCount() int {
	return len(n.childs)
}

// Parent returns the enclosing node, which is the tree's root for top-level contours and nil for the root itself.
func (n *PolyNode) Parent() *PolyNode {
	return n.parent
}

// Depth returns the nesting depth. Top-level contours have depth zero and the root has depth -1.
func (n *PolyNode) Depth() int {
	return n.depth
}

// IsHole returns true for contours at odd depth.
func (n *PolyNode) IsHole() bool {
	return n.depth%2 == 1
}

// GetNext returns the next node in depth-first order, or nil after the last node.
func (n *PolyNode) GetNext() *PolyNode {
	if 0 < len(n.childs) {
		return n.childs[0]
	}
	for ; n.parent != nil; n = n.parent {
		if n.index+1 < len(n.parent.childs) {
			return n.parent.childs[n.index+1]
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////

// PolyTree is the root of a result hierarchy. It has no contour itself.
type PolyTree struct {
	PolyNode
	total int
}

func newPolyTree(rings []Ring, parents []int) *PolyTree {
	tree := &PolyTree{total: len(rings)}
	tree.depth = -1
	nodes := make([]*PolyNode, len(rings))
	for i, r := range rings {
		nodes[i] = &PolyNode{contour: r.Copy()}
	}

	// rings are ordered and parents always have a larger area, so insert parents first
	var insert func(int)
	inserted := make([]bool, len(rings))
	insert = func(i int) {
		if inserted[i] {
			return
		}
		inserted[i] = true
		parent := &tree.PolyNode
		if parents[i] != -1 {
			insert(parents[i])
			parent = nodes[parents[i]]
		}
		n := nodes[i]
		n.parent = parent
		n.depth = parent.depth + 1
		parent.childs = append(parent.childs, n)
	}
	for i := range nodes {
		insert(i)
	}

	// children keep the ring order, independent of insertion order
	for _, n := range nodes {
		sortChilds(n.childs)
	}
	sortChilds(tree.childs)
	return tree
}

func sortChilds(childs []*PolyNode) {
	for i := 1; i < len(childs); i++ {
		for j := i; 0 < j && compareRings(childs[j].contour, childs[j-1].contour) < 0; j-- {
			childs[j], childs[j-1] = childs[j-1], childs[j]
		}
	}
	for i, child := range childs {
		child.index = i
	}
}

// GetFirst returns the first top-level contour, or nil if the tree is empty.
func (t *PolyTree) GetFirst() *PolyNode {
	if len(t.childs) == 0 {
		return nil
	}
	return t.childs[0]
}

// Total returns the number of contours in the tree.
func (t *PolyTree) Total() int {
	return t.total
}

// Empty returns true if the tree has no contours.
func (t *PolyTree) Empty() bool {
	return t.total == 0
}

// Walk calls f for every contour in depth-first order.
func (t *PolyTree) Walk(f func(*PolyNode)) {
	for n := t.GetFirst(); n != nil; n = n.GetNext() {
		f(n)
	}
}

// Rings returns all contours in depth-first order.
func (t *PolyTree) Rings() []Ring {
	rs := make([]Ring, 0, t.total)
	t.Walk(func(n *PolyNode) {
		rs = append(rs, n.contour)
	})
	return rs
}

// Outers returns the filled contours.
func (t *PolyTree) Outers() []Ring {
	var rs []Ring
	t.Walk(func(n *PolyNode) {
		if !n.IsHole() {
			rs = append(rs, n.contour)
		}
	})
	return rs
}

// Holes returns the contours at odd depth.
func (t *PolyTree) Holes() []Ring {
	var rs []Ring
	t.Walk(func(n *PolyNode) {
		if n.IsHole() {
			rs = append(rs, n.contour)
		}
	})
	return rs
}

// Area returns the total filled area.
func (t *PolyTree) Area() float64 {
	a := 0.0
	t.Walk(func(n *PolyNode) {
		a += n.contour.Area()
	})
	return a
}

////////////////////////////////////////////////////////////////

// ToOrb returns the tree as polygons, each filled contour followed by its holes. Islands inside holes become separate polygons.
func (t *PolyTree) ToOrb() orb.MultiPolygon {
	mp := orb.MultiPolygon{}
	t.Walk(func(n *PolyNode) {
		if n.IsHole() {
			return
		}
		poly := orb.Polygon{ringToOrb(n.contour)}
		for _, hole := range n.childs {
			poly = append(poly, ringToOrb(hole.contour))
		}
		mp = append(mp, poly)
	})
	return mp
}

func ringToOrb(r Ring) orb.Ring {
	or := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		x, y := FromFixed(p)
		or = append(or, orb.Point{x, y})
	}
	if 0 < len(r) {
		or = append(or, or[0])
	}
	return or
}

// RingFromOrb returns the ring for an orb ring, dropping the closing point.
func RingFromOrb(or orb.Ring) Ring {
	r := make(Ring, 0, len(or))
	for _, p := range or {
		r = append(r, Pt(p[0], p[1]))
	}
	return dedup(r)
}

// RingsFromOrb returns the rings of a polygon or multi polygon. Other geometries have no rings.
func RingsFromOrb(g orb.Geometry) []Ring {
	var rs []Ring
	switch g := g.(type) {
	case orb.Ring:
		rs = append(rs, RingFromOrb(g))
	case orb.Polygon:
		for _, or := range g {
			rs = append(rs, RingFromOrb(or))
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			rs = append(rs, RingsFromOrb(poly)...)
		}
	case orb.Bound:
		rs = append(rs, RingFromOrb(g.ToRing()))
	}
	return rs
}
