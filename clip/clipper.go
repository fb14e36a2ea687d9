package clip

import (
	"fmt"
	"math/big"
	"slices"
	"sync"
)

// maxSnapRounds is the number of times segments are re-intersected after snapping intersection points to the grid.
const maxSnapRounds = 16

// maxArenaEdges bounds the number of edges after splitting at intersections.
const maxArenaEdges = 1 << 21

// Clipper holds the subject and clip rings of a boolean operation.
type Clipper struct {
	Options
	paths [2][]Ring
}

// New returns a Clipper with the given options.
func New(opts Options) *Clipper {
	return &Clipper{Options: opts}
}

// AddPath adds a ring to the subject or clip set. Consecutive duplicate points are removed and the ring is closed implicitly.
func (c *Clipper) AddPath(r Ring, typ PolyType) error {
	if typ != Subject && typ != Clip {
		return fmt.Errorf("clip: invalid poly type %d", typ)
	}
	q := dedup(r)
	if len(q) < 3 {
		return ErrInvalidRing
	}
	for _, p := range q {
		if !inRange(p) {
			return fmt.Errorf("%w: %v", ErrCoordinateRange, pointString(p))
		}
	}
	c.paths[typ] = append(c.paths[typ], q)
	return nil
}

// AddPaths adds rings to the subject or clip set. No rings are added if any of them is invalid.
func (c *Clipper) AddPaths(rs []Ring, typ PolyType) error {
	if typ != Subject && typ != Clip {
		return fmt.Errorf("clip: invalid poly type %d", typ)
	}
	n := len(c.paths[typ])
	for _, r := range rs {
		if err := c.AddPath(r, typ); err != nil {
			c.paths[typ] = c.paths[typ][:n]
			return err
		}
	}
	return nil
}

// Clear removes all rings.
func (c *Clipper) Clear() {
	c.paths[Subject] = nil
	c.paths[Clip] = nil
}

// Execute runs the boolean operation and returns the result as a PolyTree. The intermediate solution is released before returning, on every path.
func (c *Clipper) Execute(mode ClipMode) (*PolyTree, error) {
	sol, err := c.Solve(mode)
	if err != nil {
		return nil, err
	}
	defer sol.Release()
	return sol.PolyTree(false)
}

// Solve runs the boolean operation and returns the raw solution. The caller owns the solution and must release it, either by calling Release or by converting it with PolyTree(true).
func (c *Clipper) Solve(mode ClipMode) (*Solution, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	sol := &Solution{
		mode:  mode,
		arena: arenaPool.Get().(*arena),
	}
	if err := sol.arena.solve(c.paths, c.Options, mode); err != nil {
		sol.Release()
		return nil, err
	}
	return sol, nil
}

// Boolean is a shorthand that returns the boolean operation of the subject and clip rings.
func Boolean(subject, clip []Ring, mode ClipMode, opts Options) (*PolyTree, error) {
	c := New(opts)
	if err := c.AddPaths(subject, Subject); err != nil {
		return nil, err
	}
	if err := c.AddPaths(clip, Clip); err != nil {
		return nil, err
	}
	return c.Execute(mode)
}

// Simplify returns the union of the rings with themselves using the given fill rule, removing all self-intersections and overlaps.
func Simplify(rs []Ring, fillRule FillRule) (*PolyTree, error) {
	opts := DefaultOptions
	opts.SubjectFill = fillRule
	return Boolean(rs, nil, Union, opts)
}

////////////////////////////////////////////////////////////////

// Solution is the raw result of a boolean operation. It holds a pooled arena that must be released exactly once; Release is idempotent and the solution cannot be used afterwards.
type Solution struct {
	mode  ClipMode
	arena *arena
}

// Mode returns the operation that produced the solution.
func (s *Solution) Mode() ClipMode {
	return s.mode
}

// Released returns true if the solution's resources have been returned.
func (s *Solution) Released() bool {
	return s.arena == nil
}

// Len returns the number of contours in the solution.
func (s *Solution) Len() int {
	if s.arena == nil {
		return 0
	}
	return len(s.arena.rings)
}

// Release returns the solution's arena to the pool.
func (s *Solution) Release() {
	if s.arena == nil {
		return
	}
	s.arena.reset()
	arenaPool.Put(s.arena)
	s.arena = nil
}

// PolyTree converts the solution into an owned PolyTree. If shouldDelete is true the solution is released afterwards.
func (s *Solution) PolyTree(shouldDelete bool) (*PolyTree, error) {
	if s.arena == nil {
		return nil, ErrSolutionReleased
	}
	if shouldDelete {
		defer s.Release()
	}
	return newPolyTree(s.arena.rings, s.arena.parents), nil
}

////////////////////////////////////////////////////////////////

var arenaPool = sync.Pool{New: func() any { return &arena{} }}

// segment is a directed input edge of either set.
type segment struct {
	a, b Point
	typ  PolyType
}

// edge is an undirected edge of the arrangement, stored with a before b. The winding holds the number of times each set traverses the edge from a to b, minus the times it traverses it from b to a.
type edge struct {
	a, b Point
	w    Winding
}

// halfEdge is a directed result edge with the result interior on its left.
type halfEdge struct {
	from, to Point
	used     bool
}

type arena struct {
	segs    []segment
	splits  [][]Point
	edges   []edge
	out     []halfEdge
	rings   []Ring
	parents []int
}

func (a *arena) reset() {
	a.segs = a.segs[:0]
	for i := range a.splits {
		a.splits[i] = a.splits[i][:0]
	}
	a.splits = a.splits[:0]
	a.edges = a.edges[:0]
	a.out = a.out[:0]
	a.rings = nil
	a.parents = nil
}

func (a *arena) solve(paths [2][]Ring, opts Options, mode ClipMode) error {
	maxEdges := opts.maxEdges()
	for typ, rs := range paths {
		n := 0
		for _, r := range rs {
			for i := range r {
				a.segs = append(a.segs, segment{r[i], r[(i+1)%len(r)], PolyType(typ)})
			}
			n += len(r)
		}
		if maxEdges < n {
			return fmt.Errorf("%w: %d edges in %s set exceed %d", ErrResource, n, polyTypeName(PolyType(typ)), maxEdges)
		}
	}

	if err := a.split(); err != nil {
		return err
	}
	a.merge()
	a.classify(opts, mode)
	if err := a.trace(); err != nil {
		return err
	}
	a.finish(opts)
	return nil
}

func polyTypeName(typ PolyType) string {
	if typ == Clip {
		return "clip"
	}
	return "subject"
}

// split cuts all segments at their mutual intersections. Intersection points are rounded to the grid, which may introduce new intersections, so this repeats until no segment needs splitting.
func (a *arena) split() error {
	for round := 0; ; round++ {
		for len(a.splits) < len(a.segs) {
			a.splits = append(a.splits, nil)
		}
		found := false
		for i := range a.segs {
			s := a.segs[i]
			for j := i + 1; j < len(a.segs); j++ {
				t := a.segs[j]
				if max(s.a.X, s.b.X) < min(t.a.X, t.b.X) || max(t.a.X, t.b.X) < min(s.a.X, s.b.X) ||
					max(s.a.Y, s.b.Y) < min(t.a.Y, t.b.Y) || max(t.a.Y, t.b.Y) < min(s.a.Y, s.b.Y) {
					continue
				}
				if a.intersect(i, j) {
					found = true
				}
			}
		}
		if !found {
			return nil
		} else if round == maxSnapRounds {
			return fmt.Errorf("%w: intersections did not converge", ErrResource)
		}

		segs := make([]segment, 0, len(a.segs))
		for i, s := range a.segs {
			segs = appendSplit(segs, s, a.splits[i])
			a.splits[i] = a.splits[i][:0]
		}
		if maxArenaEdges < len(segs) {
			return fmt.Errorf("%w: %d edges after splitting", ErrResource, len(segs))
		}
		a.segs = segs
	}
}

// intersect records the points where segments i and j must be split and returns true if there are any.
func (a *arena) intersect(i, j int) bool {
	s, t := a.segs[i], a.segs[j]
	d1, d2 := sign(cross(s.a, s.b, t.a)), sign(cross(s.a, s.b, t.b))
	d3, d4 := sign(cross(t.a, t.b, s.a)), sign(cross(t.a, t.b, s.b))

	found := false
	add := func(k int, p Point) {
		seg := a.segs[k]
		if inSegment(p, seg.a, seg.b) {
			a.splits[k] = append(a.splits[k], p)
			found = true
		}
	}
	if d1*d2 < 0 && d3*d4 < 0 {
		// the snapped point is generally not on either segment
		p := intersectionPoint(s.a, s.b, t.a, t.b)
		if p != s.a && p != s.b {
			a.splits[i] = append(a.splits[i], p)
			found = true
		}
		if p != t.a && p != t.b {
			a.splits[j] = append(a.splits[j], p)
			found = true
		}
		return found
	}
	// touching or collinear overlap, only endpoints can split the other segment
	if d1 == 0 {
		add(i, t.a)
	}
	if d2 == 0 {
		add(i, t.b)
	}
	if d3 == 0 {
		add(j, s.a)
	}
	if d4 == 0 {
		add(j, s.b)
	}
	return found
}

// intersectionPoint returns the grid point closest to the intersection of the lines AB and CD, which must cross properly. Ties are rounded away from zero, so the result does not depend on the order of the segments nor on their direction.
func intersectionPoint(a, b, c, d Point) Point {
	rx, ry := int64(b.X-a.X), int64(b.Y-a.Y)
	qx, qy := int64(d.X-c.X), int64(d.Y-c.Y)
	den := rx*qy - ry*qx
	num := int64(c.X-a.X)*qy - int64(c.Y-a.Y)*qx
	return Point{
		X: fixedInt(lerpRound(int64(a.X), rx, num, den)),
		Y: fixedInt(lerpRound(int64(a.Y), ry, num, den)),
	}
}

var bigOne = big.NewInt(1)

// lerpRound returns base + f*num/den rounded half away from zero, computed exactly.
func lerpRound(base, f, num, den int64) int64 {
	n := new(big.Int).Mul(big.NewInt(f), big.NewInt(num))
	d := big.NewInt(den)
	n.Add(n, new(big.Int).Mul(big.NewInt(base), d))
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	m.Abs(m).Lsh(m, 1)
	if d.Cmp(m) <= 0 {
		if n.Sign() < 0 {
			q.Sub(q, bigOne)
		} else {
			q.Add(q, bigOne)
		}
	}
	return q.Int64()
}

// appendSplit appends segment s cut at the given points, keeping its direction.
func appendSplit(segs []segment, s segment, ps []Point) []segment {
	if len(ps) == 0 {
		return append(segs, s)
	}
	slices.SortFunc(ps, func(p, q Point) int {
		dp, dq := dot(s.a, s.b, p), dot(s.a, s.b, q)
		if dp < dq {
			return -1
		} else if dq < dp {
			return 1
		}
		return 0
	})
	ps = slices.Compact(ps)
	prev := s.a
	for _, p := range ps {
		segs = append(segs, segment{prev, p, s.typ})
		prev = p
	}
	return append(segs, segment{prev, s.b, s.typ})
}

// merge combines coincident segments into undirected edges, summing their windings. Edges that cancel out are removed.
func (a *arena) merge() {
	type key struct{ a, b Point }
	index := make(map[key]int, len(a.segs))
	for _, s := range a.segs {
		k, dir := key{s.a, s.b}, 1
		if less(s.b, s.a) {
			k, dir = key{s.b, s.a}, -1
		}
		i, ok := index[k]
		if !ok {
			i = len(a.edges)
			index[k] = i
			a.edges = append(a.edges, edge{a: k.a, b: k.b})
		}
		if s.typ == Subject {
			a.edges[i].w.Add(dir, 0)
		} else {
			a.edges[i].w.Add(0, dir)
		}
	}

	edges := a.edges[:0]
	for _, e := range a.edges {
		if e.w != 0 {
			edges = append(edges, e)
		}
	}
	slices.SortFunc(edges, func(e, f edge) int {
		if c := comparePoints(e.a, f.a); c != 0 {
			return c
		}
		return comparePoints(e.b, f.b)
	})
	a.edges = edges
}

// classify determines for each edge whether the regions to its left and right are in the result, and emits the edges that separate them, directed with the result on their left.
//
// The winding on one side of an edge is found by casting a ray in the +x direction from the edge's midpoint (shifted infinitesimally upwards) and accumulating the windings of all other edges. For non-horizontal edges that is the winding right of the edge in the x direction, for horizontal edges it is the winding above. The other side differs by the edge's own winding.
func (a *arena) classify(opts Options, mode ClipMode) {
	for i, e := range a.edges {
		px, py := int64(e.a.X)+int64(e.b.X), int64(e.a.Y)+int64(e.b.Y)
		var w Winding
		for j, f := range a.edges {
			if j == i {
				continue
			}
			ax, ay, bx, by := 2*int64(f.a.X), 2*int64(f.a.Y), 2*int64(f.b.X), 2*int64(f.b.Y)
			if ay <= py {
				if py < by && 0 < (bx-ax)*(py-ay)-(by-ay)*(px-ax) {
					w += f.w
				}
			} else if by <= py && (bx-ax)*(py-ay)-(by-ay)*(px-ax) < 0 {
				w -= f.w
			}
		}

		var left, right Winding
		if e.a.Y < e.b.Y {
			left, right = w+e.w, w
		} else {
			left, right = w, w-e.w
		}
		inLeft, inRight := opts.inResult(mode, left), opts.inResult(mode, right)
		if inLeft && !inRight {
			a.out = append(a.out, halfEdge{from: e.a, to: e.b})
		} else if !inLeft && inRight {
			a.out = append(a.out, halfEdge{from: e.b, to: e.a})
		}
	}
}

// trace links the result edges into closed contours. At vertices with several outgoing edges it takes the sharpest left turn, and contours that visit a vertex twice are split there so that all contours are simple.
func (a *arena) trace() error {
	outgoing := make(map[Point][]int, len(a.out))
	for i, h := range a.out {
		outgoing[h.from] = append(outgoing[h.from], i)
	}

	for i := range a.out {
		if a.out[i].used {
			continue
		}
		start := a.out[i].from
		walk := []Point{start}
		cur := i
		a.out[cur].used = true
		for {
			h := a.out[cur]
			next := -1
			for _, k := range outgoing[h.to] {
				if a.out[k].used {
					continue
				} else if next == -1 || sharperLeft(h.from, h.to, a.out[k].to, a.out[next].to) {
					next = k
				}
			}
			if next == -1 {
				if h.to != start {
					return fmt.Errorf("%w: open contour at %v", ErrResource, pointString(h.to))
				}
				break
			}
			walk = append(walk, h.to)
			a.out[next].used = true
			cur = next
		}
		a.rings = append(a.rings, splitWalk(walk)...)
	}
	return nil
}

// turnClass returns the class of the turn from direction OA to AB: a reversal first, then left turns, going straight and right turns.
func turnClass(o, a, b Point) int {
	dx1, dy1 := int64(a.X-o.X), int64(a.Y-o.Y)
	dx2, dy2 := int64(b.X-a.X), int64(b.Y-a.Y)
	c := dx1*dy2 - dy1*dx2
	switch {
	case c == 0 && dx1*dx2+dy1*dy2 < 0:
		return 0
	case 0 < c:
		return 1
	case c == 0:
		return 2
	}
	return 3
}

// sharperLeft returns true if arriving at A from O, continuing to B1 is a sharper left turn than continuing to B2.
func sharperLeft(o, a, b1, b2 Point) bool {
	c1, c2 := turnClass(o, a, b1), turnClass(o, a, b2)
	if c1 != c2 {
		return c1 < c2
	}
	return 0 < cross(a, b2, b1)
}

// splitWalk splits a closed walk at repeated vertices into simple rings.
func splitWalk(walk []Point) []Ring {
	var rings []Ring
	stack := make([]Point, 0, len(walk))
	index := make(map[Point]int, len(walk))
	for _, p := range walk {
		if k, ok := index[p]; ok {
			rings = append(rings, Ring(slices.Clone(stack[k:])))
			for _, q := range stack[k+1:] {
				delete(index, q)
			}
			stack = stack[:k+1]
			continue
		}
		index[p] = len(stack)
		stack = append(stack, p)
	}
	return append(rings, Ring(stack))
}

// finish cleans and orders the contours and finds the parent of each contour.
func (a *arena) finish(opts Options) {
	rings := a.rings[:0]
	for _, r := range a.rings {
		if !opts.PreserveCollinear {
			r = r.Clean()
		}
		if 3 <= len(r) && r.area2() != 0 {
			rings = append(rings, r.normalize())
		}
	}
	slices.SortFunc(rings, compareRings)
	a.rings = rings

	// the parent is the smallest contour enclosing the midpoint of the contour's first edge, contours never cross or share edges
	areas := make([]int64, len(rings))
	for i, r := range rings {
		areas[i] = r.area2()
		if areas[i] < 0 {
			areas[i] = -areas[i]
		}
	}
	a.parents = make([]int, len(rings))
	for i, r := range rings {
		a.parents[i] = -1
		px, py := int64(r[0].X)+int64(r[1].X), int64(r[0].Y)+int64(r[1].Y)
		for j, q := range rings {
			if j == i || areas[j] <= areas[i] || a.parents[i] != -1 && areas[a.parents[i]] <= areas[j] {
				continue
			}
			if windingNumber(q, px, py, 2) != 0 {
				a.parents[i] = j
			}
		}
	}
}
