package floorplan

import (
	"fmt"
	"math"

	"github.com/tdewolff/floorplan/transact"
)

type addWall struct {
	stateOp
	layer         string
	from, to      Point
	width, height float64
	wall          string
}

// NewAddWallRequest returns a request that adds a wall to the top of a layer.
func NewAddWallRequest(ed *Editor, layer string, from, to Point, width, height float64) *transact.Request {
	op := &addWall{
		layer:  layer,
		from:   from,
		to:     to,
		width:  width,
		height: height,
	}
	op.stateOp = newStateOp(ed, "wall", nil)
	return transact.NewRequest(string(RequestAddWall), op)
}

func (op *addWall) Commit() error {
	w := NewWall(op.from, op.to, op.width, op.height)
	if err := w.Valid(); err != nil {
		return transact.Validationf("%v", err)
	}
	l, err := op.ed.Doc.Layer(op.layer)
	if err != nil {
		return err
	}

	if err := op.Transact(l); err != nil {
		return err
	}
	w.Layer = l.ID()
	if err := op.TransactCreate(w); err != nil {
		return op.finish(err)
	}
	l.addMember(w.ID())
	op.wall = w.ID()
	return op.finish(op.rebuildLayers(l.ID()))
}

// Wall returns the identifier of the created wall.
func (op *addWall) Wall() string {
	return op.wall
}

func (op *addWall) Description() string {
	return fmt.Sprintf("add wall %v--%v to layer %s", op.from, op.to, op.layer)
}

////////////////////////////////////////////////////////////////

type moveWall struct {
	stateOp
	wall  string
	delta Point
}

// NewMoveWallRequest returns a request that translates a wall by delta and rebuilds the topology of its layer.
func NewMoveWallRequest(ed *Editor, wall string, delta Point) *transact.Request {
	op := &moveWall{
		wall:  wall,
		delta: delta,
	}
	op.stateOp = newStateOp(ed, "wall", nil)
	return transact.NewRequest(string(RequestMoveWall), op)
}

func (op *moveWall) Commit() error {
	if !finite(op.delta.X, op.delta.Y) {
		return transact.Validationf("delta %v", op.delta)
	}
	w, err := op.ed.Doc.Wall(op.wall)
	if err != nil {
		return err
	}
	moved := *w
	moved.From, moved.To = w.From.Add(op.delta), w.To.Add(op.delta)
	if err := moved.Valid(); err != nil {
		return transact.Validationf("%v", err)
	}

	if err := op.Transact(w); err != nil {
		return err
	}
	w.From, w.To = moved.From, moved.To
	return op.finish(op.rebuildLayers(w.Layer))
}

func (op *moveWall) Description() string {
	return fmt.Sprintf("move wall %s by %v", op.wall, op.delta)
}

// Compose merges a subsequent move of the same wall, such as the steps of a drag.
func (op *moveWall) Compose(next transact.Operation) bool {
	n, ok := next.(*moveWall)
	if !ok || n.wall != op.wall || !op.Merge(n.StateRequest) {
		return false
	}
	op.delta = op.delta.Add(n.delta)
	return true
}

////////////////////////////////////////////////////////////////

type rejoinAdjacentWalls struct {
	stateOp
	wall   string
	joined []string
}

// NewRejoinAdjacentWallsRequest returns a request that merges a wall with the walls that continue it in a straight line. A neighbour is merged if it shares an endpoint that no other wall uses, is collinear and has the same width and height. The merged neighbours are deleted and their moldings move to the wall. The request fails with a validation error if the wall crosses another wall without a joint.
func NewRejoinAdjacentWallsRequest(ed *Editor, wall string) *transact.Request {
	op := &rejoinAdjacentWalls{
		wall: wall,
	}
	op.stateOp = newStateOp(ed, "wall", nil)
	return transact.NewRequest(string(RequestRejoinAdjacentWalls), op)
}

func (op *rejoinAdjacentWalls) Commit() error {
	w, err := op.ed.Doc.Wall(op.wall)
	if err != nil {
		return err
	}
	var others []*Wall
	for _, other := range op.ed.Doc.Walls() {
		if other != w && other.Layer == w.Layer {
			if wallsCross(w, other) {
				return transact.Validationf("wall %s crosses wall %s without a joint", w.ID(), other.ID())
			}
			others = append(others, other)
		}
	}

	from, to := w.From, w.To
	var joined []*Wall
	for {
		neighbour, end := adjacentWall(from, to, w, others, joined)
		if neighbour == nil {
			break
		}
		if end == 0 {
			from = farEnd(neighbour, from)
		} else {
			to = farEnd(neighbour, to)
		}
		joined = append(joined, neighbour)
	}
	if len(joined) == 0 {
		return op.finish(nil)
	}

	if err := op.Transact(w); err != nil {
		return err
	}
	w.From, w.To = from, to
	err = op.absorb(w, joined)
	if err == nil {
		err = op.rebuildLayers(w.Layer)
	}
	return op.finish(err)
}

// absorb deletes the joined walls, moving their moldings to w.
func (op *rejoinAdjacentWalls) absorb(w *Wall, joined []*Wall) error {
	if w.Layer != "" {
		l, err := op.ed.Doc.Layer(w.Layer)
		if err != nil {
			return err
		}
		if err := op.Transact(l); err != nil {
			return err
		}
		for _, j := range joined {
			l.removeMember(j.ID())
		}
	}
	for _, j := range joined {
		for _, m := range op.ed.Doc.Moldings(j.ID()) {
			if err := op.Transact(m); err != nil {
				return err
			}
			m.Host = w.ID()
		}
		if err := op.TransactDelete(j); err != nil {
			return err
		}
		op.joined = append(op.joined, j.ID())
	}
	return nil
}

// Joined returns the identifiers of the deleted neighbours.
func (op *rejoinAdjacentWalls) Joined() []string {
	return op.joined
}

func (op *rejoinAdjacentWalls) Description() string {
	return fmt.Sprintf("rejoin walls adjacent to %s", op.wall)
}

// adjacentWall returns a wall that continues the segment from-to at one of its ends (0 for from, 1 for to).
func adjacentWall(from, to Point, w *Wall, others, joined []*Wall) (*Wall, int) {
	for end, p := range []Point{from, to} {
		var candidate *Wall
		count := 0
		for _, other := range others {
			if containsWall(joined, other) || !other.From.Equals(p) && !other.To.Equals(p) {
				continue
			}
			count++
			candidate = other
		}
		if count != 1 || candidate.Width != w.Width || candidate.Height != w.Height {
			continue
		}
		dir := to.Sub(from).Norm(1.0)
		odir := farEnd(candidate, p).Sub(p).Norm(1.0)
		if end == 0 {
			dir = dir.Neg()
		}
		if equal(dir.PerpDot(odir), 0.0) && 0.0 < dir.Dot(odir) {
			return candidate, end
		}
	}
	return nil, 0
}

func containsWall(ws []*Wall, w *Wall) bool {
	for _, v := range ws {
		if v == w {
			return true
		}
	}
	return false
}

// farEnd returns the endpoint of w that is not p.
func farEnd(w *Wall, p Point) Point {
	if w.From.Equals(p) {
		return w.To
	}
	return w.From
}

// wallsCross returns true if the centrelines of a and b have a point in common other than a shared endpoint.
func wallsCross(a, b *Wall) bool {
	if a.From.Equals(b.From) || a.From.Equals(b.To) || a.To.Equals(b.From) || a.To.Equals(b.To) {
		return false
	}
	d1, d2 := orient(a.From, a.To, b.From), orient(a.From, a.To, b.To)
	d3, d4 := orient(b.From, b.To, a.From), orient(b.From, b.To, a.To)
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return d1 == 0 && between(b.From, a.From, a.To) || d2 == 0 && between(b.To, a.From, a.To) ||
		d3 == 0 && between(a.From, b.From, b.To) || d4 == 0 && between(a.To, b.From, b.To)
}

// orient returns the side of line OA that B lies on, with tolerance Epsilon relative to the lengths involved.
func orient(o, a, b Point) int {
	c := a.Sub(o).PerpDot(b.Sub(o))
	if math.Abs(c) <= Epsilon*math.Max(1.0, a.Sub(o).Length()*b.Sub(o).Length()) {
		return 0
	} else if c < 0.0 {
		return -1
	}
	return 1
}

// between returns true if p lies within the bounding box of AB.
func between(p, a, b Point) bool {
	return math.Min(a.X, b.X)-Epsilon <= p.X && p.X <= math.Max(a.X, b.X)+Epsilon &&
		math.Min(a.Y, b.Y)-Epsilon <= p.Y && p.Y <= math.Max(a.Y, b.Y)+Epsilon
}
