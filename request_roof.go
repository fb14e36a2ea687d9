package floorplan

import (
	"fmt"

	"github.com/tdewolff/floorplan/transact"
)

type moveRoofOpening struct {
	stateOp
	roof  string
	index int
	delta Point
}

// NewMoveRoofOpeningRequest returns a request that translates an opening of a roof by delta and rebuilds the roof's faces.
func NewMoveRoofOpeningRequest(ed *Editor, roof string, index int, delta Point) *transact.Request {
	op := &moveRoofOpening{
		roof:  roof,
		index: index,
		delta: delta,
	}
	op.stateOp = newStateOp(ed, "roof", nil)
	return transact.NewRequest(string(RequestMoveRoofOpening), op)
}

func (op *moveRoofOpening) Commit() error {
	if !finite(op.delta.X, op.delta.Y) {
		return transact.Validationf("delta %v", op.delta)
	}
	r, err := op.ed.Doc.Roof(op.roof)
	if err != nil {
		return err
	} else if op.index < 0 || len(r.Openings) <= op.index {
		return transact.Validationf("roof %s has no opening %d", r.ID(), op.index)
	}
	opening := r.Openings[op.index].Translate(op.delta)
	if err := opening.Valid(); err != nil {
		return transact.Validationf("opening %d: %v", op.index, err)
	}

	if err := op.Transact(r); err != nil {
		return err
	}
	openings := copyPolylines(r.Openings)
	openings[op.index] = opening
	r.Openings = openings
	return op.finish(op.ed.Topology.RebuildRoof(r))
}

func (op *moveRoofOpening) Description() string {
	return fmt.Sprintf("move opening %d of roof %s by %v", op.index, op.roof, op.delta)
}

// Compose merges a subsequent move of the same opening.
func (op *moveRoofOpening) Compose(next transact.Operation) bool {
	n, ok := next.(*moveRoofOpening)
	if !ok || n.roof != op.roof || n.index != op.index || !op.Merge(n.StateRequest) {
		return false
	}
	op.delta = op.delta.Add(n.delta)
	return true
}
