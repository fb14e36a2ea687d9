// Package transact implements undoable requests, atomic sessions of requests and an undo/redo history. Requests wrap an Operation that mutates entities; StateRequest is a helper that captures the transactable fields of entities before and after a commit so that operations get exact undo and redo for free.
package transact

import (
	"fmt"

	"github.com/google/uuid"
)

// Operation is the mutation carried by a Request. Commit applies it and must leave everything untouched when it fails validation. Undo restores the state from before Commit and Redo reapplies the committed effect from data stored during Commit, without validating again.
type Operation interface {
	Commit() error
	Undo() error
	Redo() error
}

// Describer is implemented by operations that provide a description and a category. The category groups requests in logs and metrics.
type Describer interface {
	Description() string
	Category() string
}

// FieldFilter is implemented by operations that restrict which entity fields are captured for undo.
type FieldFilter interface {
	CanTransactField(field string) bool
}

// Composer is implemented by operations that can absorb a subsequent operation of the same request type, so that both form a single undo step. The receiver keeps its own before state and takes over the after state of next.
type Composer interface {
	Compose(next Operation) bool
}

// Changer is implemented by operations that know whether their commit changed anything.
type Changer interface {
	Changed() bool
}

// State is the lifecycle state of a Request.
type State int

// see State
const (
	Created State = iota
	Committed
	Undone
	Discarded
	Poisoned
)

func (state State) String() string {
	switch state {
	case Created:
		return "Created"
	case Committed:
		return "Committed"
	case Undone:
		return "Undone"
	case Discarded:
		return "Discarded"
	case Poisoned:
		return "Poisoned"
	}
	return fmt.Sprintf("State(%d)", state)
}

// Request is an undoable unit of work. Its type is an opaque identifier such as "fp.request.MoveWall".
type Request struct {
	id    uuid.UUID
	typ   string
	op    Operation
	state State
}

// NewRequest returns a request of the given type wrapping op.
func NewRequest(typ string, op Operation) *Request {
	return &Request{
		id:  uuid.New(),
		typ: typ,
		op:  op,
	}
}

// ID returns the unique request identifier.
func (r *Request) ID() uuid.UUID {
	return r.id
}

// Type returns the request type.
func (r *Request) Type() string {
	return r.typ
}

// Operation returns the wrapped operation.
func (r *Request) Operation() Operation {
	return r.op
}

// State returns the lifecycle state.
func (r *Request) State() State {
	return r.state
}

// Description returns a human readable description, the request type by default.
func (r *Request) Description() string {
	if d, ok := r.op.(Describer); ok && d.Description() != "" {
		return d.Description()
	}
	return r.typ
}

// Category returns the log grouping tag.
func (r *Request) Category() string {
	if d, ok := r.op.(Describer); ok {
		return d.Category()
	}
	return ""
}

// CanTransactField returns true if the field is captured for undo. All fields are captured unless the operation says otherwise.
func (r *Request) CanTransactField(field string) bool {
	if f, ok := r.op.(FieldFilter); ok {
		return f.CanTransactField(field)
	}
	return true
}

// Changed returns false if the operation reports that its commit left everything as it was.
func (r *Request) Changed() bool {
	if c, ok := r.op.(Changer); ok {
		return c.Changed()
	}
	return true
}

// Commit applies the request. A request can be committed only once; if the commit fails the request is discarded.
func (r *Request) Commit() error {
	if r.state != Created {
		return Statef("commit of %s request %s", r.state, r.typ)
	}
	if err := r.op.Commit(); err != nil {
		r.state = Discarded
		return err
	}
	r.state = Committed
	return nil
}

// Undo reverts a committed request. If it fails the request is poisoned and cannot be used anymore.
func (r *Request) Undo() error {
	if r.state != Committed {
		return Statef("undo of %s request %s", r.state, r.typ)
	}
	if err := r.op.Undo(); err != nil {
		r.state = Poisoned
		return err
	}
	r.state = Undone
	return nil
}

// Redo reapplies an undone request. If it fails the request is poisoned and cannot be used anymore.
func (r *Request) Redo() error {
	if r.state != Undone {
		return Statef("redo of %s request %s", r.state, r.typ)
	}
	if err := r.op.Redo(); err != nil {
		r.state = Poisoned
		return err
	}
	r.state = Committed
	return nil
}

// compose merges next into r if both have the same type and r's operation accepts it.
func (r *Request) compose(next *Request) bool {
	if r.typ != next.typ || r.state != Committed || next.state != Committed {
		return false
	}
	c, ok := r.op.(Composer)
	return ok && c.Compose(next.op)
}

func (r *Request) String() string {
	return fmt.Sprintf("%s(%s)", r.typ, r.id)
}
