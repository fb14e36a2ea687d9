package transact

import (
	"bytes"
	"fmt"
	"slices"
)

// Fields is the dumped state of an entity, keyed by field name.
type Fields map[string]any

// Entity is an object whose fields can be captured and restored.
type Entity interface {
	ID() string
	Dump() Fields
	Load(Fields) error
}

// Store holds the entities that requests act on.
type Store interface {
	Entity(id string) (Entity, bool)
	Add(Entity) error
	Remove(id string) error
}

// TransactionType tells how an entity takes part in a StateRequest.
type TransactionType int

// see TransactionType
const (
	Modification TransactionType = iota
	Creation
	Deletion
)

func (typ TransactionType) String() string {
	switch typ {
	case Modification:
		return "Modification"
	case Creation:
		return "Creation"
	case Deletion:
		return "Deletion"
	}
	return fmt.Sprintf("TransactionType(%d)", typ)
}

type txnState struct {
	id     string
	typ    TransactionType
	entity Entity // kept for creations and deletions, which restore the entity itself
	before []byte
	after  []byte
}

// StateRequest captures the transactable fields of entities before and after a commit. Operations compose it to implement Undo and Redo: call Transact (or TransactCreate, TransactDelete) for every entity before mutating it, and Capture after all mutations.
//
// Entities are restored in the order in which they were first transacted, both on undo and redo.
type StateRequest struct {
	store    Store
	filter   func(string) bool
	states   []*txnState
	index    map[string]int
	captured bool
}

// NewStateRequest returns a StateRequest acting on store. The filter selects the fields that are captured, nil captures all fields.
func NewStateRequest(store Store, filter func(field string) bool) *StateRequest {
	return &StateRequest{
		store:  store,
		filter: filter,
		index:  map[string]int{},
	}
}

// Len returns the number of transacted entities.
func (s *StateRequest) Len() int {
	return len(s.states)
}

// IDs returns the identifiers of the transacted entities in order.
func (s *StateRequest) IDs() []string {
	ids := make([]string, len(s.states))
	for i, state := range s.states {
		ids[i] = state.id
	}
	return ids
}

// Type returns the transaction type of an entity.
func (s *StateRequest) Type(id string) (TransactionType, bool) {
	if i, ok := s.index[id]; ok {
		return s.states[i].typ, true
	}
	return 0, false
}

func (s *StateRequest) snapshot(e Entity) ([]byte, error) {
	fields := e.Dump()
	if s.filter != nil {
		for k := range fields {
			if !s.filter(k) {
				delete(fields, k)
			}
		}
	}
	b, err := Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("snapshot of %s: %w", e.ID(), err)
	}
	return b, nil
}

func (s *StateRequest) add(state *txnState) {
	s.index[state.id] = len(s.states)
	s.states = append(s.states, state)
}

// Transact captures the state of an entity that is about to be modified. Entities that were already transacted are ignored.
func (s *StateRequest) Transact(e Entity) error {
	if e == nil {
		return Referencef("transact of nil entity")
	} else if s.captured {
		return Statef("transact of %s after capture", e.ID())
	} else if _, ok := s.index[e.ID()]; ok {
		return nil
	}
	before, err := s.snapshot(e)
	if err != nil {
		return err
	}
	s.add(&txnState{id: e.ID(), typ: Modification, before: before})
	return nil
}

// TransactCreate adds a new entity to the store.
func (s *StateRequest) TransactCreate(e Entity) error {
	if e == nil {
		return Referencef("creation of nil entity")
	} else if s.captured {
		return Statef("creation of %s after capture", e.ID())
	} else if _, ok := s.index[e.ID()]; ok {
		return Statef("creation of transacted entity %s", e.ID())
	} else if _, ok := s.store.Entity(e.ID()); ok {
		return Statef("creation of existing entity %s", e.ID())
	}
	if err := s.store.Add(e); err != nil {
		return err
	}
	s.add(&txnState{id: e.ID(), typ: Creation, entity: e})
	return nil
}

// TransactDelete removes an entity from the store. An entity that was created by this request is simply forgotten.
func (s *StateRequest) TransactDelete(e Entity) error {
	if e == nil {
		return Referencef("deletion of nil entity")
	} else if s.captured {
		return Statef("deletion of %s after capture", e.ID())
	} else if _, ok := s.store.Entity(e.ID()); !ok {
		return Referencef("deletion of %s", e.ID())
	}

	if i, ok := s.index[e.ID()]; ok {
		state := s.states[i]
		if err := s.store.Remove(e.ID()); err != nil {
			return err
		}
		if state.typ == Creation {
			s.remove(i)
		} else {
			state.typ = Deletion
			state.entity = e
		}
		return nil
	}

	before, err := s.snapshot(e)
	if err != nil {
		return err
	}
	if err := s.store.Remove(e.ID()); err != nil {
		return err
	}
	s.add(&txnState{id: e.ID(), typ: Deletion, entity: e, before: before})
	return nil
}

func (s *StateRequest) remove(i int) {
	delete(s.index, s.states[i].id)
	s.states = slices.Delete(s.states, i, i+1)
	for j := i; j < len(s.states); j++ {
		s.index[s.states[j].id] = j
	}
}

// Capture records the state after the commit. It must be called once, after all mutations.
func (s *StateRequest) Capture() error {
	if s.captured {
		return Statef("double capture")
	}
	for _, state := range s.states {
		if state.typ == Deletion {
			continue
		}
		e := state.entity
		if e == nil {
			var ok bool
			if e, ok = s.store.Entity(state.id); !ok {
				return Referencef("capture of %s", state.id)
			}
		}
		after, err := s.snapshot(e)
		if err != nil {
			return err
		}
		state.after = after
	}
	s.captured = true
	return nil
}

// Changed returns true if any entity was created, deleted or has different fields after the commit.
func (s *StateRequest) Changed() bool {
	for _, state := range s.states {
		if state.typ != Modification || !bytes.Equal(state.before, state.after) {
			return true
		}
	}
	return false
}

// resolve returns the entities that must exist before restoring, failing before anything is touched.
func (s *StateRequest) resolve(undo bool) ([]Entity, error) {
	es := make([]Entity, len(s.states))
	for i, state := range s.states {
		mustExist := state.typ == Modification || undo && state.typ == Creation || !undo && state.typ == Deletion
		e, ok := s.store.Entity(state.id)
		if mustExist && !ok {
			return nil, Referencef("entity %s no longer exists", state.id)
		} else if !mustExist && ok {
			return nil, Statef("entity %s already exists", state.id)
		}
		es[i] = e
	}
	return es, nil
}

// Undo restores the state from before the commit.
func (s *StateRequest) Undo() error {
	if !s.captured {
		return Statef("undo before capture")
	}
	es, err := s.resolve(true)
	if err != nil {
		return err
	}
	for i, state := range s.states {
		switch state.typ {
		case Modification:
			err = load(es[i], state.before)
		case Creation:
			err = s.store.Remove(state.id)
		case Deletion:
			if err = load(state.entity, state.before); err == nil {
				err = s.store.Add(state.entity)
			}
		}
		if err != nil {
			return fmt.Errorf("undo of %s: %w", state.id, err)
		}
	}
	return nil
}

// Redo restores the state from after the commit.
func (s *StateRequest) Redo() error {
	if !s.captured {
		return Statef("redo before capture")
	}
	es, err := s.resolve(false)
	if err != nil {
		return err
	}
	for i, state := range s.states {
		switch state.typ {
		case Modification:
			err = load(es[i], state.after)
		case Creation:
			if err = load(state.entity, state.after); err == nil {
				err = s.store.Add(state.entity)
			}
		case Deletion:
			err = s.store.Remove(state.id)
		}
		if err != nil {
			return fmt.Errorf("redo of %s: %w", state.id, err)
		}
	}
	return nil
}

func load(e Entity, data []byte) error {
	fields := Fields{}
	if err := Unmarshal(data, &fields); err != nil {
		return err
	}
	return e.Load(fields)
}

// Merge absorbs a later StateRequest on the same store, keeping the earliest before state and the latest after state of every entity. Both requests must be captured.
func (s *StateRequest) Merge(next *StateRequest) bool {
	if s == next || !s.captured || !next.captured {
		return false
	}
	for _, n := range next.states {
		i, ok := s.index[n.id]
		if !ok {
			s.add(&txnState{id: n.id, typ: n.typ, entity: n.entity, before: n.before, after: n.after})
			continue
		}

		state := s.states[i]
		switch {
		case state.typ == Creation && n.typ == Deletion:
			s.remove(i)
		case state.typ == Creation:
			state.after = n.after
		case n.typ == Deletion:
			state.typ = Deletion
			state.entity = n.entity
			state.after = nil
		default:
			// deletion followed by creation of the same id, or a plain modification
			if state.typ == Deletion {
				state.typ = Modification
				state.entity = nil
			}
			state.after = n.after
		}
	}
	return true
}
