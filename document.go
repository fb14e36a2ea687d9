package floorplan

import (
	"fmt"
	"io"
	"sort"

	"github.com/tdewolff/floorplan/transact"
)

// Document owns the entities of a floor plan. It implements transact.Store. Entities keep their position in the document when they are removed and added again, so that undoing a deletion gives back the same dump.
type Document struct {
	entities map[string]Entity
	seq      map[string]int
	next     int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		entities: map[string]Entity{},
		seq:      map[string]int{},
	}
}

// Len returns the number of entities.
func (doc *Document) Len() int {
	return len(doc.entities)
}

// Entity returns the entity with the given identifier.
func (doc *Document) Entity(id string) (transact.Entity, bool) {
	e, ok := doc.entities[id]
	return e, ok
}

// Get returns the entity with the given identifier, or an error wrapping transact.ErrValidation when it does not exist.
func (doc *Document) Get(id string) (Entity, error) {
	if e, ok := doc.entities[id]; ok {
		return e, nil
	}
	return nil, transact.Validationf("no entity %s", id)
}

// Add adds an entity. Only entities of this package can be added.
func (doc *Document) Add(e transact.Entity) error {
	fe, ok := e.(Entity)
	if !ok {
		return transact.Validationf("foreign entity %T", e)
	} else if _, ok := doc.entities[e.ID()]; ok {
		return transact.Statef("duplicate entity %s", e.ID())
	}
	doc.entities[e.ID()] = fe
	if _, ok := doc.seq[e.ID()]; !ok {
		doc.seq[e.ID()] = doc.next
		doc.next++
	}
	return nil
}

// Remove removes an entity.
func (doc *Document) Remove(id string) error {
	if _, ok := doc.entities[id]; !ok {
		return transact.Referencef("removal of %s", id)
	}
	delete(doc.entities, id)
	return nil
}

// Entities returns all entities in document order.
func (doc *Document) Entities() []Entity {
	es := make([]Entity, 0, len(doc.entities))
	for _, e := range doc.entities {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool {
		return doc.seq[es[i].ID()] < doc.seq[es[j].ID()]
	})
	return es
}

func get[T Entity](doc *Document, id string) (T, error) {
	var zero T
	e, err := doc.Get(id)
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, transact.Validationf("entity %s is a %s, not a %s", id, e.Type(), zero.Type())
	}
	return t, nil
}

func all[T Entity](doc *Document) []T {
	var ts []T
	for _, e := range doc.Entities() {
		if t, ok := e.(T); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// Layer returns the layer with the given identifier.
func (doc *Document) Layer(id string) (*Layer, error) {
	return get[*Layer](doc, id)
}

// Wall returns the wall with the given identifier.
func (doc *Document) Wall(id string) (*Wall, error) {
	return get[*Wall](doc, id)
}

// Region returns the region with the given identifier.
func (doc *Document) Region(id string) (*Region, error) {
	return get[*Region](doc, id)
}

// Roof returns the roof with the given identifier.
func (doc *Document) Roof(id string) (*Roof, error) {
	return get[*Roof](doc, id)
}

// Molding returns the molding with the given identifier.
func (doc *Document) Molding(id string) (*Molding, error) {
	return get[*Molding](doc, id)
}

// Solid returns the wall or region with the given identifier.
func (doc *Document) Solid(id string) (Solid, error) {
	e, err := doc.Get(id)
	if err != nil {
		return nil, err
	}
	s, ok := e.(Solid)
	if !ok {
		return nil, transact.Validationf("entity %s is a %s, not a solid", id, e.Type())
	}
	return s, nil
}

// Layers returns all layers in document order.
func (doc *Document) Layers() []*Layer {
	return all[*Layer](doc)
}

// Walls returns all walls in document order.
func (doc *Document) Walls() []*Wall {
	return all[*Wall](doc)
}

// Roofs returns all roofs in document order.
func (doc *Document) Roofs() []*Roof {
	return all[*Roof](doc)
}

// Moldings returns the moldings hosted by a wall in document order.
func (doc *Document) Moldings(host string) []*Molding {
	var ms []*Molding
	for _, m := range all[*Molding](doc) {
		if m.Host == host {
			ms = append(ms, m)
		}
	}
	return ms
}

// Bounds returns the bounding box of all solids, layer boundaries and roofs.
func (doc *Document) Bounds() Rect {
	r := Rect{}
	for _, e := range doc.Entities() {
		switch e := e.(type) {
		case Solid:
			r = r.Add(e.Outline().Bounds())
		case *Layer:
			r = r.Add(e.Boundary.Bounds())
		case *Roof:
			r = r.Add(e.Contour.Bounds())
		}
	}
	return r
}

// Dump returns the dumps of all entities in document order.
func (doc *Document) Dump() []Fields {
	dumps := make([]Fields, 0, len(doc.entities))
	for _, e := range doc.Entities() {
		dumps = append(dumps, e.Dump())
	}
	return dumps
}

// Load adds the entities described by the dumps. Nothing is added if any dump is invalid or if a layer references a missing member.
func (doc *Document) Load(dumps []Fields) error {
	es := make([]Entity, 0, len(dumps))
	ids := map[string]Entity{}
	for i, fields := range dumps {
		e, err := LoadEntity(fields)
		if err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		} else if _, ok := ids[e.ID()]; ok {
			return transact.Validationf("duplicate entity %s", e.ID())
		} else if _, ok := doc.entities[e.ID()]; ok {
			return transact.Validationf("duplicate entity %s", e.ID())
		}
		ids[e.ID()] = e
		es = append(es, e)
	}
	for _, e := range es {
		if l, ok := e.(*Layer); ok {
			for _, id := range l.Members {
				member, ok := ids[id]
				if !ok {
					member = doc.entities[id]
				}
				if _, ok := member.(Solid); !ok {
					return transact.Validationf("layer %s member %s is not a solid", l.ID(), id)
				}
			}
		}
	}
	for _, e := range es {
		if err := doc.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the document as CBOR.
func (doc *Document) Save(w io.Writer) error {
	b, err := transact.Marshal(doc.Dump())
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Open reads a document written by Save.
func Open(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dumps := []Fields{}
	if err := transact.Unmarshal(b, &dumps); err != nil {
		return nil, fmt.Errorf("%w: %v", transact.ErrValidation, err)
	}
	doc := NewDocument()
	if err := doc.Load(dumps); err != nil {
		return nil, err
	}
	return doc, nil
}
