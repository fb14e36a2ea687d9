// Package floorplan holds the architectural entities of a floor plan (layers, walls, regions, roofs and moldings), the document that owns them and the undoable requests that edit them. After every edit that changes outlines, the faces and holes of the affected layers and roofs are rebuilt with the polygon kernel in package clip.
package floorplan

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/tdewolff/floorplan/transact"
)

// Fields is the dumped state of an entity. Besides its own fields, a dump always has the keys "tp" (entity type) and "id".
type Fields = transact.Fields

// Entity is an object of the floor plan. The set of entity types is closed, see NewEntity.
type Entity interface {
	transact.Entity
	Type() string
	setID(string)
}

// Solid is an entity that covers an area of its layer.
type Solid interface {
	Entity
	LayerID() string
	Outline() Polyline
	setLayerID(string)
}

type entity struct {
	id string
}

// ID returns the unique identifier.
func (e *entity) ID() string {
	return e.id
}

func (e *entity) setID(id string) {
	e.id = id
}

func newID() string {
	return uuid.NewString()
}

////////////////////////////////////////////////////////////////

// registry maps entity types to their constructors. It is filled at initialization and never changes afterwards.
var registry = map[string]func() Entity{
	"Layer":   func() Entity { return &Layer{} },
	"Wall":    func() Entity { return &Wall{} },
	"Region":  func() Entity { return &Region{} },
	"Roof":    func() Entity { return &Roof{} },
	"Molding": func() Entity { return &Molding{} },
}

// EntityTypes returns the registered entity types in alphabetical order.
func EntityTypes() []string {
	tps := make([]string, 0, len(registry))
	for tp := range registry {
		tps = append(tps, tp)
	}
	sort.Strings(tps)
	return tps
}

// NewEntity returns a new entity of type tp with a fresh identifier.
func NewEntity(tp string) (Entity, error) {
	f, ok := registry[tp]
	if !ok {
		return nil, transact.Validationf("unknown entity type %q", tp)
	}
	e := f()
	e.setID(newID())
	return e, nil
}

// LoadEntity returns the entity described by a dump. The dump must have the keys "tp" and "id".
func LoadEntity(fields Fields) (Entity, error) {
	tp, _ := fields["tp"].(string)
	id, _ := fields["id"].(string)
	if id == "" {
		return nil, transact.Validationf("%s entity without id", tp)
	}
	e, err := NewEntity(tp)
	if err != nil {
		return nil, err
	}
	e.setID(id)
	if err := e.Load(fields); err != nil {
		return nil, err
	}
	return e, nil
}

// dump returns the fields of an entity together with its type and identifier.
func dump(e Entity, fields Fields) Fields {
	fields["tp"] = e.Type()
	fields["id"] = e.ID()
	return fields
}

// decodeFields decodes the fields into the exported fields of v, leaving fields that are absent untouched. Slices are replaced, never merged.
func decodeFields(fields Fields, v Entity) error {
	if tp, ok := fields["tp"]; ok && tp != v.Type() {
		return transact.Validationf("load of %v into %s %s", tp, v.Type(), v.ID())
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ZeroFields:       true,
		WeaklyTypedInput: false,
		Result:           v,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(fields)); err != nil {
		return fmt.Errorf("%w: %s %s: %v", transact.ErrValidation, v.Type(), v.ID(), err)
	}
	return nil
}

func copyPolylines(ps []Polyline) []Polyline {
	if ps == nil {
		return nil
	}
	qs := make([]Polyline, len(ps))
	for i, p := range ps {
		qs[i] = p.Copy()
	}
	return qs
}

func copyStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	return append([]string{}, ss...)
}
