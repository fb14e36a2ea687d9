package floorplan

import (
	"fmt"
	"slices"

	"github.com/tdewolff/floorplan/transact"
)

type changeMoldingMaterial struct {
	stateOp
	ids      []string
	material string
}

// NewChangeMoldingMaterialRequest returns a request that sets the material of moldings, in the given order. Only the material is captured for undo.
func NewChangeMoldingMaterialRequest(ed *Editor, ids []string, material string) *transact.Request {
	op := &changeMoldingMaterial{
		ids:      copyStrings(ids),
		material: material,
	}
	op.stateOp = newStateOp(ed, "molding", op.CanTransactField)
	return transact.NewRequest(string(RequestChangeMoldingMaterial), op)
}

func (op *changeMoldingMaterial) Commit() error {
	if op.material == "" {
		return transact.Validationf("empty material")
	} else if err := validIDs(op.ids); err != nil {
		return err
	}
	ms := make([]*Molding, 0, len(op.ids))
	for _, id := range op.ids {
		m, err := op.ed.Doc.Molding(id)
		if err != nil {
			return err
		}
		ms = append(ms, m)
	}

	for _, m := range ms {
		if err := op.Transact(m); err != nil {
			return op.finish(err)
		}
		m.Material = op.material
	}
	return op.finish(nil)
}

func (op *changeMoldingMaterial) CanTransactField(field string) bool {
	return field == FieldMaterial
}

func (op *changeMoldingMaterial) Description() string {
	return fmt.Sprintf("change material of %d moldings to %s", len(op.ids), op.material)
}

////////////////////////////////////////////////////////////////

type moveToLayer struct {
	stateOp
	ids    []string
	target string
}

// NewMoveToLayerRequest returns a request that moves walls and regions to the top of the target layer, in the given order, and rebuilds the topology of the source and target layers.
func NewMoveToLayerRequest(ed *Editor, ids []string, target string) *transact.Request {
	op := &moveToLayer{
		ids:    copyStrings(ids),
		target: target,
	}
	op.stateOp = newStateOp(ed, "layer", nil)
	return transact.NewRequest(string(RequestMoveToLayer), op)
}

func (op *moveToLayer) Commit() error {
	if err := validIDs(op.ids); err != nil {
		return err
	}
	target, err := op.ed.Doc.Layer(op.target)
	if err != nil {
		return err
	}
	solids := make([]Solid, 0, len(op.ids))
	for _, id := range op.ids {
		s, err := op.ed.Doc.Solid(id)
		if err != nil {
			return err
		} else if s.LayerID() != "" && s.LayerID() != target.ID() {
			if _, err := op.ed.Doc.Layer(s.LayerID()); err != nil {
				return err
			}
		}
		solids = append(solids, s)
	}

	layers := []string{}
	for _, s := range solids {
		layers = append(layers, s.LayerID())
		if err = op.move(s, target); err != nil {
			break
		}
	}
	if err == nil {
		layers = append(layers, target.ID())
		err = op.rebuildLayers(layers...)
	}
	return op.finish(err)
}

func (op *moveToLayer) move(s Solid, target *Layer) error {
	if s.LayerID() == target.ID() {
		return nil
	}
	if err := op.Transact(s); err != nil {
		return err
	}
	if s.LayerID() != "" {
		src, err := op.ed.Doc.Layer(s.LayerID())
		if err != nil {
			return err
		} else if err := op.Transact(src); err != nil {
			return err
		}
		src.removeMember(s.ID())
	}
	if err := op.Transact(target); err != nil {
		return err
	}
	target.addMember(s.ID())
	s.setLayerID(target.ID())
	return nil
}

func (op *moveToLayer) Description() string {
	return fmt.Sprintf("move %d entities to layer %s", len(op.ids), op.target)
}

////////////////////////////////////////////////////////////////

type deleteEntities struct {
	stateOp
	ids     []string
	deleted []string
}

// NewDeleteEntitiesRequest returns a request that deletes entities in the given order and rebuilds the topology of the affected layers. Deleting a wall also deletes its moldings. A layer can only be deleted together with all of its members.
func NewDeleteEntitiesRequest(ed *Editor, ids []string) *transact.Request {
	op := &deleteEntities{
		ids: copyStrings(ids),
	}
	op.stateOp = newStateOp(ed, "entity", nil)
	return transact.NewRequest(string(RequestDeleteEntities), op)
}

func (op *deleteEntities) Commit() error {
	if err := validIDs(op.ids); err != nil {
		return err
	}
	es := make([]Entity, 0, len(op.ids))
	del := map[string]bool{}
	for _, id := range op.ids {
		e, err := op.ed.Doc.Get(id)
		if err != nil {
			return err
		}
		es = append(es, e)
		del[id] = true
	}
	for _, e := range es {
		if l, ok := e.(*Layer); ok {
			for _, id := range l.Members {
				if !del[id] {
					return transact.Validationf("layer %s still has member %s", l.ID(), id)
				}
			}
		}
	}

	var err error
	layers := []string{}
	for _, e := range es {
		if s, ok := e.(Solid); ok {
			layers = append(layers, s.LayerID())
		}
		if err = op.delete(e); err != nil {
			break
		}
	}
	if err == nil {
		err = op.rebuildLayers(layers...)
	}
	return op.finish(err)
}

func (op *deleteEntities) delete(e Entity) error {
	if _, ok := op.ed.Doc.Entity(e.ID()); !ok {
		// already deleted together with its host
		return nil
	}
	switch e := e.(type) {
	case Solid:
		// the layer may have been deleted by this request already
		if id := e.LayerID(); id != "" && !slices.Contains(op.deleted, id) {
			l, err := op.ed.Doc.Layer(id)
			if err != nil {
				return err
			}
			if err := op.Transact(l); err != nil {
				return err
			}
			l.removeMember(e.ID())
		}
		if w, ok := e.(*Wall); ok {
			for _, m := range op.ed.Doc.Moldings(w.ID()) {
				if err := op.delete(m); err != nil {
					return err
				}
			}
		}
	}
	if err := op.TransactDelete(e); err != nil {
		return err
	}
	op.deleted = append(op.deleted, e.ID())
	return nil
}

// Deleted returns the identifiers of the deleted entities, including the moldings of deleted walls.
func (op *deleteEntities) Deleted() []string {
	return op.deleted
}

func (op *deleteEntities) Description() string {
	return fmt.Sprintf("delete %d entities", len(op.ids))
}
