package floorplan

import (
	"fmt"
	"slices"

	"github.com/tdewolff/floorplan/transact"
)

type changeLayerThickness struct {
	stateOp
	layer     string
	thickness float64
}

// NewChangeLayerThicknessRequest returns a request that sets the slab thickness of a layer. Only the slab thickness is captured for undo.
func NewChangeLayerThicknessRequest(ed *Editor, layer string, thickness float64) *transact.Request {
	op := &changeLayerThickness{
		layer:     layer,
		thickness: thickness,
	}
	op.stateOp = newStateOp(ed, "layer", op.CanTransactField)
	return transact.NewRequest(string(RequestChangeLayerThickness), op)
}

func (op *changeLayerThickness) Commit() error {
	if !finite(op.thickness) || op.thickness <= 0.0 {
		return transact.Validationf("slab thickness %g", op.thickness)
	}
	l, err := op.ed.Doc.Layer(op.layer)
	if err != nil {
		return err
	}
	if err := op.Transact(l); err != nil {
		return err
	}
	l.SlabThickness = op.thickness
	return op.finish(nil)
}

func (op *changeLayerThickness) CanTransactField(field string) bool {
	return field == FieldSlabThickness
}

func (op *changeLayerThickness) Description() string {
	return fmt.Sprintf("change slab thickness of layer %s to %g", op.layer, op.thickness)
}

// Compose merges a subsequent thickness change of the same layer.
func (op *changeLayerThickness) Compose(next transact.Operation) bool {
	n, ok := next.(*changeLayerThickness)
	return ok && n.layer == op.layer && op.Merge(n.StateRequest)
}

////////////////////////////////////////////////////////////////

type drawPolygons struct {
	stateOp
	layer    string
	polygons []Polyline
	regions  []string
}

// NewDrawPolygonsRequest returns a request that adds a region for every polygon to the top of a layer and rebuilds the layer's topology.
func NewDrawPolygonsRequest(ed *Editor, layer string, polygons []Polyline) *transact.Request {
	op := &drawPolygons{
		layer:    layer,
		polygons: copyPolylines(polygons),
	}
	op.stateOp = newStateOp(ed, "region", nil)
	return transact.NewRequest(string(RequestDrawPolygons), op)
}

func (op *drawPolygons) Commit() error {
	if len(op.polygons) == 0 {
		return transact.Validationf("no polygons")
	}
	for i, p := range op.polygons {
		if err := p.Valid(); err != nil {
			return transact.Validationf("polygon %d: %v", i, err)
		}
	}
	l, err := op.ed.Doc.Layer(op.layer)
	if err != nil {
		return err
	}

	if err := op.Transact(l); err != nil {
		return err
	}
	for _, p := range op.polygons {
		r := NewRegion(p)
		r.Layer = l.ID()
		if err = op.TransactCreate(r); err != nil {
			break
		}
		l.addMember(r.ID())
		op.regions = append(op.regions, r.ID())
	}
	if err == nil {
		err = op.rebuildLayers(l.ID())
	}
	return op.finish(err)
}

// Regions returns the identifiers of the created regions.
func (op *drawPolygons) Regions() []string {
	return op.regions
}

func (op *drawPolygons) Description() string {
	return fmt.Sprintf("draw %d polygons on layer %s", len(op.polygons), op.layer)
}

////////////////////////////////////////////////////////////////

type rebuildHoles struct {
	stateOp
	layer string
}

// NewRebuildHolesRequest returns a request that rebuilds the faces and holes of a layer.
func NewRebuildHolesRequest(ed *Editor, layer string) *transact.Request {
	op := &rebuildHoles{
		layer: layer,
	}
	op.stateOp = newStateOp(ed, "layer", op.CanTransactField)
	return transact.NewRequest(string(RequestRebuildHoles), op)
}

func (op *rebuildHoles) Commit() error {
	if _, err := op.ed.Doc.Layer(op.layer); err != nil {
		return err
	}
	return op.finish(op.rebuildLayers(op.layer))
}

func (op *rebuildHoles) CanTransactField(field string) bool {
	return field == FieldFaces || field == FieldHoles
}

func (op *rebuildHoles) Description() string {
	return fmt.Sprintf("rebuild holes of layer %s", op.layer)
}

////////////////////////////////////////////////////////////////

type reorderEntities struct {
	stateOp
	layer   string
	ids     []string
	toFront bool
}

// NewReorderEntitiesRequest returns a request that moves members of a layer to the top (toFront) or the bottom of its z-order. The moved members keep the order in which they are given.
func NewReorderEntitiesRequest(ed *Editor, layer string, ids []string, toFront bool) *transact.Request {
	op := &reorderEntities{
		layer:   layer,
		ids:     copyStrings(ids),
		toFront: toFront,
	}
	op.stateOp = newStateOp(ed, "layer", nil)
	return transact.NewRequest(string(RequestReorderEntities), op)
}

func (op *reorderEntities) Commit() error {
	if err := validIDs(op.ids); err != nil {
		return err
	}
	l, err := op.ed.Doc.Layer(op.layer)
	if err != nil {
		return err
	}
	for _, id := range op.ids {
		if l.Index(id) == -1 {
			return transact.Validationf("entity %s is not on layer %s", id, op.layer)
		}
	}

	if err := op.Transact(l); err != nil {
		return err
	}
	rest := slices.DeleteFunc(slices.Clone(l.Members), func(id string) bool {
		return slices.Contains(op.ids, id)
	})
	if op.toFront {
		l.Members = append(rest, op.ids...)
	} else {
		l.Members = append(copyStrings(op.ids), rest...)
	}
	return op.finish(op.rebuildLayers(l.ID()))
}

func (op *reorderEntities) Description() string {
	if op.toFront {
		return fmt.Sprintf("bring %d entities to front", len(op.ids))
	}
	return fmt.Sprintf("send %d entities to back", len(op.ids))
}
