package floorplan

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/tdewolff/floorplan/transact"
)

// RequestType identifies a kind of request. The identifiers are opaque.
type RequestType string

// see RequestType
const (
	RequestAddWall               RequestType = "fp.request.AddWall"
	RequestChangeLayerThickness  RequestType = "fp.request.ChangeLayerThickness"
	RequestDrawPolygons          RequestType = "fp.request.DrawPolygons"
	RequestMoveWall              RequestType = "fp.request.MoveWall"
	RequestRejoinAdjacentWalls   RequestType = "fp.request.RejoinAdjacentWalls"
	RequestRebuildHoles          RequestType = "fp.request.RebuildHoles"
	RequestReorderEntities       RequestType = "fp.request.ReorderEntities"
	RequestChangeMoldingMaterial RequestType = "fp.request.ChangeMoldingMaterial"
	RequestMoveToLayer           RequestType = "fp.request.MoveToLayer"
	RequestDeleteEntities        RequestType = "fp.request.DeleteEntities"
	RequestMoveRoofOpening       RequestType = "fp.request.MoveRoofOpening"
)

type requestFactory func(ed *Editor, args map[string]any) (*transact.Request, error)

// requestFactories maps request types to constructors that take their arguments from a map, as found in request scripts. The keys of args match the argument names case insensitively.
var requestFactories = map[RequestType]requestFactory{
	RequestAddWall: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Layer    string
			From, To Point
			Width    float64
			Height   float64
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewAddWallRequest(ed, a.Layer, a.From, a.To, a.Width, a.Height), nil
	},
	RequestChangeLayerThickness: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Layer     string
			Thickness float64
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewChangeLayerThicknessRequest(ed, a.Layer, a.Thickness), nil
	},
	RequestDrawPolygons: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Layer    string
			Polygons []Polyline
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewDrawPolygonsRequest(ed, a.Layer, a.Polygons), nil
	},
	RequestMoveWall: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Wall  string
			Delta Point
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewMoveWallRequest(ed, a.Wall, a.Delta), nil
	},
	RequestRejoinAdjacentWalls: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Wall string
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewRejoinAdjacentWallsRequest(ed, a.Wall), nil
	},
	RequestRebuildHoles: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Layer string
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewRebuildHolesRequest(ed, a.Layer), nil
	},
	RequestReorderEntities: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Layer   string
			IDs     []string
			ToFront bool
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewReorderEntitiesRequest(ed, a.Layer, a.IDs, a.ToFront), nil
	},
	RequestChangeMoldingMaterial: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			IDs      []string
			Material string
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewChangeMoldingMaterialRequest(ed, a.IDs, a.Material), nil
	},
	RequestMoveToLayer: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			IDs    []string
			Target string
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewMoveToLayerRequest(ed, a.IDs, a.Target), nil
	},
	RequestDeleteEntities: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			IDs []string
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewDeleteEntitiesRequest(ed, a.IDs), nil
	},
	RequestMoveRoofOpening: func(ed *Editor, args map[string]any) (*transact.Request, error) {
		a := struct {
			Roof  string
			Index int
			Delta Point
		}{}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		return NewMoveRoofOpeningRequest(ed, a.Roof, a.Index, a.Delta), nil
	},
}

// RequestTypes returns all request types in alphabetical order.
func RequestTypes() []RequestType {
	typs := make([]RequestType, 0, len(requestFactories))
	for typ := range requestFactories {
		typs = append(typs, typ)
	}
	sort.Slice(typs, func(i, j int) bool {
		return typs[i] < typs[j]
	})
	return typs
}

// CreateRequest returns a request of the given type with its arguments taken from args. Unknown types and malformed or unused arguments are validation errors. The request is not committed.
func (ed *Editor) CreateRequest(typ RequestType, args map[string]any) (*transact.Request, error) {
	f, ok := requestFactories[typ]
	if !ok {
		return nil, transact.Validationf("unknown request type %q", typ)
	}
	return f(ed, args)
}

func decodeArgs(args map[string]any, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      v,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return transact.Validationf("arguments: %v", err)
	}
	return nil
}

////////////////////////////////////////////////////////////////

// stateOp is the base of all operations of this package. It captures entity state with a StateRequest and gives access to the editor.
type stateOp struct {
	*transact.StateRequest
	ed       *Editor
	category string
}

func newStateOp(ed *Editor, category string, filter func(string) bool) stateOp {
	return stateOp{
		StateRequest: transact.NewStateRequest(ed.Doc, filter),
		ed:           ed,
		category:     category,
	}
}

// Category returns the log grouping tag.
func (op *stateOp) Category() string {
	return op.category
}

// finish captures the state after a successful commit. After a failed commit, it restores what was transacted so far and returns err.
func (op *stateOp) finish(err error) error {
	if err == nil {
		return op.Capture()
	}
	if cerr := op.Capture(); cerr != nil {
		return errors.Join(err, cerr)
	} else if uerr := op.Undo(); uerr != nil {
		return errors.Join(err, fmt.Errorf("rollback: %w", uerr))
	}
	return err
}

// rebuildLayers transacts and rebuilds the given layers in order, skipping duplicates and layers that no longer exist.
func (op *stateOp) rebuildLayers(ids ...string) error {
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := op.ed.Doc.Entity(id); !ok {
			continue
		}
		l, err := op.ed.Doc.Layer(id)
		if err != nil {
			return err
		}
		if err := op.Transact(l); err != nil {
			return err
		}
		if err := op.ed.Topology.RebuildLayer(l); err != nil {
			return err
		}
	}
	return nil
}

// validIDs returns an error if ids is empty or has duplicates.
func validIDs(ids []string) error {
	if len(ids) == 0 {
		return transact.Validationf("no entities")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return transact.Validationf("duplicate entity %s", id)
		}
		seen[id] = true
	}
	return nil
}
