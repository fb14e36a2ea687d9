package floorplan

import (
	"errors"
	"math"
	"testing"

	"github.com/tdewolff/floorplan/transact"
	"github.com/tdewolff/test"
)

func TestEntityTypes(t *testing.T) {
	test.T(t, EntityTypes(), []string{"Layer", "Molding", "Region", "Roof", "Wall"})
	for _, tp := range EntityTypes() {
		e, err := NewEntity(tp)
		test.Error(t, err)
		test.T(t, e.Type(), tp)
		test.That(t, e.ID() != "")
	}
	_, err := NewEntity("Stairs")
	test.That(t, errors.Is(err, transact.ErrValidation))
}

func TestLoadEntity(t *testing.T) {
	w := NewWall(Point{0, 0}, Point{0.1, math.Pi}, 0.2, 2.5)
	w.Layer = "L"

	// through the snapshot codec
	b, err := transact.Marshal(w.Dump())
	test.Error(t, err)
	fields := Fields{}
	test.Error(t, transact.Unmarshal(b, &fields))
	test.T(t, fields["tp"], any("Wall"))

	e, err := LoadEntity(fields)
	test.Error(t, err)
	w2, ok := e.(*Wall)
	test.That(t, ok)
	test.T(t, w2.ID(), w.ID())
	test.T(t, w2.From, w.From)
	test.T(t, w2.To, w.To)
	test.T(t, w2.Width, 0.2)
	test.T(t, w2.Layer, "L")

	// from YAML-like maps with integer values and lower case keys
	e, err = LoadEntity(Fields{
		"tp":       "Layer",
		"id":       "ground",
		"boundary": []any{map[string]any{"x": 0, "y": 0}, map[string]any{"x": 10, "y": 0}, map[string]any{"x": 10, "y": 10}},
		"members":  []any{"a", "b"},
		"height":   250,
	})
	test.Error(t, err)
	l := e.(*Layer)
	test.T(t, l.ID(), "ground")
	test.T(t, l.Height, 250.0)
	test.String(t, l.Boundary.String(), "[0; 0] [10; 0] [10; 10]")
	test.T(t, l.Members, []string{"a", "b"})

	_, err = LoadEntity(Fields{"tp": "Wall"})
	test.That(t, errors.Is(err, transact.ErrValidation))
	_, err = LoadEntity(Fields{"tp": "Stairs", "id": "s"})
	test.That(t, errors.Is(err, transact.ErrValidation))
	_, err = LoadEntity(Fields{"tp": "Wall", "id": "w", "width": "wide"})
	test.That(t, errors.Is(err, transact.ErrValidation))
}

func TestEntityLoadPartial(t *testing.T) {
	l := NewLayer("ground", 60, 250)
	l.Members = []string{"a", "b", "c"}
	test.Error(t, l.Load(Fields{"slabThickness": 100.0}))
	test.T(t, l.SlabThickness, 100.0)
	test.T(t, l.Height, 250.0)
	test.T(t, len(l.Members), 3)

	// slices are replaced, never merged
	test.Error(t, l.Load(Fields{"members": []any{"x"}}))
	test.T(t, l.Members, []string{"x"})
	test.Error(t, l.Load(Fields{"members": nil}))
	test.T(t, len(l.Members), 0)

	err := l.Load(Fields{"tp": "Wall"})
	test.That(t, errors.Is(err, transact.ErrValidation))
}

func TestWallOutline(t *testing.T) {
	w := NewWall(Point{0, 0}, Point{10, 0}, 2, 250)
	test.String(t, w.Outline().String(), "[0; -1] [10; -1] [10; 1] [0; 1]")
	test.That(t, w.Outline().CCW())
	test.Float(t, w.Length(), 10.0)
	test.Error(t, w.Valid())

	test.That(t, NewWall(Point{0, 0}, Point{0, 0}, 2, 250).Valid() != nil)
	test.That(t, NewWall(Point{0, 0}, Point{1, 0}, 0, 250).Valid() != nil)
	test.That(t, NewWall(Point{0, 0}, Point{math.Inf(1), 0}, 1, 250).Valid() != nil)
}
