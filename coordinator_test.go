package floorplan

import (
	"errors"
	"testing"

	"github.com/tdewolff/floorplan/clip"
	"github.com/tdewolff/floorplan/transact"
	"github.com/tdewolff/test"
)

func TestRebuildLayerUnion(t *testing.T) {
	ed := newTestEditor(t, DefaultConfig())
	l := addLayer(t, ed, nil)
	test.Error(t, ed.Commit(NewDrawPolygonsRequest(ed, l.ID(), []Polyline{
		Rectangle(0, 0, 1, 1),
		Rectangle(0.5, 0.5, 1, 1),
	})))
	test.T(t, len(l.Faces), 1)
	test.T(t, len(l.Holes), 0)
	test.String(t, polylinesString(l.Faces), "[0; 0] [1; 0] [1; 0.5] [1.5; 0.5] [1.5; 1.5] [0.5; 1.5] [0.5; 1] [0; 1]")
	test.Float(t, l.Area(), 1.75)
}

func TestRebuildLayerBoundary(t *testing.T) {
	ed := newTestEditor(t, DefaultConfig())
	l := addLayer(t, ed, Rectangle(0, 0, 10, 10))
	mustAddWall(t, ed, l, Point{0, 5}, Point{10, 5}, 2)
	test.String(t, polylinesString(l.Faces), "[0; 4] [10; 4] [10; 6] [0; 6]")
	test.String(t, polylinesString(l.Holes), "[0; 0] [10; 0] [10; 4] [0; 4]\n[0; 6] [10; 6] [10; 10] [0; 10]")
	test.Float(t, l.Area(), 20.0)

	// a rebuild without changes gives the same topology
	faces, holes := polylinesString(l.Faces), polylinesString(l.Holes)
	test.Error(t, ed.Topology.RebuildLayer(l))
	test.String(t, polylinesString(l.Faces), faces)
	test.String(t, polylinesString(l.Holes), holes)
}

func TestRebuildLayerGaps(t *testing.T) {
	ed := newTestEditor(t, DefaultConfig())
	l := addLayer(t, ed, nil)

	// four walls enclosing a room of 8x8
	mustAddWall(t, ed, l, Point{0, 0}, Point{10, 0}, 2)
	mustAddWall(t, ed, l, Point{10, 0}, Point{10, 10}, 2)
	mustAddWall(t, ed, l, Point{10, 10}, Point{0, 10}, 2)
	mustAddWall(t, ed, l, Point{0, 10}, Point{0, 0}, 2)
	test.T(t, len(l.Faces), 2)
	test.String(t, polylinesString(l.Holes), "[1; 1] [9; 1] [9; 9] [1; 9]")
	test.Float(t, l.Holes[0].SignedArea(), 64.0)
	test.Float(t, l.Area(), 4*20.0-4*1.0)
}

func TestRebuildRoof(t *testing.T) {
	ed := newTestEditor(t, DefaultConfig())
	r := NewRoof(Rectangle(0, 0, 10, 10), 30, Rectangle(2, 2, 2, 2), Rectangle(9, 9, 2, 2))
	test.Error(t, ed.Doc.Add(r))
	test.Error(t, ed.Topology.RebuildRoof(r))
	test.String(t, polylinesString(r.Holes), "[2; 2] [4; 2] [4; 4] [2; 4]\n[9; 9] [10; 9] [10; 10] [9; 10]")
	test.T(t, len(r.Faces), 2)
	area := 0.0
	for _, face := range r.Faces {
		area += face.SignedArea()
	}
	test.Float(t, area, 100.0-4.0-1.0)
}

func TestRebuildErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEdges = 4
	ed := newTestEditor(t, cfg)
	l := addLayer(t, ed, nil)
	mustAddWall(t, ed, l, Point{0, 0}, Point{10, 0}, 2)

	// two walls have eight edges
	err := ed.Commit(NewAddWallRequest(ed, l.ID(), Point{0, 5}, Point{10, 5}, 2, 250))
	test.That(t, errors.Is(err, transact.ErrKernelResource), err)
	test.That(t, errors.Is(err, clip.ErrResource), err)
	test.T(t, len(l.Members), 1)
	test.T(t, len(ed.Doc.Walls()), 1)

	// a dangling member
	l.Members = append(l.Members, "missing")
	test.That(t, errors.Is(ed.Topology.RebuildLayer(l), transact.ErrValidation))
}

func TestKernelError(t *testing.T) {
	test.That(t, errors.Is(kernelError(clip.ErrResource, "x"), transact.ErrKernelResource))
	test.That(t, errors.Is(kernelError(clip.ErrSolutionReleased, "x"), transact.ErrKernelResource))
	test.That(t, errors.Is(kernelError(clip.ErrInvalidRing, "x"), transact.ErrValidation))
	test.That(t, errors.Is(kernelError(clip.ErrCoordinateRange, "x"), clip.ErrCoordinateRange))
	err := kernelError(errors.New("other"), "layer %s", "L")
	test.That(t, !errors.Is(err, transact.ErrValidation))
	test.String(t, err.Error(), "layer L: other")
}
