package floorplan

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/tdewolff/floorplan/clip"
	"github.com/tdewolff/test"
)

func TestPolyline(t *testing.T) {
	p := Polyline{{10, 0}, {20, 10}, {10, 10}}
	test.T(t, p.Len(), 3)
	test.That(t, !p.Closed())
	test.That(t, append(p, Point{10, 0}).Closed())
	test.T(t, append(p, Point{10, 0}).Len(), 3)
	test.String(t, p.String(), "[10; 0] [20; 10] [10; 10]")

	test.T(t, p.FillCount(12, 5), 1)
	test.T(t, p.Reverse().FillCount(12, 5), -1)
	test.T(t, p.FillCount(5, 5), 0)
	test.That(t, p.Interior(12, 5, clip.NonZero))
	test.That(t, !p.Interior(5, 5, clip.NonZero))
	test.That(t, p.Interior(12, 5, clip.EvenOdd))
	test.That(t, p.Interior(12, 5, clip.Positive))
	test.That(t, !p.Interior(12, 5, clip.Negative))

	test.Float(t, p.SignedArea(), 50.0)
	test.Float(t, p.Reverse().SignedArea(), -50.0)
	test.Float(t, p.Reverse().Area(), 50.0)
	test.That(t, p.CCW())
	test.T(t, p.Bounds(), Rect{10, 0, 10, 10})
	test.T(t, p.Translate(Point{1, 2}), Polyline{{11, 2}, {21, 12}, {11, 12}})
}

func TestPolylineCentroid(t *testing.T) {
	var tts = []struct {
		p        Polyline
		centroid Point
	}{
		{Polyline{}, Point{}},
		{Polyline{{1, 2}}, Point{1, 2}},
		{Polyline{{0, 0}, {2, 2}}, Point{1, 1}},
		{Rectangle(0, 0, 4, 2), Point{2, 1}},
		{Rectangle(0, 0, 4, 2).Reverse(), Point{2, 1}},
		{Polyline{{0, 0}, {3, 0}, {0, 3}, {0, 0}}, Point{1, 1}},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			c := tt.centroid
			test.That(t, tt.p.Centroid().Equals(c), tt.p.Centroid(), "!=", c)
		})
	}
}

func TestPolylineRing(t *testing.T) {
	p := Rectangle(0, 0, 1, 1)
	r := p.Ring()
	test.T(t, len(r), 4)
	test.Float(t, r.Area(), 1.0)
	test.T(t, PolylineFromRing(r), p)

	// the closing point is dropped
	test.T(t, len(append(p, Point{0, 0}).Ring()), 4)
}

func TestPolylineValid(t *testing.T) {
	var tts = []struct {
		name string
		p    Polyline
		err  error
	}{
		{"square", Rectangle(0, 0, 1, 1), nil},
		{"closed", append(Rectangle(0, 0, 1, 1), Point{0, 0}), nil},
		{"empty", Polyline{}, clip.ErrInvalidRing},
		{"two points", Polyline{{0, 0}, {1, 0}, {0, 0}}, clip.ErrInvalidRing},
		{"collinear", Polyline{{0, 0}, {1, 0}, {2, 0}}, clip.ErrInvalidRing},
		{"below grid", Polyline{{0, 0}, {1e-5, 0}, {0, 1e-5}}, clip.ErrInvalidRing},
		{"bow tie", Polyline{{0, 0}, {1, 1}, {1, 0}, {0, 1}}, clip.ErrInvalidRing},
		{"out of range", Rectangle(0, 0, 1e6, 1), clip.ErrCoordinateRange},
		{"nan", Polyline{{0, 0}, {1, 0}, {math.NaN(), 1}}, clip.ErrCoordinateRange},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Valid()
			if tt.err == nil {
				test.Error(t, err)
			} else {
				test.That(t, errors.Is(err, tt.err), err)
			}
		})
	}
}
