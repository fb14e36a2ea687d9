package floorplan

import (
	"math"
	"strings"

	"github.com/tdewolff/floorplan/clip"
)

// Polyline defines a list of points in plan space that form a closed outline. If the last coordinate equals the first coordinate, the closing point is ignored; otherwise the outline is closed implicitly.
type Polyline []Point

// PolylineFromRing returns the plan outline of a kernel ring.
func PolylineFromRing(r clip.Ring) Polyline {
	p := make(Polyline, len(r))
	for i, q := range r {
		p[i] = PointFromFixed(q)
	}
	return p
}

// Rectangle returns the counter clockwise outline of a rectangle.
func Rectangle(x, y, w, h float64) Polyline {
	return Polyline{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

// Closed returns true if the last point coincides with the first.
func (p Polyline) Closed() bool {
	return 1 < len(p) && p[0].Equals(p[len(p)-1])
}

// coords returns the points without the closing point.
func (p Polyline) coords() []Point {
	if p.Closed() {
		return p[:len(p)-1]
	}
	return p
}

// Len returns the number of vertices.
func (p Polyline) Len() int {
	return len(p.coords())
}

// Copy returns a copy that does not share memory with p.
func (p Polyline) Copy() Polyline {
	if p == nil {
		return nil
	}
	return append(Polyline{}, p...)
}

// Reverse returns the polyline in opposite direction.
func (p Polyline) Reverse() Polyline {
	q := make(Polyline, len(p))
	for i, coord := range p {
		q[len(p)-1-i] = coord
	}
	return q
}

// Translate returns the polyline moved by d.
func (p Polyline) Translate(d Point) Polyline {
	q := make(Polyline, len(p))
	for i, coord := range p {
		q[i] = coord.Add(d)
	}
	return q
}

// FillCount returns the number of times the test point is enclosed by the polyline. Counter clockwise enclosures are counted positively and clockwise enclosures negatively.
func (p Polyline) FillCount(x, y float64) int {
	coords := p.coords()
	if len(coords) == 0 {
		return 0
	}
	test := Point{x, y}
	count := 0
	prevCoord := coords[len(coords)-1]
	for _, coord := range coords {
		// see https://wrf.ecse.rpi.edu//Research/Short_Notes/pnpoly.html
		if (test.Y < coord.Y) != (test.Y < prevCoord.Y) &&
			test.X < (prevCoord.X-coord.X)*(test.Y-coord.Y)/(prevCoord.Y-coord.Y)+coord.X {
			if prevCoord.Y < coord.Y {
				count++
			} else {
				count--
			}
		}
		prevCoord = coord
	}
	return count
}

// Interior is true when the point (x,y) is in the interior of the polyline, i.e. gets filled. This depends on the fill rule.
func (p Polyline) Interior(x, y float64, fillRule clip.FillRule) bool {
	return fillRule.Fills(p.FillCount(x, y))
}

// SignedArea returns the polygon's area, positive for counter clockwise outlines.
func (p Polyline) SignedArea() float64 {
	coords := p.coords()
	a := 0.0
	for i := range coords {
		a += coords[i].PerpDot(coords[(i+1)%len(coords)])
	}
	return a / 2.0
}

// Area returns the polygon's area.
func (p Polyline) Area() float64 {
	return math.Abs(p.SignedArea())
}

// CCW returns true if the outline winds counter clockwise.
func (p Polyline) CCW() bool {
	return 0.0 < p.SignedArea()
}

// Centroid returns the center point of the polygon.
func (p Polyline) Centroid() Point {
	coords := p.coords()
	n := len(coords)
	if n == 0 {
		return Point{}
	} else if n == 1 {
		return coords[0]
	} else if n == 2 {
		return coords[0].Interpolate(coords[1], 0.5)
	}

	c := Point{}
	for i := 0; i < n; i++ {
		f := coords[i].PerpDot(coords[(i+1)%n])
		c = c.Add(coords[i].Add(coords[(i+1)%n]).Mul(f))
	}
	return c.Div(6.0 * p.SignedArea())
}

// Bounds returns the bounding box.
func (p Polyline) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	x0, y0, x1, y1 := p[0].X, p[0].Y, p[0].X, p[0].Y
	for _, coord := range p[1:] {
		x0, y0 = math.Min(x0, coord.X), math.Min(y0, coord.Y)
		x1, y1 = math.Max(x1, coord.X), math.Max(y1, coord.Y)
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Ring returns the outline snapped to the kernel grid.
func (p Polyline) Ring() clip.Ring {
	coords := p.coords()
	r := make(clip.Ring, len(coords))
	for i, coord := range coords {
		r[i] = coord.Fixed()
	}
	return r
}

// Valid returns an error wrapping clip.ErrInvalidRing or clip.ErrCoordinateRange if the outline cannot be used as a polygon: it must have finite coordinates within the kernel's range, at least three distinct grid points, a non-zero area and no self-intersections.
func (p Polyline) Valid() error {
	for _, coord := range p {
		if !finite(coord.X, coord.Y) || clip.MaxCoord < math.Abs(coord.X)*4096.0 || clip.MaxCoord < math.Abs(coord.Y)*4096.0 {
			return clip.ErrCoordinateRange
		}
	}
	r := p.Ring()
	if len(r.Clean()) < 3 || r.SelfIntersects() {
		return clip.ErrInvalidRing
	}
	return nil
}

func (p Polyline) String() string {
	sb := strings.Builder{}
	for i, coord := range p {
		if i != 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(coord.String())
	}
	return sb.String()
}

func polylinesToRings(ps []Polyline) []clip.Ring {
	rs := make([]clip.Ring, 0, len(ps))
	for _, p := range ps {
		rs = append(rs, p.Ring())
	}
	return rs
}

func polylinesFromRings(rs []clip.Ring) []Polyline {
	ps := make([]Polyline, 0, len(rs))
	for _, r := range rs {
		ps = append(ps, PolylineFromRing(r))
	}
	return ps
}
