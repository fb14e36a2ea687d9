package clip

import (
	"slices"
	"strings"
)

// Ring is a closed contour, the last point connects implicitly to the first. Counter clockwise rings have a positive area.
type Ring []Point

// RingFromFloats returns a ring from a list of x,y coordinate pairs.
func RingFromFloats(coords ...float64) Ring {
	r := make(Ring, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		r = append(r, Pt(coords[i], coords[i+1]))
	}
	return r
}

// Floats returns the ring's coordinates as x,y pairs.
func (r Ring) Floats() [][2]float64 {
	fs := make([][2]float64, len(r))
	for i, p := range r {
		fs[i][0], fs[i][1] = FromFixed(p)
	}
	return fs
}

// Copy returns a copy of the ring.
func (r Ring) Copy() Ring {
	return slices.Clone(r)
}

// Reverse returns the ring with opposite winding.
func (r Ring) Reverse() Ring {
	q := r.Copy()
	slices.Reverse(q)
	return q
}

// area2 returns twice the signed area in raw units. Intermediate sums may wrap, but the result is exact since it is bounded by the ring's bounding box.
func (r Ring) area2() int64 {
	if len(r) < 3 {
		return 0
	}
	a := int64(0)
	for i := 1; i+1 < len(r); i++ {
		a += cross(r[0], r[i], r[i+1])
	}
	return a
}

// Area returns the signed area, positive for counter clockwise rings.
func (r Ring) Area() float64 {
	return float64(r.area2()) / 2.0 / 4096.0 / 4096.0
}

// Orientation returns true if the ring is counter clockwise.
func (r Ring) Orientation() bool {
	return 0 < r.area2()
}

// PointInRing returns -1 if p is on the ring's boundary, 1 if it is enclosed and 0 otherwise. Enclosed means a non-zero winding number.
func PointInRing(p Point, r Ring) int {
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		if onSegment(p, a, b) {
			return -1
		}
	}
	if windingNumber(r, 2*int64(p.X), 2*int64(p.Y), 2) != 0 {
		return 1
	}
	return 0
}

// windingNumber returns the winding number of r around the point (px,py), with the ring coordinates multiplied by scale. The point may not lie on the ring. A point at the height of a vertex is treated as being infinitesimally above it.
func windingNumber(r Ring, px, py, scale int64) int {
	n := 0
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		ax, ay := scale*int64(a.X), scale*int64(a.Y)
		bx, by := scale*int64(b.X), scale*int64(b.Y)
		if ay <= py {
			if py < by && 0 < (bx-ax)*(py-ay)-(by-ay)*(px-ax) {
				n++
			}
		} else if by <= py && (bx-ax)*(py-ay)-(by-ay)*(px-ax) < 0 {
			n--
		}
	}
	return n
}

// onSegment returns true if p lies on the closed segment AB.
func onSegment(p, a, b Point) bool {
	if cross(a, b, p) != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) && min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// inSegment returns true if p lies strictly between A and B on segment AB.
func inSegment(p, a, b Point) bool {
	return p != a && p != b && onSegment(p, a, b)
}

// Clean removes consecutive duplicate points, the closing point when it equals the first, and points that lie on a straight line between their neighbours. It returns nil if fewer than three points remain.
func (r Ring) Clean() Ring {
	q := dedup(r)
	for changed := true; changed && 3 <= len(q); {
		changed = false
		for i := 0; i < len(q) && 3 <= len(q); i++ {
			prev, next := q[(i+len(q)-1)%len(q)], q[(i+1)%len(q)]
			if cross(prev, q[i], next) == 0 {
				q = append(q[:i], q[i+1:]...)
				changed = true
				i--
			}
		}
	}
	if len(q) < 3 {
		return nil
	}
	return q
}

func dedup(r Ring) Ring {
	q := make(Ring, 0, len(r))
	for _, p := range r {
		if len(q) == 0 || q[len(q)-1] != p {
			q = append(q, p)
		}
	}
	for 1 < len(q) && q[0] == q[len(q)-1] {
		q = q[:len(q)-1]
	}
	return q
}

// SelfIntersects returns true if any two edges of the ring cross, touch or overlap, other than adjacent edges sharing their common vertex.
func (r Ring) SelfIntersects() bool {
	q := dedup(r)
	n := len(q)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a0, a1 := q[i], q[(i+1)%n]
		for j := i + 1; j < n; j++ {
			b0, b1 := q[j], q[(j+1)%n]
			if j == i+1 || i == 0 && j == n-1 {
				// adjacent edges only share one vertex, unless they fold back over each other
				shared, ea, eb := a1, a0, b1
				if i == 0 && j == n-1 {
					shared, ea, eb = a0, a1, b0
				}
				if cross(shared, ea, eb) == 0 && 0 < dot(shared, ea, eb) {
					return true
				}
				continue
			}
			if segmentsTouch(a0, a1, b0, b1) {
				return true
			}
		}
	}
	return false
}

// segmentsTouch returns true if segments AB and CD have at least one point in common.
func segmentsTouch(a, b, c, d Point) bool {
	d1, d2 := sign(cross(a, b, c)), sign(cross(a, b, d))
	d3, d4 := sign(cross(c, d, a)), sign(cross(c, d, b))
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return d1 == 0 && onSegment(c, a, b) || d2 == 0 && onSegment(d, a, b) ||
		d3 == 0 && onSegment(a, c, d) || d4 == 0 && onSegment(b, c, d)
}

// normalize rotates the ring so that it starts at its lexicographically smallest point.
func (r Ring) normalize() Ring {
	if len(r) == 0 {
		return r
	}
	k := 0
	for i := range r {
		if less(r[i], r[k]) {
			k = i
		}
	}
	q := make(Ring, 0, len(r))
	q = append(q, r[k:]...)
	return append(q, r[:k]...)
}

// compareRings orders normalized rings lexicographically.
func compareRings(a, b Ring) int {
	return slices.CompareFunc(a, b, comparePoints)
}

// EqualRings returns true if a and b describe the same contour in the same direction, possibly starting at a different point. Collinear points are ignored.
func EqualRings(a, b Ring) bool {
	a, b = a.Clean().normalize(), b.Clean().normalize()
	return slices.Equal(a, b)
}

func (r Ring) String() string {
	sb := strings.Builder{}
	for i, p := range r {
		if i != 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(pointString(p))
	}
	return sb.String()
}
