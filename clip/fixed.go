package clip

import (
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// Point is a coordinate on the kernel grid, in units of 1/4096.
type Point = fixed.Point52_12

// MaxCoord is the largest absolute raw coordinate accepted by the kernel. It keeps all cross products of (doubled) coordinate differences within int64.
const MaxCoord = 1 << 29

// Pt returns the grid point closest to (x,y).
func Pt(x, y float64) Point {
	return Point{X: toI52_12(x), Y: toI52_12(y)}
}

// FromFixed returns the floating point coordinates of p.
func FromFixed(p Point) (float64, float64) {
	return fromI52_12(p.X), fromI52_12(p.Y)
}

func fixedInt(v int64) fixed.Int52_12 {
	return fixed.Int52_12(v)
}

func toI52_12(f float64) fixed.Int52_12 {
	return fixed.Int52_12(math.Round(f * 4096.0))
}

func fromI52_12(f fixed.Int52_12) float64 {
	return float64(f) / 4096.0
}

func inRange(p Point) bool {
	return -MaxCoord <= p.X && p.X <= MaxCoord && -MaxCoord <= p.Y && p.Y <= MaxCoord
}

// less orders points lexicographically by x and then y.
func less(a, b Point) bool {
	return a.X < b.X || a.X == b.X && a.Y < b.Y
}

func comparePoints(a, b Point) int {
	if less(a, b) {
		return -1
	} else if less(b, a) {
		return 1
	}
	return 0
}

// cross returns the cross product of OA and OB, positive when B lies to the left of OA.
func cross(o, a, b Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

// dot returns the dot product of OA and OB.
func dot(o, a, b Point) int64 {
	return int64(a.X-o.X)*int64(b.X-o.X) + int64(a.Y-o.Y)*int64(b.Y-o.Y)
}

func sign(v int64) int {
	if v < 0 {
		return -1
	} else if 0 < v {
		return 1
	}
	return 0
}

func pointString(p Point) string {
	x, y := FromFixed(p)
	return fmt.Sprintf("[%g; %g]", x, y)
}

////////////////////////////////////////////////////////////////

// NormalizeDivision reduces v to a 16-bit signed value. Values in [-32768,32767] are returned unchanged, other values wrap around with 16-bit two's complement arithmetic.
func NormalizeDivision(v int32) int16 {
	return int16(v)
}

// ExtractHighBits returns the high 16-bit half of a winding accumulator, after removing its signed low half.
func ExtractHighBits(v int32) int16 {
	return int16((v - int32(NormalizeDivision(v))) >> 16)
}

// Winding is an accumulator for a pair of winding numbers. The subject winding is stored in the low 16 bits and the clip winding in the high 16 bits, both signed. Accumulation uses modular arithmetic so that the halves are exact whenever the final windings fit in 16 bits, regardless of intermediate carries.
type Winding int32

// Add adds the windings of the subject and the clip set.
func (w *Winding) Add(subject, clip int) {
	*w += Winding(int32(subject) + int32(clip)<<16)
}

// Subject returns the subject winding number.
func (w Winding) Subject() int {
	return int(NormalizeDivision(int32(w)))
}

// Clip returns the clip winding number.
func (w Winding) Clip() int {
	return int(ExtractHighBits(int32(w)))
}

func (w Winding) String() string {
	return fmt.Sprintf("(%d,%d)", w.Subject(), w.Clip())
}

// stOperator is the sign-test table indexed by ClipMode. It tells whether a region that is inside the subject and/or clip set is part of the result.
var stOperator = [4]func(inSubject, inClip bool) bool{
	Intersection: func(s, c bool) bool { return s && c },
	Union:        func(s, c bool) bool { return s || c },
	Difference:   func(s, c bool) bool { return s && !c },
	Xor:          func(s, c bool) bool { return s != c },
}

func (o Options) inResult(mode ClipMode, w Winding) bool {
	return stOperator[mode](o.SubjectFill.Fills(w.Subject()), o.ClipFill.Fills(w.Clip()))
}
