// Package clip implements polygon boolean operations (intersection, union, difference and xor) over rings with integer coordinates. Results are returned as a PolyTree, a hierarchy of contours where contours at even depth are filled and contours at odd depth are holes.
//
// Coordinates are snapped to a grid of 1/4096 units (fixed.Int52_12) and all predicates are evaluated exactly, so that repeating the same operation on the same input always yields the same output, bit for bit.
package clip

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRing      = errors.New("clip: ring needs at least three distinct points")
	ErrCoordinateRange  = errors.New("clip: coordinate out of range")
	ErrInvalidMode      = errors.New("clip: invalid clip mode")
	ErrResource         = errors.New("clip: resource exhausted")
	ErrSolutionReleased = errors.New("clip: solution already released")
)

// ClipMode is the boolean operation applied to the subject and clip rings.
type ClipMode int

// see ClipMode
const (
	Intersection ClipMode = iota
	Union
	Difference
	Xor
)

func (mode ClipMode) valid() bool {
	return Intersection <= mode && mode <= Xor
}

func (mode ClipMode) String() string {
	switch mode {
	case Intersection:
		return "Intersection"
	case Union:
		return "Union"
	case Difference:
		return "Difference"
	case Xor:
		return "Xor"
	}
	return fmt.Sprintf("ClipMode(%d)", mode)
}

// ParseClipMode parses the (case sensitive) name of a ClipMode, also accepting the short forms "and", "or", "not" and "xor".
func ParseClipMode(s string) (ClipMode, error) {
	switch s {
	case "Intersection", "intersection", "and":
		return Intersection, nil
	case "Union", "union", "or":
		return Union, nil
	case "Difference", "difference", "not":
		return Difference, nil
	case "Xor", "xor":
		return Xor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// PolyType tells whether a ring belongs to the subject or to the clip set.
type PolyType int

// see PolyType
const (
	Subject PolyType = iota
	Clip
)

// FillRule is the algorithm to specify which area is to be filled and which not, in particular when multiple rings overlap. The NonZero rule is the default and will fill any point that is being enclosed by an unequal number of rings winding clockwise and counter clockwise, otherwise it will not be filled. The EvenOdd rule will fill any point that is being enclosed by an uneven number of rings, whichever their direction. Positive fills only counter clockwise oriented rings, while Negative fills only clockwise oriented rings.
type FillRule int

// see FillRule
const (
	NonZero FillRule = iota
	EvenOdd
	Positive
	Negative
)

// Fills returns true if a region with the given winding number is filled.
func (fillRule FillRule) Fills(windings int) bool {
	switch fillRule {
	case NonZero:
		return windings != 0
	case EvenOdd:
		return windings%2 != 0
	case Positive:
		return 0 < windings
	case Negative:
		return windings < 0
	}
	return false
}

func (fillRule FillRule) String() string {
	switch fillRule {
	case NonZero:
		return "NonZero"
	case EvenOdd:
		return "EvenOdd"
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	}
	return fmt.Sprintf("FillRule(%d)", fillRule)
}

// ParseFillRule parses the name of a FillRule, case insensitive for the first letter.
func ParseFillRule(s string) (FillRule, error) {
	switch s {
	case "NonZero", "nonzero", "nonZero", "":
		return NonZero, nil
	case "EvenOdd", "evenodd", "evenOdd":
		return EvenOdd, nil
	case "Positive", "positive":
		return Positive, nil
	case "Negative", "negative":
		return Negative, nil
	}
	return NonZero, fmt.Errorf("clip: unknown fill rule %q", s)
}

// MaxEdges is the maximum number of edges per polygon set. It guarantees that winding numbers fit in the 16-bit halves of the winding accumulator.
const MaxEdges = 65534

// Options configures a Clipper.
type Options struct {
	SubjectFill       FillRule
	ClipFill          FillRule
	PreserveCollinear bool // keep vertices that lie on a straight line between their neighbours
	MaxEdges          int  // maximum number of edges per polygon set, zero or larger values are capped at MaxEdges
}

// DefaultOptions uses the NonZero fill rule for both sets and removes collinear vertices.
var DefaultOptions = Options{
	SubjectFill: NonZero,
	ClipFill:    NonZero,
	MaxEdges:    MaxEdges,
}

func (o Options) maxEdges() int {
	if o.MaxEdges <= 0 || MaxEdges < o.MaxEdges {
		return MaxEdges
	}
	return o.MaxEdges
}
