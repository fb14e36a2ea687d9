package floorplan

import "fmt"

// Wall field names.
const (
	FieldFrom  = "from"
	FieldTo    = "to"
	FieldWidth = "width"
	FieldLayer = "layer"
)

// Wall is a straight wall along the centreline From-To.
type Wall struct {
	entity
	From   Point   `mapstructure:"from"`
	To     Point   `mapstructure:"to"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Layer  string  `mapstructure:"layer"`
}

// NewWall returns a wall with a fresh identifier. It is not a member of a layer until added by a request.
func NewWall(from, to Point, width, height float64) *Wall {
	w := &Wall{
		From:   from,
		To:     to,
		Width:  width,
		Height: height,
	}
	w.setID(newID())
	return w
}

// Type returns "Wall".
func (w *Wall) Type() string {
	return "Wall"
}

// Dump returns the wall's fields.
func (w *Wall) Dump() Fields {
	return dump(w, Fields{
		FieldFrom:   w.From,
		FieldTo:     w.To,
		FieldWidth:  w.Width,
		FieldHeight: w.Height,
		FieldLayer:  w.Layer,
	})
}

// Load sets the fields present in the dump.
func (w *Wall) Load(fields Fields) error {
	return decodeFields(fields, w)
}

// LayerID returns the identifier of the wall's layer.
func (w *Wall) LayerID() string {
	return w.Layer
}

func (w *Wall) setLayerID(id string) {
	w.Layer = id
}

// Length returns the length of the centreline.
func (w *Wall) Length() float64 {
	return w.To.Sub(w.From).Length()
}

// Outline returns the counter clockwise footprint of the wall, a rectangle of Width around the centreline.
func (w *Wall) Outline() Polyline {
	n := w.To.Sub(w.From).Norm(w.Width / 2.0).Rot90CCW()
	return Polyline{w.From.Sub(n), w.To.Sub(n), w.To.Add(n), w.From.Add(n)}
}

// Valid returns an error if the wall has no length or no width.
func (w *Wall) Valid() error {
	if !finite(w.From.X, w.From.Y, w.To.X, w.To.Y, w.Width, w.Height) {
		return fmt.Errorf("wall %s: non-finite coordinates", w.ID())
	} else if w.Width <= 0.0 || w.Height < 0.0 {
		return fmt.Errorf("wall %s: bad width %g or height %g", w.ID(), w.Width, w.Height)
	} else if w.From.Fixed() == w.To.Fixed() {
		return fmt.Errorf("wall %s: zero length", w.ID())
	}
	return w.Outline().Valid()
}
