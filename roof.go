package floorplan

// Roof field names.
const (
	FieldContour  = "contour"
	FieldPitch    = "pitch"
	FieldOpenings = "openings"
)

// Roof is a roof surface with openings such as skylights. Faces and Holes are derived by the Coordinator: the faces are the contours of the outline minus the openings, the holes are the contours of the openings clipped to the outline.
type Roof struct {
	entity
	Contour  Polyline   `mapstructure:"contour"`
	Pitch    float64    `mapstructure:"pitch"` // in degrees
	Openings []Polyline `mapstructure:"openings"`
	Faces    []Polyline `mapstructure:"faces"`
	Holes    []Polyline `mapstructure:"holes"`
}

// NewRoof returns a roof with a fresh identifier.
func NewRoof(contour Polyline, pitch float64, openings ...Polyline) *Roof {
	r := &Roof{
		Contour:  contour.Copy(),
		Pitch:    pitch,
		Openings: copyPolylines(openings),
	}
	r.setID(newID())
	return r
}

// Type returns "Roof".
func (r *Roof) Type() string {
	return "Roof"
}

// Dump returns the roof's fields.
func (r *Roof) Dump() Fields {
	return dump(r, Fields{
		FieldContour:  r.Contour.Copy(),
		FieldPitch:    r.Pitch,
		FieldOpenings: copyPolylines(r.Openings),
		FieldFaces:    copyPolylines(r.Faces),
		FieldHoles:    copyPolylines(r.Holes),
	})
}

// Load sets the fields present in the dump.
func (r *Roof) Load(fields Fields) error {
	return decodeFields(fields, r)
}
