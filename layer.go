package floorplan

import "slices"

// Field names of Layer.
const (
	FieldName          = "name"
	FieldSlabThickness = "slabThickness"
	FieldHeight        = "height"
	FieldBoundary      = "boundary"
	FieldMembers       = "members"
	FieldFaces         = "faces"
	FieldHoles         = "holes"
)

// Layer is a storey slab. Its solid members (walls and regions) are listed in z-order, bottom first.
//
// Faces and Holes are derived by the Coordinator. Faces are the contours of the union of the member outlines, counter clockwise for outer contours and clockwise for the gaps they enclose. Holes are the contours of the part of the boundary that no member covers, or the enclosed gaps of the union (counter clockwise) if the layer has no boundary.
type Layer struct {
	entity
	Name          string     `mapstructure:"name"`
	SlabThickness float64    `mapstructure:"slabThickness"`
	Height        float64    `mapstructure:"height"`
	Boundary      Polyline   `mapstructure:"boundary"`
	Members       []string   `mapstructure:"members"`
	Faces         []Polyline `mapstructure:"faces"`
	Holes         []Polyline `mapstructure:"holes"`
}

// NewLayer returns a layer with a fresh identifier.
func NewLayer(name string, slabThickness, height float64) *Layer {
	l := &Layer{
		Name:          name,
		SlabThickness: slabThickness,
		Height:        height,
	}
	l.setID(newID())
	return l
}

// Type returns "Layer".
func (l *Layer) Type() string {
	return "Layer"
}

// Dump returns the layer's fields.
func (l *Layer) Dump() Fields {
	return dump(l, Fields{
		FieldName:          l.Name,
		FieldSlabThickness: l.SlabThickness,
		FieldHeight:        l.Height,
		FieldBoundary:      l.Boundary.Copy(),
		FieldMembers:       copyStrings(l.Members),
		FieldFaces:         copyPolylines(l.Faces),
		FieldHoles:         copyPolylines(l.Holes),
	})
}

// Load sets the fields present in the dump.
func (l *Layer) Load(fields Fields) error {
	return decodeFields(fields, l)
}

// Index returns the z-order position of a member, or -1.
func (l *Layer) Index(id string) int {
	return slices.Index(l.Members, id)
}

func (l *Layer) addMember(id string) {
	if l.Index(id) == -1 {
		l.Members = append(l.Members, id)
	}
}

func (l *Layer) removeMember(id string) {
	if i := l.Index(id); i != -1 {
		l.Members = slices.Delete(slices.Clone(l.Members), i, i+1)
	}
}

// Area returns the area covered by the layer's members.
func (l *Layer) Area() float64 {
	a := 0.0
	for _, face := range l.Faces {
		a += face.SignedArea()
	}
	return a
}
