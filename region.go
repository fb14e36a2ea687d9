package floorplan

// FieldPolygon is the field name of a region's outline.
const FieldPolygon = "polygon"

// Region is a polygon drawn on a layer, such as a room or a floor patch.
type Region struct {
	entity
	Polygon Polyline `mapstructure:"polygon"`
	Layer   string   `mapstructure:"layer"`
}

// NewRegion returns a region with a fresh identifier.
func NewRegion(polygon Polyline) *Region {
	r := &Region{
		Polygon: polygon.Copy(),
	}
	r.setID(newID())
	return r
}

// Type returns "Region".
func (r *Region) Type() string {
	return "Region"
}

// Dump returns the region's fields.
func (r *Region) Dump() Fields {
	return dump(r, Fields{
		FieldPolygon: r.Polygon.Copy(),
		FieldLayer:   r.Layer,
	})
}

// Load sets the fields present in the dump.
func (r *Region) Load(fields Fields) error {
	return decodeFields(fields, r)
}

// LayerID returns the identifier of the region's layer.
func (r *Region) LayerID() string {
	return r.Layer
}

func (r *Region) setLayerID(id string) {
	r.Layer = id
}

// Outline returns the region's polygon.
func (r *Region) Outline() Polyline {
	return r.Polygon
}
