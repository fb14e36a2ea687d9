package floorplan

// Molding field names.
const (
	FieldHost     = "host"
	FieldProfile  = "profile"
	FieldMaterial = "material"
)

// Molding is a profile such as a baseboard or a cornice that runs along its host wall.
type Molding struct {
	entity
	Host     string `mapstructure:"host"`
	Profile  string `mapstructure:"profile"`
	Material string `mapstructure:"material"`
}

// NewMolding returns a molding on the host wall with a fresh identifier.
func NewMolding(host, profile, material string) *Molding {
	m := &Molding{
		Host:     host,
		Profile:  profile,
		Material: material,
	}
	m.setID(newID())
	return m
}

// Type returns "Molding".
func (m *Molding) Type() string {
	return "Molding"
}

// Dump returns the molding's fields.
func (m *Molding) Dump() Fields {
	return dump(m, Fields{
		FieldHost:     m.Host,
		FieldProfile:  m.Profile,
		FieldMaterial: m.Material,
	})
}

// Load sets the fields present in the dump.
func (m *Molding) Load(fields Fields) error {
	return decodeFields(fields, m)
}
