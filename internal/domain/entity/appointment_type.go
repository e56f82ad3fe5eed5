package entity

// appointmentTypes maps an appointment type to the supply ids it consumes.
// Keep private so the table can only be read through copies.
var appointmentTypes = map[string][]int64{
	"Consultation": {1, 2}, // stethoscope, blood pressure monitor
	"Vaccination":  {3, 4}, // syringes, gloves
	"Surgery":      {3, 4},
	"Check-up":     {1, 2},
	"Emergency":    {1, 2, 3, 4},
	"Follow-up":    {1},
	"Therapy":      {},
	"Diagnostic":   {1, 2},
}

// AppointmentTypeCatalog is the immutable appointment type lookup table.
type AppointmentTypeCatalog struct {
	types map[string][]int64
}

// DefaultAppointmentTypes returns the built-in catalog.
func DefaultAppointmentTypes() *AppointmentTypeCatalog {
	return NewAppointmentTypeCatalog(appointmentTypes)
}

func NewAppointmentTypeCatalog(types map[string][]int64) *AppointmentTypeCatalog {
	c := &AppointmentTypeCatalog{types: make(map[string][]int64, len(types))}
	for name, ids := range types {
		c.types[name] = append([]int64{}, ids...)
	}
	return c
}

// RequiredSupplies returns the supply ids for name. Unknown types require
// no supplies.
func (c *AppointmentTypeCatalog) RequiredSupplies(name string) []int64 {
	return append([]int64{}, c.types[name]...)
}

// Has tells a known type without supplies apart from an unknown one.
func (c *AppointmentTypeCatalog) Has(name string) bool {
	_, ok := c.types[name]
	return ok
}

// All returns a copy of the whole table.
func (c *AppointmentTypeCatalog) All() map[string][]int64 {
	out := make(map[string][]int64, len(c.types))
	for name, ids := range c.types {
		out[name] = append([]int64{}, ids...)
	}
	return out
}
