package model

// Classroom capacity and projector fields are loaded but not used for placement.
type Classroom struct {
	Number       string `csv:"number" validate:"required"`
	Capacity     int    `csv:"capacity" validate:"min=0"`
	HasProjector bool   `csv:"has_projector"`
}

func (c *Classroom) String() string {
	return c.Number
}
