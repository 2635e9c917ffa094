package model

type Subject struct {
	Code              string `csv:"code" validate:"required"`
	Name              string `csv:"name" validate:"required"`
	HoursPerWeek      int    `csv:"hours_per_week" validate:"min=1"`
	RequiresProjector bool   `csv:"requires_projector"`
}
