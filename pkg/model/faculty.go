package model

import "slices"

type Faculty struct {
	ID          string   `csv:"id" validate:"required"`
	Name        string   `csv:"name" validate:"required"`
	SubjectsSTR string   `csv:"subjects"`
	Subjects    []string `csv:"-"`
}

// Teaches reports whether code is in the faculty's capability set.
func (f *Faculty) Teaches(code string) bool {
	return slices.Contains(f.Subjects, code)
}

func (f *Faculty) String() string {
	return f.Name
}
