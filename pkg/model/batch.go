package model

import "fmt"

type StudentBatch struct {
	Dept        string     `csv:"dept" validate:"required"`
	Year        int        `csv:"year" validate:"min=1"`
	Section     string     `csv:"section"`
	SubjectsSTR string     `csv:"subjects"`
	Subjects    []*Subject `csv:"-"`
}

// String returns the display form used for sorting and export, e.g. "CS Y2A".
// It doubles as the batch identity.
func (b *StudentBatch) String() string {
	return fmt.Sprintf("%s Y%d%s", b.Dept, b.Year, b.Section)
}
