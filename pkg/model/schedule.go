package model

// Lecture is one placed hour-unit. Lectures are never modified after the
// scheduler commits them.
type Lecture struct {
	Faculty *Faculty
	Batch   *StudentBatch
	Subject *Subject
	Room    *Classroom
	Slot    *TimeSlot
}

// LectureCSVRow is the flat export form of a Lecture.
type LectureCSVRow struct {
	Day     string `csv:"Day"`
	Time    string `csv:"Time"`
	Batch   string `csv:"Batch"`
	Subject string `csv:"Subject"`
	Faculty string `csv:"Faculty"`
	Room    string `csv:"Room"`
}

// Row converts the lecture into its export row.
func (l *Lecture) Row() *LectureCSVRow {
	return &LectureCSVRow{
		Day:     l.Slot.Day,
		Time:    l.Slot.Time,
		Batch:   l.Batch.String(),
		Subject: l.Subject.Name,
		Faculty: l.Faculty.Name,
		Room:    l.Room.Number,
	}
}
