package model

import "time"

type RunStatus string

const (
	RunStatusComplete   RunStatus = "complete"
	RunStatusIncomplete RunStatus = "incomplete"
	RunStatusInvalid    RunStatus = "invalid"
)

// ScheduleRun is one persisted generation: its validation report and the
// exported CSV timetable.
type ScheduleRun struct {
	ID            string    `db:"id" json:"id"`
	Status        RunStatus `db:"status" json:"status"`
	Report        string    `db:"report" json:"report"`
	Data          string    `db:"data" json:"data,omitempty"`
	LectureCount  int       `db:"lecture_count" json:"lectureCount"`
	UnplacedCount int       `db:"unplaced_count" json:"unplacedCount"`
	Seed          string    `db:"seed" json:"seed"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
