package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

func TestValidateReportsAllChecksOK(t *testing.T) {
	in := largeInput()
	cfg := NewDefaultConfiguration()
	result := Generate(in, cfg, seeded(2), nil)

	valid, _, msg := Validate(in, result, cfg)

	assert.True(t, valid)
	assert.Contains(t, msg, "[  OK]: Classroom collision check.")
	assert.Contains(t, msg, "[  OK]: Faculty collision check.")
	assert.Contains(t, msg, "[  OK]: Batch collision check.")
	assert.Contains(t, msg, "[  OK]: Workload limit check.")
	assert.Contains(t, msg, "[  OK]: Demand ceiling check.")
	assert.Contains(t, msg, "[  OK]: Faculty consistency check.")
}

func TestValidateDetectsHandBuiltViolations(t *testing.T) {
	sub := newSubject("A", 1)
	f1, f2 := newFaculty("F1", "A"), newFaculty("F2", "A")
	b := newBatch("CS", 1, "A", sub)
	room := newRooms("101")[0]
	slot := &model.TimeSlot{Day: "Mon", Time: "09:00"}
	in := &Input{Subjects: []*model.Subject{sub}, Faculty: []*model.Faculty{f1, f2}, Batches: []*model.StudentBatch{b}}
	result := &Result{
		Lectures: []*model.Lecture{
			{Faculty: f1, Batch: b, Subject: sub, Room: room, Slot: slot},
			{Faculty: f2, Batch: b, Subject: sub, Room: room, Slot: slot},
		},
		Workload: NewWorkload(in.Faculty, in.Batches),
	}

	valid, complete, msg := Validate(in, result, NewDefaultConfiguration())

	assert.False(t, valid)
	assert.True(t, complete)
	assert.Contains(t, msg, "[FAIL]: Classroom collision check.")
	assert.Contains(t, msg, "[FAIL]: Batch collision check.")
	assert.Contains(t, msg, "[  OK]: Faculty collision check.")
	assert.Contains(t, msg, "[FAIL]: Demand ceiling check.")
	assert.Contains(t, msg, "CS Y1A A placed 2 times, demand is 1")
	assert.Contains(t, msg, "[FAIL]: Faculty consistency check.")
	assert.Contains(t, msg, "weekly counter drifted")
}

func TestValidateReportsMissingDemand(t *testing.T) {
	sub := newSubject("PHY", 3)
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{newFaculty("F1", "PHY")},
		Classrooms: newRooms("101"),
		TimeSlots:  newSlots([]string{"Mon"}, []string{"09:00"}),
		Batches:    []*model.StudentBatch{newBatch("EE", 1, "A", sub, newSubject("BIO", 2))},
	}
	cfg := NewDefaultConfiguration()
	cfg.MaxAttempts = 10
	result := Generate(in, cfg, seeded(4), nil)

	valid, complete, msg := Validate(in, result, cfg)

	assert.True(t, valid)
	assert.False(t, complete)
	assert.Contains(t, msg, "[FAIL]: Demand coverage check. 4 hour(s) not scheduled.")
	assert.Contains(t, msg, "EE Y1A BIO: no faculty teaches this subject (2 hours)")
	assert.Contains(t, msg, "EE Y1A PHY hour 2 (F1): gave up after 10 attempts")
}
