package scheduler

import "github.com/rhyrak/smart-timetable/pkg/model"

type slotKey struct {
	Day  string
	Time string
}

type roomKey struct {
	Day  string
	Time string
	Room string
}

// State is the mutable bookkeeping of a single run: committed lectures, the
// claimed (day, time, room) keys and the workload counters. It belongs to one
// Generate call and must not be shared.
type State struct {
	lectures []*model.Lecture
	claimed  map[roomKey]bool
	bySlot   map[slotKey][]*model.Lecture
	workload *Workload
}

// NewState creates an empty state for the given faculty and batches.
func NewState(faculty []*model.Faculty, batches []*model.StudentBatch) *State {
	return &State{
		claimed:  make(map[roomKey]bool),
		bySlot:   make(map[slotKey][]*model.Lecture),
		workload: NewWorkload(faculty, batches),
	}
}

// Claimed reports whether the room is already taken at this slot.
func (s *State) Claimed(room *model.Classroom, slot *model.TimeSlot) bool {
	return s.claimed[roomKey{Day: slot.Day, Time: slot.Time, Room: room.Number}]
}

// Clashes reports whether a committed lecture at the same day and time uses
// the same faculty, batch or room.
func (s *State) Clashes(f *model.Faculty, b *model.StudentBatch, r *model.Classroom, slot *model.TimeSlot) bool {
	batch := b.String()
	for _, lec := range s.bySlot[slotKey{Day: slot.Day, Time: slot.Time}] {
		if lec.Faculty.ID == f.ID || lec.Batch.String() == batch || lec.Room.Number == r.Number {
			return true
		}
	}
	return false
}

// ExceedsWorkload checks the workload limits for a candidate placement.
func (s *State) ExceedsWorkload(cfg *Configuration, f *model.Faculty, b *model.StudentBatch, slot *model.TimeSlot) bool {
	return s.workload.Exceeds(cfg, f, b, slot.Day)
}

// Commit appends the lecture, claims its room key and updates the workload
// counters in one step.
func (s *State) Commit(f *model.Faculty, b *model.StudentBatch, sub *model.Subject, r *model.Classroom, slot *model.TimeSlot) *model.Lecture {
	lec := &model.Lecture{Faculty: f, Batch: b, Subject: sub, Room: r, Slot: slot}
	key := slotKey{Day: slot.Day, Time: slot.Time}
	s.lectures = append(s.lectures, lec)
	s.bySlot[key] = append(s.bySlot[key], lec)
	s.claimed[roomKey{Day: slot.Day, Time: slot.Time, Room: r.Number}] = true
	s.workload.Record(f, b, slot.Day)
	return lec
}

func (s *State) Lectures() []*model.Lecture {
	return s.lectures
}

func (s *State) Workload() *Workload {
	return s.workload
}
