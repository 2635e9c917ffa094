package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

// Input holds the loaded record catalogs. Batches reference resolved
// subjects rather than codes.
type Input struct {
	Subjects   []*model.Subject
	Faculty    []*model.Faculty
	Classrooms []*model.Classroom
	TimeSlots  []*model.TimeSlot
	Batches    []*model.StudentBatch
}

// Unassignable is a (batch, subject) demand that no faculty can teach.
type Unassignable struct {
	Batch   string `json:"batch"`
	Subject string `json:"subject"`
	Hours   int    `json:"hours"`
}

// Unplaced is an hour-unit dropped after the attempt budget ran out.
type Unplaced struct {
	Batch    string `json:"batch"`
	Subject  string `json:"subject"`
	Faculty  string `json:"faculty"`
	Hour     int    `json:"hour"`
	Attempts int    `json:"attempts"`
}

type Diagnostics struct {
	Unassignable []Unassignable `json:"unassignable"`
	Unplaced     []Unplaced     `json:"unplaced"`
}

// MissingHours returns the number of requested hour-units that were not placed.
func (d Diagnostics) MissingHours() int {
	n := len(d.Unplaced)
	for _, u := range d.Unassignable {
		n += u.Hours
	}
	return n
}

type Result struct {
	Lectures    []*model.Lecture
	Workload    *Workload
	Diagnostics Diagnostics
	Attempts    int
	Elapsed     time.Duration
}

// Generate places every hour-unit of every batch's required subjects, one at a
// time, using a bounded random search: pick a random slot, shuffle the rooms,
// take the first room that is free, clash-free and within workload limits.
// Hour-units that cannot be placed within cfg.MaxAttempts tries are dropped and
// reported in the result diagnostics. Placed lectures are never moved.
func Generate(in *Input, cfg *Configuration, rng Random, logger *zap.Logger) *Result {
	if cfg == nil {
		cfg = NewDefaultConfiguration()
	}
	if rng == nil {
		rng = NewRandom(cfg.Seed)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	state := NewState(in.Faculty, in.Batches)
	result := &Result{}

	rooms := make([]*model.Classroom, len(in.Classrooms))

	for _, batch := range in.Batches {
		for _, sub := range batch.Subjects {
			assigned := findFaculty(in.Faculty, sub.Code)
			if assigned == nil {
				logger.Warn("no faculty can teach subject",
					zap.String("batch", batch.String()),
					zap.String("subject", sub.Code))
				result.Diagnostics.Unassignable = append(result.Diagnostics.Unassignable, Unassignable{
					Batch:   batch.String(),
					Subject: sub.Code,
					Hours:   max(sub.HoursPerWeek, 0),
				})
				continue
			}

			for hour := 0; hour < sub.HoursPerWeek; hour++ {
				placed := false
				attempts := 0
				if len(in.TimeSlots) > 0 && len(in.Classrooms) > 0 {
					for !placed && attempts < cfg.MaxAttempts {
						slot := in.TimeSlots[rng.IntN(len(in.TimeSlots))]
						copy(rooms, in.Classrooms)
						rng.Shuffle(len(rooms), func(i, j int) {
							rooms[i], rooms[j] = rooms[j], rooms[i]
						})

						for _, room := range rooms {
							if state.Claimed(room, slot) {
								continue
							}
							if state.Clashes(assigned, batch, room, slot) {
								continue
							}
							if state.ExceedsWorkload(cfg, assigned, batch, slot) {
								continue
							}
							state.Commit(assigned, batch, sub, room, slot)
							logger.Debug("placed lecture",
								zap.String("batch", batch.String()),
								zap.String("subject", sub.Code),
								zap.String("faculty", assigned.ID),
								zap.String("room", room.Number),
								zap.String("slot", slot.String()))
							placed = true
							break
						}
						attempts++
					}
				}
				result.Attempts += attempts
				if !placed {
					logger.Warn("hour-unit left unplaced",
						zap.String("batch", batch.String()),
						zap.String("subject", sub.Code),
						zap.String("faculty", assigned.ID),
						zap.Int("hour", hour+1),
						zap.Int("attempts", attempts))
					result.Diagnostics.Unplaced = append(result.Diagnostics.Unplaced, Unplaced{
						Batch:    batch.String(),
						Subject:  sub.Code,
						Faculty:  assigned.ID,
						Hour:     hour + 1,
						Attempts: attempts,
					})
				}
			}
		}
	}

	result.Lectures = state.Lectures()
	result.Workload = state.Workload()
	result.Elapsed = time.Since(start)

	logger.Info("schedule generated",
		zap.Int("lectures", len(result.Lectures)),
		zap.Int("unassignable", len(result.Diagnostics.Unassignable)),
		zap.Int("unplaced", len(result.Diagnostics.Unplaced)),
		zap.Int("attempts", result.Attempts),
		zap.Duration("elapsed", result.Elapsed))
	return result
}

// findFaculty returns the first faculty, in catalog order, able to teach code.
func findFaculty(faculty []*model.Faculty, code string) *model.Faculty {
	for _, f := range faculty {
		if f.Teaches(code) {
			return f
		}
	}
	return nil
}
