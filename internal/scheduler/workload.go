package scheduler

import "github.com/rhyrak/smart-timetable/pkg/model"

// Workload counts committed lectures per faculty (week and day) and per
// batch (day). Counters only grow; there is no way to release a placement.
type Workload struct {
	facultyWeekly map[string]int
	facultyDaily  map[string]map[string]int
	batchDaily    map[string]map[string]int
}

// NewWorkload creates zeroed counters for every known faculty and batch.
func NewWorkload(faculty []*model.Faculty, batches []*model.StudentBatch) *Workload {
	w := &Workload{
		facultyWeekly: make(map[string]int, len(faculty)),
		facultyDaily:  make(map[string]map[string]int, len(faculty)),
		batchDaily:    make(map[string]map[string]int, len(batches)),
	}
	for _, f := range faculty {
		w.facultyWeekly[f.ID] = 0
		w.facultyDaily[f.ID] = make(map[string]int)
	}
	for _, b := range batches {
		w.batchDaily[b.String()] = make(map[string]int)
	}
	return w
}

// Exceeds reports whether any counter for this faculty, batch and day is
// already at its limit. A placement that lands exactly on a limit is fine.
func (w *Workload) Exceeds(cfg *Configuration, f *model.Faculty, b *model.StudentBatch, day string) bool {
	if w.BatchDaily(b, day) >= cfg.MaxBatchPerDay {
		return true
	}
	if w.FacultyWeekly(f) >= cfg.MaxFacultyPerWeek {
		return true
	}
	if w.FacultyDaily(f, day) >= cfg.MaxFacultyPerDay {
		return true
	}
	return false
}

// Record adds one session to all three counters.
func (w *Workload) Record(f *model.Faculty, b *model.StudentBatch, day string) {
	bd, ok := w.batchDaily[b.String()]
	if !ok {
		bd = make(map[string]int)
		w.batchDaily[b.String()] = bd
	}
	bd[day]++

	w.facultyWeekly[f.ID]++

	fd, ok := w.facultyDaily[f.ID]
	if !ok {
		fd = make(map[string]int)
		w.facultyDaily[f.ID] = fd
	}
	fd[day]++
}

func (w *Workload) FacultyWeekly(f *model.Faculty) int {
	return w.facultyWeekly[f.ID]
}

func (w *Workload) FacultyDaily(f *model.Faculty, day string) int {
	return w.facultyDaily[f.ID][day]
}

func (w *Workload) BatchDaily(b *model.StudentBatch, day string) int {
	return w.batchDaily[b.String()][day]
}
