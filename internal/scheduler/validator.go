package scheduler

import (
	"fmt"
	"strings"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

type demandKey struct {
	Batch   string
	Subject string
}

// Validate re-checks a finished run against the scheduling invariants.
// valid is false when any hard constraint is broken (double booking,
// workload limit, demand ceiling, faculty consistency, counter drift).
// complete is false when some demand was left unscheduled.
func Validate(in *Input, result *Result, cfg *Configuration) (valid bool, complete bool, message string) {
	var report strings.Builder
	checks := []struct {
		name   string
		detail []string
	}{
		{"Classroom collision check", roomCollisions(result.Lectures)},
		{"Faculty collision check", facultyCollisions(result.Lectures)},
		{"Batch collision check", batchCollisions(result.Lectures)},
		{"Workload limit check", workloadViolations(result, cfg)},
		{"Demand ceiling check", demandViolations(in, result.Lectures)},
		{"Faculty consistency check", facultyInconsistencies(result.Lectures)},
	}

	valid = true
	for _, c := range checks {
		if len(c.detail) > 0 {
			valid = false
			fmt.Fprintf(&report, "[FAIL]: %s.\n", c.name)
			for _, d := range c.detail {
				fmt.Fprintf(&report, "    %s\n", d)
			}
		} else {
			fmt.Fprintf(&report, "[  OK]: %s.\n", c.name)
		}
	}

	diag := result.Diagnostics
	complete = len(diag.Unassignable) == 0 && len(diag.Unplaced) == 0
	if complete {
		report.WriteString("[  OK]: Demand coverage check.\n")
	} else {
		fmt.Fprintf(&report, "[FAIL]: Demand coverage check. %d hour(s) not scheduled.\n", diag.MissingHours())
		for _, u := range diag.Unassignable {
			fmt.Fprintf(&report, "    %s %s: no faculty teaches this subject (%d hours)\n", u.Batch, u.Subject, u.Hours)
		}
		for _, u := range diag.Unplaced {
			fmt.Fprintf(&report, "    %s %s hour %d (%s): gave up after %d attempts\n", u.Batch, u.Subject, u.Hour, u.Faculty, u.Attempts)
		}
	}

	return valid, complete, report.String()
}

func collisions(lectures []*model.Lecture, what string, key func(*model.Lecture) string) []string {
	var out []string
	used := make(map[string]bool)
	for _, l := range lectures {
		k := l.Slot.Day + "|" + l.Slot.Time + "|" + key(l)
		if used[k] {
			out = append(out, fmt.Sprintf("%s %s assigned multiple times at %s", what, key(l), l.Slot))
			continue
		}
		used[k] = true
	}
	return out
}

func roomCollisions(lectures []*model.Lecture) []string {
	return collisions(lectures, "Classroom", func(l *model.Lecture) string { return l.Room.Number })
}

func facultyCollisions(lectures []*model.Lecture) []string {
	return collisions(lectures, "Faculty", func(l *model.Lecture) string { return l.Faculty.ID })
}

func batchCollisions(lectures []*model.Lecture) []string {
	return collisions(lectures, "Batch", func(l *model.Lecture) string { return l.Batch.String() })
}

func workloadViolations(result *Result, cfg *Configuration) []string {
	var out []string
	weekly := make(map[string]int)
	facultyByID := make(map[string]*model.Faculty)
	facultyDaily := make(map[[2]string]int)
	batchDaily := make(map[[2]string]int)
	batchByKey := make(map[string]*model.StudentBatch)
	var facultyOrder []string
	var facultyDayOrder, batchDayOrder [][2]string

	for _, l := range result.Lectures {
		if _, seen := facultyByID[l.Faculty.ID]; !seen {
			facultyByID[l.Faculty.ID] = l.Faculty
			facultyOrder = append(facultyOrder, l.Faculty.ID)
		}
		batchByKey[l.Batch.String()] = l.Batch
		weekly[l.Faculty.ID]++

		fk := [2]string{l.Faculty.ID, l.Slot.Day}
		if facultyDaily[fk] == 0 {
			facultyDayOrder = append(facultyDayOrder, fk)
		}
		facultyDaily[fk]++

		bk := [2]string{l.Batch.String(), l.Slot.Day}
		if batchDaily[bk] == 0 {
			batchDayOrder = append(batchDayOrder, bk)
		}
		batchDaily[bk]++
	}

	for _, id := range facultyOrder {
		n := weekly[id]
		if n > cfg.MaxFacultyPerWeek {
			out = append(out, fmt.Sprintf("Faculty %s teaches %d sessions per week (limit %d)", id, n, cfg.MaxFacultyPerWeek))
		}
		if result.Workload != nil {
			if recorded := result.Workload.FacultyWeekly(facultyByID[id]); recorded != n {
				out = append(out, fmt.Sprintf("Faculty %s weekly counter drifted: %d recorded, %d placed", id, recorded, n))
			}
		}
	}
	for _, k := range facultyDayOrder {
		n := facultyDaily[k]
		if n > cfg.MaxFacultyPerDay {
			out = append(out, fmt.Sprintf("Faculty %s teaches %d sessions on %s (limit %d)", k[0], n, k[1], cfg.MaxFacultyPerDay))
		}
		if result.Workload != nil && result.Workload.FacultyDaily(facultyByID[k[0]], k[1]) != n {
			out = append(out, fmt.Sprintf("Faculty %s daily counter drifted on %s", k[0], k[1]))
		}
	}
	for _, k := range batchDayOrder {
		n := batchDaily[k]
		if n > cfg.MaxBatchPerDay {
			out = append(out, fmt.Sprintf("Batch %s attends %d sessions on %s (limit %d)", k[0], n, k[1], cfg.MaxBatchPerDay))
		}
		if result.Workload != nil && result.Workload.BatchDaily(batchByKey[k[0]], k[1]) != n {
			out = append(out, fmt.Sprintf("Batch %s daily counter drifted on %s", k[0], k[1]))
		}
	}
	return out
}

func demandViolations(in *Input, lectures []*model.Lecture) []string {
	demand := make(map[demandKey]int)
	for _, b := range in.Batches {
		for _, s := range b.Subjects {
			demand[demandKey{Batch: b.String(), Subject: s.Code}] += s.HoursPerWeek
		}
	}

	var out []string
	placed := make(map[demandKey]int)
	var order []demandKey
	for _, l := range lectures {
		k := demandKey{Batch: l.Batch.String(), Subject: l.Subject.Code}
		if placed[k] == 0 {
			order = append(order, k)
		}
		placed[k]++
	}
	for _, k := range order {
		if placed[k] > demand[k] {
			out = append(out, fmt.Sprintf("%s %s placed %d times, demand is %d", k.Batch, k.Subject, placed[k], demand[k]))
		}
	}
	return out
}

func facultyInconsistencies(lectures []*model.Lecture) []string {
	var out []string
	first := make(map[demandKey]string)
	reported := make(map[demandKey]bool)
	for _, l := range lectures {
		k := demandKey{Batch: l.Batch.String(), Subject: l.Subject.Code}
		f, ok := first[k]
		if !ok {
			first[k] = l.Faculty.ID
			continue
		}
		if f != l.Faculty.ID && !reported[k] {
			reported[k] = true
			out = append(out, fmt.Sprintf("%s %s is taught by both %s and %s", k.Batch, k.Subject, f, l.Faculty.ID))
		}
	}
	return out
}
