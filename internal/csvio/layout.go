package csvio

import (
	"slices"
	"strings"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

// DayOrder is the canonical week order. Days outside it sort after all
// canonical days.
var DayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type BatchGroup struct {
	Batch    string
	Lectures []*model.Lecture
}

type DayGroup struct {
	Day     string
	Batches []*BatchGroup
}

func dayRank(day string) int {
	if i := slices.Index(DayOrder, day); i >= 0 {
		return i
	}
	return len(DayOrder)
}

// SortLectures returns a copy of lectures stably sorted by day rank, then
// batch display string, then time.
func SortLectures(lectures []*model.Lecture) []*model.Lecture {
	sorted := slices.Clone(lectures)
	slices.SortStableFunc(sorted, func(a, b *model.Lecture) int {
		if d := dayRank(a.Slot.Day) - dayRank(b.Slot.Day); d != 0 {
			return d
		}
		if c := strings.Compare(a.Batch.String(), b.Batch.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Slot.Time, b.Slot.Time)
	})
	return sorted
}

// GroupLectures sorts lectures and groups them by day, then by batch. Batch
// groups keep first-seen order and are ordered by time inside. Canonical days
// come first, then any other day in first-seen order.
func GroupLectures(lectures []*model.Lecture) []*DayGroup {
	var days []*DayGroup
	byDay := make(map[string]*DayGroup)
	byBatch := make(map[string]map[string]*BatchGroup)

	for _, l := range SortLectures(lectures) {
		day, ok := byDay[l.Slot.Day]
		if !ok {
			day = &DayGroup{Day: l.Slot.Day}
			byDay[l.Slot.Day] = day
			byBatch[l.Slot.Day] = make(map[string]*BatchGroup)
			days = append(days, day)
		}
		key := l.Batch.String()
		batch, ok := byBatch[l.Slot.Day][key]
		if !ok {
			batch = &BatchGroup{Batch: key}
			byBatch[l.Slot.Day][key] = batch
			day.Batches = append(day.Batches, batch)
		}
		batch.Lectures = append(batch.Lectures, l)
	}

	for _, day := range days {
		for _, batch := range day.Batches {
			slices.SortStableFunc(batch.Lectures, func(a, b *model.Lecture) int {
				return strings.Compare(a.Slot.Time, b.Slot.Time)
			})
		}
	}

	ordered := make([]*DayGroup, 0, len(days))
	for _, name := range DayOrder {
		if day, ok := byDay[name]; ok {
			ordered = append(ordered, day)
		}
	}
	for _, day := range days {
		if dayRank(day.Day) == len(DayOrder) {
			ordered = append(ordered, day)
		}
	}
	return ordered
}

// FlattenRows returns one export row per lecture in grouped order.
func FlattenRows(lectures []*model.Lecture) []*model.LectureCSVRow {
	rows := make([]*model.LectureCSVRow, 0, len(lectures))
	for _, day := range GroupLectures(lectures) {
		for _, batch := range day.Batches {
			for _, l := range batch.Lectures {
				rows = append(rows, l.Row())
			}
		}
	}
	return rows
}
