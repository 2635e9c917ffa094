package scheduler

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

func newSubject(code string, hours int) *model.Subject {
	return &model.Subject{Code: code, Name: code + " Lecture", HoursPerWeek: hours}
}

func newFaculty(id string, subjects ...string) *model.Faculty {
	return &model.Faculty{ID: id, Name: "Prof " + id, Subjects: subjects}
}

func newBatch(dept string, year int, section string, subjects ...*model.Subject) *model.StudentBatch {
	return &model.StudentBatch{Dept: dept, Year: year, Section: section, Subjects: subjects}
}

func newRooms(numbers ...string) []*model.Classroom {
	rooms := make([]*model.Classroom, 0, len(numbers))
	for _, n := range numbers {
		rooms = append(rooms, &model.Classroom{Number: n, Capacity: 60})
	}
	return rooms
}

func newSlots(days []string, times []string) []*model.TimeSlot {
	var slots []*model.TimeSlot
	for _, d := range days {
		for _, t := range times {
			slots = append(slots, &model.TimeSlot{Day: d, Time: t})
		}
	}
	return slots
}

func seeded(seed uint64) Random {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func lecturesFor(lectures []*model.Lecture, batch string, subject string) []*model.Lecture {
	var out []*model.Lecture
	for _, l := range lectures {
		if l.Batch.String() == batch && l.Subject.Code == subject {
			out = append(out, l)
		}
	}
	return out
}

func TestGeneratePlacesEveryHourWhenCapacityAllows(t *testing.T) {
	math := newSubject("MATH", 3)
	f := newFaculty("F1", "MATH")
	batch := newBatch("CS", 2, "A", math)
	in := &Input{
		Subjects:   []*model.Subject{math},
		Faculty:    []*model.Faculty{f},
		Classrooms: newRooms("101", "102"),
		TimeSlots:  newSlots([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}, []string{"09:00"}),
		Batches:    []*model.StudentBatch{batch},
	}

	result := Generate(in, NewDefaultConfiguration(), seeded(7), nil)

	require.Len(t, result.Lectures, 3)
	assert.Equal(t, 3, result.Workload.FacultyWeekly(f))
	assert.Empty(t, result.Diagnostics.Unplaced)
	assert.Empty(t, result.Diagnostics.Unassignable)

	seen := make(map[string]bool)
	for _, l := range result.Lectures {
		key := l.Slot.Day + " " + l.Slot.Time
		assert.False(t, seen[key], "batch double booked at %s", key)
		seen[key] = true
		assert.Same(t, f, l.Faculty)
		assert.Equal(t, "CS Y2A", l.Batch.String())
	}
}

func TestGenerateStarvesWhenOnlyOneSlotAndRoom(t *testing.T) {
	sub := newSubject("PHY", 5)
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{newFaculty("F1", "PHY")},
		Classrooms: newRooms("101"),
		TimeSlots:  newSlots([]string{"Mon"}, []string{"09:00"}),
		Batches:    []*model.StudentBatch{newBatch("EE", 1, "B", sub)},
	}
	cfg := NewDefaultConfiguration()

	result := Generate(in, cfg, seeded(1), nil)

	require.Len(t, result.Lectures, 1)
	require.Len(t, result.Diagnostics.Unplaced, 4)
	for i, u := range result.Diagnostics.Unplaced {
		assert.Equal(t, 2000, u.Attempts)
		assert.Equal(t, i+2, u.Hour)
		assert.Equal(t, "PHY", u.Subject)
		assert.Equal(t, "EE Y1B", u.Batch)
	}
	assert.Equal(t, 1+4*2000, result.Attempts)
	assert.Equal(t, 4, result.Diagnostics.MissingHours())
}

func TestGenerateSkipsSubjectWithoutFaculty(t *testing.T) {
	orphan := newSubject("BIO", 2)
	chem := newSubject("CHEM", 2)
	batch := newBatch("BT", 3, "A", orphan, chem)
	in := &Input{
		Subjects:   []*model.Subject{orphan, chem},
		Faculty:    []*model.Faculty{newFaculty("F1", "CHEM")},
		Classrooms: newRooms("201", "202"),
		TimeSlots:  newSlots([]string{"Mon", "Tue"}, []string{"09:00", "10:00"}),
		Batches:    []*model.StudentBatch{batch},
	}

	result := Generate(in, NewDefaultConfiguration(), seeded(3), nil)

	assert.Empty(t, lecturesFor(result.Lectures, "BT Y3A", "BIO"))
	assert.Len(t, lecturesFor(result.Lectures, "BT Y3A", "CHEM"), 2)
	require.Len(t, result.Diagnostics.Unassignable, 1)
	assert.Equal(t, Unassignable{Batch: "BT Y3A", Subject: "BIO", Hours: 2}, result.Diagnostics.Unassignable[0])
	assert.Empty(t, result.Diagnostics.Unplaced)
}

func TestGenerateUsesFirstCapableFaculty(t *testing.T) {
	sub := newSubject("OS", 4)
	first := newFaculty("F1", "DB", "OS")
	second := newFaculty("F2", "OS")
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{newFaculty("F0", "DB"), first, second},
		Classrooms: newRooms("1", "2", "3"),
		TimeSlots:  newSlots([]string{"Mon", "Tue", "Wed"}, []string{"09:00", "10:00"}),
		Batches:    []*model.StudentBatch{newBatch("CS", 3, "A", sub)},
	}

	result := Generate(in, NewDefaultConfiguration(), seeded(11), nil)

	require.Len(t, result.Lectures, 4)
	for _, l := range result.Lectures {
		assert.Equal(t, "F1", l.Faculty.ID)
	}
	assert.Equal(t, 0, result.Workload.FacultyWeekly(second))
}

func TestGenerateSchedulesRepeatedSubjectIndependently(t *testing.T) {
	sub := newSubject("LAB", 2)
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{newFaculty("F1", "LAB")},
		Classrooms: newRooms("L1"),
		TimeSlots:  newSlots([]string{"Mon", "Tue"}, []string{"09:00", "10:00", "11:00"}),
		Batches:    []*model.StudentBatch{newBatch("ME", 2, "C", sub, sub)},
	}

	result := Generate(in, NewDefaultConfiguration(), seeded(5), nil)

	assert.Len(t, result.Lectures, 4)
}

func TestGenerateRespectsFacultyDailyLimit(t *testing.T) {
	sub := newSubject("ENG", 1)
	f := newFaculty("F1", "ENG")
	var batches []*model.StudentBatch
	for i := 0; i < 6; i++ {
		batches = append(batches, newBatch("HS", 1, string(rune('A'+i)), sub))
	}
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{f},
		Classrooms: newRooms("1", "2", "3"),
		TimeSlots:  newSlots([]string{"Mon"}, []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00"}),
		Batches:    batches,
	}
	cfg := NewDefaultConfiguration()
	cfg.MaxAttempts = 200

	result := Generate(in, cfg, seeded(9), nil)

	assert.Len(t, result.Lectures, 4)
	assert.Equal(t, 4, result.Workload.FacultyDaily(f, "Mon"))
	assert.Len(t, result.Diagnostics.Unplaced, 2)
}

func TestGenerateRespectsFacultyWeeklyLimit(t *testing.T) {
	sub := newSubject("ART", 5)
	f := newFaculty("F1", "ART")
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{f},
		Classrooms: newRooms("1", "2"),
		TimeSlots:  newSlots([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}, []string{"09:00", "10:00"}),
		Batches:    []*model.StudentBatch{newBatch("FA", 1, "A", sub), newBatch("FA", 1, "B", sub)},
	}
	cfg := NewDefaultConfiguration()
	cfg.MaxFacultyPerWeek = 7
	cfg.MaxAttempts = 300

	result := Generate(in, cfg, seeded(13), nil)

	assert.Len(t, result.Lectures, 7)
	assert.Equal(t, 7, result.Workload.FacultyWeekly(f))
	assert.Len(t, result.Diagnostics.Unplaced, 3)
}

func TestGenerateRespectsBatchDailyLimit(t *testing.T) {
	var subjects []*model.Subject
	var faculty []*model.Faculty
	for i := 0; i < 7; i++ {
		code := fmt.Sprintf("S%d", i)
		subjects = append(subjects, newSubject(code, 1))
		faculty = append(faculty, newFaculty("F"+code, code))
	}
	batch := newBatch("CS", 1, "A", subjects...)
	in := &Input{
		Subjects:   subjects,
		Faculty:    faculty,
		Classrooms: newRooms("1", "2"),
		TimeSlots:  newSlots([]string{"Mon"}, []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00"}),
		Batches:    []*model.StudentBatch{batch},
	}
	cfg := NewDefaultConfiguration()
	cfg.MaxAttempts = 200

	result := Generate(in, cfg, seeded(21), nil)

	assert.Len(t, result.Lectures, 5)
	assert.Equal(t, 5, result.Workload.BatchDaily(batch, "Mon"))
	assert.Len(t, result.Diagnostics.Unplaced, 2)
}

func TestGenerateWithEmptyCatalogsDropsEveryHour(t *testing.T) {
	sub := newSubject("X", 2)
	in := &Input{
		Subjects:  []*model.Subject{sub},
		Faculty:   []*model.Faculty{newFaculty("F1", "X")},
		TimeSlots: newSlots([]string{"Mon"}, []string{"09:00"}),
		Batches:   []*model.StudentBatch{newBatch("CS", 1, "A", sub)},
	}

	result := Generate(in, NewDefaultConfiguration(), seeded(1), nil)

	assert.Empty(t, result.Lectures)
	require.Len(t, result.Diagnostics.Unplaced, 2)
	assert.Equal(t, 0, result.Diagnostics.Unplaced[0].Attempts)
	assert.Equal(t, 0, result.Attempts)
}

func TestGenerateIsReproducibleWithSameSeed(t *testing.T) {
	build := func() *Input { return largeInput() }

	cfg := NewDefaultConfiguration()
	cfg.Seed = 42
	a := Generate(build(), cfg, nil, nil)
	b := Generate(build(), cfg, nil, nil)

	require.Equal(t, len(a.Lectures), len(b.Lectures))
	for i := range a.Lectures {
		assert.Equal(t, a.Lectures[i].Row(), b.Lectures[i].Row())
	}
}

// scriptedRandom replays fixed slot indices and leaves room order untouched.
type scriptedRandom struct {
	slots    []int
	shuffles int
}

func (r *scriptedRandom) IntN(n int) int {
	v := r.slots[0]
	r.slots = r.slots[1:]
	return v % n
}

func (r *scriptedRandom) Shuffle(n int, swap func(i, j int)) {
	r.shuffles++
}

func TestGenerateRedrawsSlotAndRoomsEachAttempt(t *testing.T) {
	sub := newSubject("NET", 2)
	in := &Input{
		Subjects:   []*model.Subject{sub},
		Faculty:    []*model.Faculty{newFaculty("F1", "NET")},
		Classrooms: newRooms("A", "B"),
		TimeSlots:  newSlots([]string{"Mon"}, []string{"09:00", "10:00"}),
		Batches:    []*model.StudentBatch{newBatch("CS", 4, "A", sub)},
	}
	rng := &scriptedRandom{slots: []int{0, 0, 0, 1}}

	result := Generate(in, NewDefaultConfiguration(), rng, nil)

	require.Len(t, result.Lectures, 2)
	assert.Equal(t, "A", result.Lectures[0].Room.Number)
	assert.Equal(t, "09:00", result.Lectures[0].Slot.Time)
	assert.Equal(t, "A", result.Lectures[1].Room.Number)
	assert.Equal(t, "10:00", result.Lectures[1].Slot.Time)
	assert.Equal(t, 4, result.Attempts)
	assert.Equal(t, 4, rng.shuffles)
}

func largeInput() *Input {
	var subjects []*model.Subject
	for i := 0; i < 8; i++ {
		subjects = append(subjects, newSubject(fmt.Sprintf("SUB%d", i), 2+i%3))
	}
	var faculty []*model.Faculty
	for i := 0; i < 5; i++ {
		faculty = append(faculty, newFaculty(fmt.Sprintf("F%d", i), subjects[i].Code, subjects[(i+3)%8].Code))
	}
	var batches []*model.StudentBatch
	for _, dept := range []string{"CS", "EE", "ME"} {
		for year := 1; year <= 2; year++ {
			batches = append(batches, newBatch(dept, year, "A", subjects[year], subjects[year+2], subjects[year+4], subjects[7]))
		}
	}
	return &Input{
		Subjects:   subjects,
		Faculty:    faculty,
		Classrooms: newRooms("101", "102", "103"),
		TimeSlots:  newSlots([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}, []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00"}),
		Batches:    batches,
	}
}

func TestGenerateNeverViolatesInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		in := largeInput()
		cfg := NewDefaultConfiguration()
		cfg.MaxAttempts = 300

		result := Generate(in, cfg, seeded(seed), nil)

		valid, _, msg := Validate(in, result, cfg)
		require.True(t, valid, "seed %d:\n%s", seed, msg)

		perPair := make(map[demandKey]int)
		for _, l := range result.Lectures {
			perPair[demandKey{Batch: l.Batch.String(), Subject: l.Subject.Code}]++
		}
		placedPlusMissing := len(result.Lectures) + result.Diagnostics.MissingHours()
		demand := 0
		for _, b := range in.Batches {
			for _, s := range b.Subjects {
				demand += s.HoursPerWeek
			}
		}
		assert.Equal(t, demand, placedPlusMissing, "seed %d", seed)
	}
}
