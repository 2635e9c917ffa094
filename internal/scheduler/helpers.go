package scheduler

import (
	"hash/maphash"
	"math/rand/v2"
)

type Configuration struct {
	SubjectsFile      string
	FacultyFile       string
	ClassroomsFile    string
	TimeSlotsFile     string
	BatchesFile       string
	ExportFile        string
	PDFFile           string
	Delimiter         rune
	MaxBatchPerDay    int
	MaxFacultyPerDay  int
	MaxFacultyPerWeek int
	MaxAttempts       int
	Seed              uint64
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		SubjectsFile:      "subjects.csv",
		FacultyFile:       "faculty.csv",
		ClassroomsFile:    "classrooms.csv",
		TimeSlotsFile:     "timeslots.csv",
		BatchesFile:       "batches.csv",
		ExportFile:        "timetable.csv",
		PDFFile:           "",
		Delimiter:         ',',
		MaxBatchPerDay:    5,
		MaxFacultyPerDay:  4,
		MaxFacultyPerWeek: 18,
		MaxAttempts:       2000,
		Seed:              0, // 0 = seed from runtime entropy
	}
}

// Random is the source of randomness used by the placement search.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandom returns a PCG source seeded with seed, or with runtime entropy
// when seed is zero.
func NewRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(Rand64(), Rand64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fast UINT64 RNG
func Rand64() uint64 {
	return new(maphash.Hash).Sum64()
}

// ResolveSeed returns seed, or a fresh non-zero seed when seed is zero, so
// the run can be reproduced later.
func ResolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = Rand64()
	}
	return seed
}
