package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/internal/config"
	"github.com/rhyrak/smart-timetable/internal/csvio"
	"github.com/rhyrak/smart-timetable/internal/export"
	"github.com/rhyrak/smart-timetable/internal/logger"
	"github.com/rhyrak/smart-timetable/internal/scheduler"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("timetable generation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	sched := *cfg.Scheduler
	sched.Seed = scheduler.ResolveSeed(sched.Seed)

	fmt.Println("Loading...")

	// Parse and instantiate records from the five CSV files
	in, err := csvio.NewLoader(sched.Delimiter, log).LoadFiles(&sched)
	if err != nil {
		return err
	}

	fmt.Printf("Subjects: %d, Faculty: %d, Classrooms: %d, Time slots: %d, Batches: %d\n\n",
		len(in.Subjects), len(in.Faculty), len(in.Classrooms), len(in.TimeSlots), len(in.Batches))

	result := scheduler.Generate(in, &sched, scheduler.NewRandom(sched.Seed), log)

	valid, complete, msg := scheduler.Validate(in, result, &sched)
	switch {
	case !valid:
		fmt.Println("Invalid schedule:")
	case !complete:
		fmt.Println("Schedule is incomplete:")
	default:
		fmt.Println("Passed all tests")
	}
	fmt.Println(msg)

	if err := csvio.PrintSchedule(os.Stdout, result.Lectures); err != nil {
		return err
	}

	if err := csvio.ExportSchedule(result.Lectures, sched.ExportFile); err != nil {
		return err
	}
	if sched.PDFFile != "" {
		if err := export.NewPDFExporter(cfg.PDFTitle).ExportFile(result.Lectures, sched.PDFFile); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println("Weekly faculty workload:")
	for _, f := range in.Faculty {
		fmt.Printf("  %-6s %-24s %d/%d\n", f.ID, f.Name, result.Workload.FacultyWeekly(f), sched.MaxFacultyPerWeek)
	}
	fmt.Println()

	fmt.Printf("Lectures: %d\n", len(result.Lectures))
	fmt.Printf("Unplaced hours: %d\n", result.Diagnostics.MissingHours())
	fmt.Printf("Attempts: %d\n", result.Attempts)
	fmt.Printf("Seed: %d\n", sched.Seed)
	fmt.Printf("Timer: %f ms\n", float64(result.Elapsed.Nanoseconds())/1000000.0)
	fmt.Println("Exported output to: " + sched.ExportFile)
	if sched.PDFFile != "" {
		fmt.Println("Exported PDF to: " + sched.PDFFile)
	}
	return nil
}
