package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/internal/scheduler"
	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
	"github.com/rhyrak/smart-timetable/pkg/model"
)

// Sources holds one reader per record file.
type Sources struct {
	Subjects   io.Reader
	Faculty    io.Reader
	Classrooms io.Reader
	TimeSlots  io.Reader
	Batches    io.Reader
}

// Loader parses the five record files into a scheduler.Input.
type Loader struct {
	delim    rune
	validate *validator.Validate
	logger   *zap.Logger
}

func NewLoader(delim rune, logger *zap.Logger) *Loader {
	if delim == 0 {
		delim = ','
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{delim: delim, validate: validator.New(), logger: logger}
}

// LoadFiles opens the record files named in cfg and loads them.
func (l *Loader) LoadFiles(cfg *scheduler.Configuration) (*scheduler.Input, error) {
	paths := []string{cfg.SubjectsFile, cfg.FacultyFile, cfg.ClassroomsFile, cfg.TimeSlotsFile, cfg.BatchesFile}
	files := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, appErrors.WrapAs(appErrors.ErrLoad, err, fmt.Sprintf("failed to open %s, please make sure the file exists", p))
		}
		files = append(files, f)
	}
	return l.Load(Sources{
		Subjects:   files[0],
		Faculty:    files[1],
		Classrooms: files[2],
		TimeSlots:  files[3],
		Batches:    files[4],
	})
}

// Load parses every source, validates the records and resolves batch
// subject codes against the subject catalog. Unknown codes are dropped.
func (l *Loader) Load(src Sources) (*scheduler.Input, error) {
	subjects, err := l.LoadSubjects(src.Subjects)
	if err != nil {
		return nil, err
	}
	faculty, err := l.LoadFaculty(src.Faculty)
	if err != nil {
		return nil, err
	}
	classrooms, err := l.LoadClassrooms(src.Classrooms)
	if err != nil {
		return nil, err
	}
	slots, err := l.LoadTimeSlots(src.TimeSlots)
	if err != nil {
		return nil, err
	}
	batches, err := l.LoadBatches(src.Batches, subjects)
	if err != nil {
		return nil, err
	}

	l.logger.Info("records loaded",
		zap.Int("subjects", len(subjects)),
		zap.Int("faculty", len(faculty)),
		zap.Int("classrooms", len(classrooms)),
		zap.Int("timeslots", len(slots)),
		zap.Int("batches", len(batches)))

	return &scheduler.Input{
		Subjects:   subjects,
		Faculty:    faculty,
		Classrooms: classrooms,
		TimeSlots:  slots,
		Batches:    batches,
	}, nil
}

func (l *Loader) LoadSubjects(r io.Reader) ([]*model.Subject, error) {
	subjects := []*model.Subject{}
	if err := l.unmarshal(r, &subjects, "subjects"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(subjects))
	for i, s := range subjects {
		s.Code = strings.TrimSpace(s.Code)
		s.Name = strings.TrimSpace(s.Name)
		if err := l.check(s, "subjects", i); err != nil {
			return nil, err
		}
		if seen[s.Code] {
			return nil, appErrors.WrapAs(appErrors.ErrLoad, nil, fmt.Sprintf("subjects row %d: duplicate subject code %q", i+1, s.Code))
		}
		seen[s.Code] = true
	}
	return subjects, nil
}

func (l *Loader) LoadFaculty(r io.Reader) ([]*model.Faculty, error) {
	faculty := []*model.Faculty{}
	if err := l.unmarshal(r, &faculty, "faculty"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(faculty))
	for i, f := range faculty {
		f.ID = strings.TrimSpace(f.ID)
		f.Name = strings.TrimSpace(f.Name)
		f.Subjects = splitCodes(f.SubjectsSTR)
		if err := l.check(f, "faculty", i); err != nil {
			return nil, err
		}
		if seen[f.ID] {
			return nil, appErrors.WrapAs(appErrors.ErrLoad, nil, fmt.Sprintf("faculty row %d: duplicate faculty id %q", i+1, f.ID))
		}
		seen[f.ID] = true
	}
	return faculty, nil
}

func (l *Loader) LoadClassrooms(r io.Reader) ([]*model.Classroom, error) {
	classrooms := []*model.Classroom{}
	if err := l.unmarshal(r, &classrooms, "classrooms"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(classrooms))
	for i, c := range classrooms {
		c.Number = strings.TrimSpace(c.Number)
		if err := l.check(c, "classrooms", i); err != nil {
			return nil, err
		}
		if seen[c.Number] {
			return nil, appErrors.WrapAs(appErrors.ErrLoad, nil, fmt.Sprintf("classrooms row %d: duplicate room number %q", i+1, c.Number))
		}
		seen[c.Number] = true
	}
	return classrooms, nil
}

func (l *Loader) LoadTimeSlots(r io.Reader) ([]*model.TimeSlot, error) {
	slots := []*model.TimeSlot{}
	if err := l.unmarshal(r, &slots, "timeslots"); err != nil {
		return nil, err
	}
	for i, s := range slots {
		s.Day = strings.TrimSpace(s.Day)
		s.Time = strings.TrimSpace(s.Time)
		if err := l.check(s, "timeslots", i); err != nil {
			return nil, err
		}
	}
	return slots, nil
}

// LoadBatches reads student batches and resolves their subject codes.
func (l *Loader) LoadBatches(r io.Reader, subjects []*model.Subject) ([]*model.StudentBatch, error) {
	batches := []*model.StudentBatch{}
	if err := l.unmarshal(r, &batches, "batches"); err != nil {
		return nil, err
	}
	byCode := make(map[string]*model.Subject, len(subjects))
	for _, s := range subjects {
		byCode[s.Code] = s
	}
	for i, b := range batches {
		b.Dept = strings.TrimSpace(b.Dept)
		b.Section = strings.TrimSpace(b.Section)
		if err := l.check(b, "batches", i); err != nil {
			return nil, err
		}
		b.Subjects = b.Subjects[:0]
		for _, code := range splitCodes(b.SubjectsSTR) {
			s, ok := byCode[code]
			if !ok {
				l.logger.Warn("unknown subject code dropped",
					zap.String("batch", b.String()),
					zap.String("subject", code))
				continue
			}
			b.Subjects = append(b.Subjects, s)
		}
	}
	return batches, nil
}

func (l *Loader) unmarshal(r io.Reader, out any, name string) error {
	if r == nil {
		return appErrors.WrapAs(appErrors.ErrLoad, nil, fmt.Sprintf("%s file is missing", name))
	}
	reader := csv.NewReader(r)
	reader.Comma = l.delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if err := gocsv.UnmarshalCSV(reader, out); err != nil {
		return appErrors.WrapAs(appErrors.ErrLoad, err, fmt.Sprintf("failed to parse data from %s file, please check the data integrity and format", name))
	}
	return nil
}

func (l *Loader) check(record any, name string, row int) error {
	if err := l.validate.Struct(record); err != nil {
		return appErrors.WrapAs(appErrors.ErrLoad, err, fmt.Sprintf("%s row %d is invalid", name, row+1))
	}
	return nil
}

func splitCodes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if code := strings.TrimSpace(part); code != "" {
			out = append(out, code)
		}
	}
	return out
}
