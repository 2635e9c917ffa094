package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
	"github.com/rhyrak/smart-timetable/pkg/model"
)

// WriteSchedule writes the grouped lecture rows as CSV with the header
// Day,Time,Batch,Subject,Faculty,Room.
func WriteSchedule(w io.Writer, lectures []*model.Lecture) error {
	rows := FlattenRows(lectures)
	out := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if len(rows) == 0 {
		// header only
		if err := out.Write(csvHeader()); err != nil {
			return err
		}
		out.Flush()
		return out.Error()
	}
	return gocsv.MarshalCSV(&rows, out)
}

// ExportSchedule writes the schedule to the CSV file at path, replacing any
// existing file.
func ExportSchedule(lectures []*model.Lecture, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrExport, err, fmt.Sprintf("failed to create %s", path))
	}
	defer out.Close()

	if err := WriteSchedule(out, lectures); err != nil {
		return appErrors.WrapAs(appErrors.ErrExport, err, fmt.Sprintf("failed to write %s", path))
	}
	return nil
}

// ExportScheduleString returns the CSV export as a string.
func ExportScheduleString(lectures []*model.Lecture) (string, error) {
	var buf bytes.Buffer
	if err := WriteSchedule(&buf, lectures); err != nil {
		return "", appErrors.WrapAs(appErrors.ErrExport, err, "")
	}
	return buf.String(), nil
}

func csvHeader() []string {
	return []string{"Day", "Time", "Batch", "Subject", "Faculty", "Room"}
}

// ParseSchedule reads an exported CSV timetable back into rows.
func ParseSchedule(data string) ([]*model.LectureCSVRow, error) {
	rows := []*model.LectureCSVRow{}
	if err := gocsv.UnmarshalString(data, &rows); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrLoad, err, "failed to parse exported schedule")
	}
	return rows, nil
}
