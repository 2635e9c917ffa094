package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/rhyrak/smart-timetable/internal/csvio"
	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
	"github.com/rhyrak/smart-timetable/pkg/model"
)

var (
	headers   = []string{"Time", "Subject", "Faculty", "Room"}
	colWidths = []float64{30, 70, 60, 30}
)

// PDFExporter renders a grouped timetable as a printable A4 document.
type PDFExporter struct {
	Title string

	compress bool
}

func NewPDFExporter(title string) *PDFExporter {
	if title == "" {
		title = "Weekly Timetable"
	}
	return &PDFExporter{Title: title, compress: true}
}

// Render returns the PDF bytes for rows in grouped order: one section per
// day, one table per batch. A new section starts whenever the day or batch
// changes between consecutive rows.
func (e *PDFExporter) Render(rows []*model.LectureCSVRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	// core fonts are cp1252; runes outside it print as '.'
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(e.Title), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	if len(rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, "No lectures scheduled.", "", 1, "L", false, 0, "")
	}

	for i, row := range rows {
		newDay := i == 0 || row.Day != rows[i-1].Day
		if newDay {
			if i > 0 {
				pdf.Ln(3)
			}
			pdf.SetFont("Arial", "B", 12)
			pdf.SetFillColor(220, 220, 220)
			pdf.CellFormat(0, 9, tr(row.Day), "", 1, "L", true, 0, "")
			pdf.Ln(1)
		}
		if newDay || row.Batch != rows[i-1].Batch {
			if !newDay {
				pdf.Ln(3)
			}
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(0, 7, tr("Batch: "+row.Batch), "", 1, "L", false, 0, "")

			pdf.SetFont("Arial", "B", 9)
			for j, h := range headers {
				pdf.CellFormat(colWidths[j], 7, h, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.SetFont("Arial", "", 9)
		for j, v := range []string{row.Time, row.Subject, row.Faculty, row.Room} {
			pdf.CellFormat(colWidths[j], 6, tr(v), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrExport, fmt.Errorf("render pdf: %w", err), "")
	}
	return buf.Bytes(), nil
}

// RenderLectures groups lectures and renders them.
func (e *PDFExporter) RenderLectures(lectures []*model.Lecture) ([]byte, error) {
	return e.Render(csvio.FlattenRows(lectures))
}

// Write renders the timetable into w.
func (e *PDFExporter) Write(w io.Writer, lectures []*model.Lecture) error {
	data, err := e.RenderLectures(lectures)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return appErrors.WrapAs(appErrors.ErrExport, err, "")
	}
	return nil
}

// ExportFile renders the timetable into the file at path.
func (e *PDFExporter) ExportFile(lectures []*model.Lecture, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrExport, err, fmt.Sprintf("failed to create %s", path))
	}
	defer out.Close()
	return e.Write(out, lectures)
}
