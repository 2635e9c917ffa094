package csvio

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rhyrak/smart-timetable/pkg/model"
)

const bannerWidth = 32

// PrintSchedule prints the weekly timetable grouped by day, with one table
// per batch.
func PrintSchedule(w io.Writer, lectures []*model.Lecture) error {
	r := lipgloss.NewRenderer(w)
	dayStyle := r.NewStyle().Bold(true)
	batchStyle := r.NewStyle().Faint(true)
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)

	var b strings.Builder
	count := 0
	for _, day := range GroupLectures(lectures) {
		pad := max(bannerWidth-lipgloss.Width(day.Day), 0)
		banner := fmt.Sprintf("%s %s %s", strings.Repeat("=", pad/2), day.Day, strings.Repeat("=", pad-pad/2))
		b.WriteString("\n" + dayStyle.Render(banner) + "\n")

		for _, batch := range day.Batches {
			b.WriteString(batchStyle.Render(">>> Batch: "+batch.Batch) + "\n")

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(r.NewStyle()).
				Headers("Time", "Subject", "Faculty", "Room").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, l := range batch.Lectures {
				t.Row(l.Slot.Time, l.Subject.Name, l.Faculty.Name, l.Room.Number)
				count++
			}
			b.WriteString(t.Render() + "\n")
		}
	}
	fmt.Fprintf(&b, "Printed rows: %d\n", count)

	_, err := io.WriteString(w, b.String())
	return err
}
