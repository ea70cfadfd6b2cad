package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"greenhill-schools/app/catalog"
	"greenhill-schools/app/ledger"
	"greenhill-schools/app/models"
	"greenhill-schools/app/stats"
)

// Assembler builds renderable documents from aggregated ledger data.
// It reads a point-in-time snapshot and may run as a cancellable
// background task; it never holds a write lock and cancelling it has
// no effect on ledger state.
type Assembler struct {
	engine     *stats.Engine
	attendance *ledger.AttendanceReconciler
	marks      *ledger.MarksLedger
	catalog    *catalog.Catalog
}

func NewAssembler(engine *stats.Engine, att *ledger.AttendanceReconciler, marks *ledger.MarksLedger, cat *catalog.Catalog) *Assembler {
	return &Assembler{engine: engine, attendance: att, marks: marks, catalog: cat}
}

// BuildCalendarDocument projects one student's attendance over a
// contiguous date range onto calendar months: one cell per date inside
// the range, annotated with the recorded status or NoData.
func (a *Assembler) BuildCalendarDocument(ctx context.Context, classID, studentID string, from, to models.DateKey) (*Document, error) {
	if to.Before(from) {
		return nil, ledger.NewValidationError("date", "range end %s is before start %s", to, from)
	}
	class, err := a.catalog.ClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, ledger.NewValidationError("class_id", "unknown class %s", classID)
	}

	entries, err := a.attendance.RangeSnapshot(ctx, classID, from, to)
	if err != nil {
		return nil, err
	}
	byDate := make(map[models.DateKey]models.AttendanceStatus)
	for _, entry := range entries {
		if entry.StudentID == studentID {
			byDate[entry.Date] = entry.Status
		}
	}

	doc := &Document{
		Title: fmt.Sprintf("Attendance %s to %s", from, to),
		Blocks: []Block{
			HeaderBlock{
				Title:    "Attendance Calendar",
				Subtitle: fmt.Sprintf("%s, %s to %s", class.Label(), from, to),
			},
		},
	}

	var month *CalendarBlock
	for day := from; !day.After(to); day = day.Next() {
		if month == nil || month.Year != day.Year || month.Month != day.Month {
			if month != nil {
				doc.Blocks = append(doc.Blocks, *month)
			}
			month = &CalendarBlock{Year: day.Year, Month: day.Month, Cells: make(map[int]string)}
		}
		if status, ok := byDate[day]; ok {
			month.Cells[day.Day] = string(status)
		} else {
			month.Cells[day.Day] = NoData
		}
	}
	if month != nil {
		doc.Blocks = append(doc.Blocks, *month)
	}
	return doc, nil
}

// BuildMarkSheetDocument builds the class mark sheet for an exam: one
// row per enrolled student, one column per declared subject, then
// total, average and grade columns.
func (a *Assembler) BuildMarkSheetDocument(ctx context.Context, classID, examID string) (*Document, error) {
	exam, err := a.catalog.ExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, ledger.NewValidationError("exam_id", "unknown exam %s", examID)
	}
	class, err := a.catalog.ClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, ledger.NewValidationError("class_id", "unknown class %s", classID)
	}
	students, err := a.catalog.StudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	subjectIDs := make([]string, 0, len(exam.Subjects))
	for _, s := range exam.Subjects {
		subjectIDs = append(subjectIDs, s.SubjectID)
	}
	names, err := a.catalog.SubjectNames(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	columns := []string{"Roll No", "Student"}
	for _, id := range subjectIDs {
		columns = append(columns, names[id])
	}
	columns = append(columns, "Total", "Average", "Grade")

	marks, err := a.marks.ExamMarks(ctx, examID)
	if err != nil {
		return nil, err
	}

	table := TableBlock{Columns: columns}
	for _, student := range students {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := []string{student.RollNo, student.FullName()}
		for _, id := range subjectIDs {
			if entry, ok := marks[student.ID][id]; ok {
				row = append(row, formatMarks(entry.MarksObtained))
			} else {
				row = append(row, "-")
			}
		}
		agg, err := a.engine.StudentReportStats(ctx, student.ID, examID)
		if err != nil {
			return nil, err
		}
		row = append(row, formatMarks(agg.Total), formatMarks(agg.Average), string(agg.Grade))
		table.Rows = append(table.Rows, row)
	}

	return &Document{
		Title: fmt.Sprintf("%s %s Mark Sheet", class.Label(), exam.Name),
		Blocks: []Block{
			HeaderBlock{
				Title:    exam.Name,
				Subtitle: fmt.Sprintf("%s, generated %s", class.Label(), models.DateKeyOf(time.Now())),
			},
			table,
		},
	}, nil
}

// formatMarks trims trailing zeros, rounding repeating averages to two
// decimal places.
func formatMarks(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
