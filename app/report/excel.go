package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Artifact is the opaque result of rendering a document.
type Artifact struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Renderer turns a document model into a downloadable artifact. It is
// a one-way sink: nothing it does feeds back into ledger state.
type Renderer interface {
	Render(ctx context.Context, doc *Document) (*Artifact, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelRenderer renders documents to a single-sheet xlsx workbook.
type ExcelRenderer struct{}

func (ExcelRenderer) Render(ctx context.Context, doc *Document) (*Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	row := 1
	for _, block := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		switch b := block.(type) {
		case HeaderBlock:
			row, err = writeHeader(f, sheet, row, b)
		case TableBlock:
			row, err = writeTable(f, sheet, row, b)
		case CalendarBlock:
			row, err = writeCalendar(f, sheet, row, b)
		default:
			err = fmt.Errorf("unsupported block kind %q", block.Kind())
		}
		if err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &Artifact{
		Filename:    slugify(doc.Title) + ".xlsx",
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}, nil
}

func writeHeader(f *excelize.File, sheet string, row int, b HeaderBlock) (int, error) {
	if err := setCell(f, sheet, 1, row, b.Title); err != nil {
		return row, err
	}
	row++
	if b.Subtitle != "" {
		if err := setCell(f, sheet, 1, row, b.Subtitle); err != nil {
			return row, err
		}
		row++
	}
	return row + 1, nil
}

func writeTable(f *excelize.File, sheet string, row int, b TableBlock) (int, error) {
	for i, col := range b.Columns {
		if err := setCell(f, sheet, i+1, row, col); err != nil {
			return row, err
		}
	}
	row++
	for _, dataRow := range b.Rows {
		for i, val := range dataRow {
			if err := setCell(f, sheet, i+1, row, val); err != nil {
				return row, err
			}
		}
		row++
	}
	return row + 1, nil
}

// writeCalendar lays the month out as a Monday-first week grid, one
// "day: annotation" cell per date that the block covers.
func writeCalendar(f *excelize.File, sheet string, row int, b CalendarBlock) (int, error) {
	if err := setCell(f, sheet, 1, row, fmt.Sprintf("%s %d", b.Month, b.Year)); err != nil {
		return row, err
	}
	row++
	for i, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if err := setCell(f, sheet, i+1, row, name); err != nil {
			return row, err
		}
	}
	row++

	first := time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	col := mondayFirst(first.Weekday())
	for day := 1; day <= daysInMonth; day++ {
		if annotation, ok := b.Cells[day]; ok {
			if err := setCell(f, sheet, col+1, row, fmt.Sprintf("%d: %s", day, annotation)); err != nil {
				return row, err
			}
		}
		col++
		if col == 7 {
			col = 0
			row++
		}
	}
	if col != 0 {
		row++
	}
	return row + 1, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// mondayFirst shifts time.Weekday so Monday is column 0.
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, s)
	if s == "" {
		s = "report"
	}
	return s
}
