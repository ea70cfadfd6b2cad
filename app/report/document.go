// Package report assembles aggregated ledger data into a structured,
// renderer-agnostic document model and renders it through a pluggable
// sink. Nothing here writes ledger state or holds ledger locks.
package report

import "time"

// BlockKind tags the concrete type of a document block.
type BlockKind string

const (
	KindHeader   BlockKind = "header"
	KindTable    BlockKind = "table"
	KindCalendar BlockKind = "calendar"
)

// NoData marks a calendar day inside the requested range that has no
// persisted attendance entry.
const NoData = "no data"

// Block is one typed section of a document.
type Block interface {
	Kind() BlockKind
}

// Document is an ordered list of typed blocks handed to a renderer.
type Document struct {
	Title  string
	Blocks []Block
}

// HeaderBlock titles a document or a section of it.
type HeaderBlock struct {
	Title    string
	Subtitle string
}

func (HeaderBlock) Kind() BlockKind { return KindHeader }

// TableBlock is a rectangular grid with a header row.
type TableBlock struct {
	Columns []string
	Rows    [][]string
}

func (TableBlock) Kind() BlockKind { return KindTable }

// CalendarBlock covers one month; Cells maps a day of month to its
// annotation. Days absent from Cells fall outside the requested range.
type CalendarBlock struct {
	Year  int
	Month time.Month
	Cells map[int]string
}

func (CalendarBlock) Kind() BlockKind { return KindCalendar }
