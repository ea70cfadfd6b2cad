package storage

import (
	"context"
	"strconv"
	"time"
)

// Table names used by the engine.
const (
	TableStudents     = "students"
	TableClasses      = "classes"
	TableSubjects     = "subjects"
	TableExams        = "exams"
	TableExamSubjects = "exam_subjects"
	TableAttendance   = "attendance"
	TableMarks        = "marks"
	TableFeeRecords   = "fee_records"
)

// Row is one stored record as column name to value.
type Row map[string]any

// Pred is an equality predicate over columns; all pairs must match.
// An empty Pred matches every row in the table.
type Pred map[string]any

// Store is the persistence collaborator the engine writes through.
// Writes are idempotent at key granularity: InsertMany with the same
// rows twice is the only non-idempotent call and the ledgers never
// issue it without deleting the keyed snapshot first.
type Store interface {
	SelectWhere(ctx context.Context, table string, pred Pred) ([]Row, error)
	InsertMany(ctx context.Context, table string, rows []Row) error
	UpsertMany(ctx context.Context, table string, rows []Row, conflictKeys []string) error
	DeleteWhere(ctx context.Context, table string, pred Pred) error
}

// String reads a column as a string, tolerating []byte from drivers.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return ""
}

// Float reads a column as a float64 across the numeric types drivers return.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Int reads a column as an int.
func (r Row) Int(col string) int {
	switch v := r[col].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// Bool reads a column as a bool.
func (r Row) Bool(col string) bool {
	v, _ := r[col].(bool)
	return v
}
