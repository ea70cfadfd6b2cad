package ledger

import "fmt"

// ValidationError reports malformed or out-of-range input. It is
// detected before any write, so nothing is ever partially persisted
// behind one.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named input field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports that another writer holds the same composite
// key right now. The caller should retry once the other save finishes;
// the engine never silently drops either writer's data.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("another save for %s is in progress, retry shortly", e.Key)
}

// InconsistentStateWarning is returned when a full-replace failed
// mid-way and reinserting the prior snapshot failed too. The persisted
// day is in a degraded but detected state and a human should be told.
type InconsistentStateWarning struct {
	ClassID    string
	Date       string
	WriteErr   error
	RestoreErr error
}

func (e *InconsistentStateWarning) Error() string {
	return fmt.Sprintf("attendance for class %s on %s may be incomplete: write failed (%v) and restoring the previous snapshot failed (%v)",
		e.ClassID, e.Date, e.WriteErr, e.RestoreErr)
}

func (e *InconsistentStateWarning) Unwrap() error { return e.WriteErr }
