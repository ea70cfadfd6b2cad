package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"greenhill-schools/app/models"
	"greenhill-schools/app/storage"
)

// AttendanceInput is one row of the attendance form. The slice mirrors
// the form: a student may appear more than once and the last row wins.
type AttendanceInput struct {
	StudentID string                  `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
}

// AttendanceReconciler owns the per-class per-day attendance snapshot.
// A submit replaces the whole (class, date) snapshot: students omitted
// from the call have no entry afterwards. The caller supplies the full
// roster if it wants default-to-absent behaviour; the reconciler does
// not infer it.
type AttendanceReconciler struct {
	store storage.Store
	locks *keyLock
	now   func() time.Time
}

func NewAttendanceReconciler(store storage.Store) *AttendanceReconciler {
	return &AttendanceReconciler{
		store: store,
		locks: newKeyLock(),
		now:   time.Now,
	}
}

// SubmitAttendance replaces the persisted snapshot for (classID, day)
// with the supplied entries as one logical operation. An empty entries
// list clears the day. The store has no multi-row transaction, so the
// reconciler deletes then inserts; if the insert fails it reinserts the
// prior snapshot, and if that fails too it returns
// InconsistentStateWarning instead of losing data silently.
func (r *AttendanceReconciler) SubmitAttendance(ctx context.Context, actor models.Actor, classID string, day models.DateKey, entries []AttendanceInput) error {
	if classID == "" {
		return NewValidationError("class_id", "is required")
	}
	if day.IsZero() {
		return NewValidationError("date", "is required")
	}
	if day.After(models.DateKeyOf(r.now())) {
		return NewValidationError("date", "%s is in the future", day)
	}

	// Last row wins for duplicated students, like the form it mirrors.
	statuses := make(map[string]models.AttendanceStatus, len(entries))
	for _, in := range entries {
		if in.StudentID == "" {
			return NewValidationError("student_id", "is required")
		}
		if _, err := models.ParseAttendanceStatus(string(in.Status)); err != nil {
			return NewValidationError("status", "invalid status %q for student %s", in.Status, in.StudentID)
		}
		statuses[in.StudentID] = in.Status
	}

	unlock, ok := r.locks.tryAcquire(attendanceKey(classID, day))
	if !ok {
		return &ConflictError{Key: fmt.Sprintf("attendance %s/%s", classID, day)}
	}
	defer unlock()

	pred := storage.Pred{"class_id": classID, "date": day.String()}

	prior, err := r.store.SelectWhere(ctx, storage.TableAttendance, pred)
	if err != nil {
		return fmt.Errorf("failed to read prior attendance: %w", err)
	}
	if err := r.store.DeleteWhere(ctx, storage.TableAttendance, pred); err != nil {
		return fmt.Errorf("failed to clear attendance snapshot: %w", err)
	}
	if len(statuses) == 0 {
		return nil
	}

	rows := make([]storage.Row, 0, len(statuses))
	for studentID, status := range statuses {
		rows = append(rows, storage.Row{
			"class_id":   classID,
			"date":       day.String(),
			"student_id": studentID,
			"status":     string(status),
			"marked_by":  actor.ID,
		})
	}

	if err := r.store.InsertMany(ctx, storage.TableAttendance, rows); err != nil {
		// Compensate: put the prior snapshot back.
		if restoreErr := r.store.InsertMany(ctx, storage.TableAttendance, prior); restoreErr != nil {
			return &InconsistentStateWarning{
				ClassID:    classID,
				Date:       day.String(),
				WriteErr:   err,
				RestoreErr: restoreErr,
			}
		}
		return fmt.Errorf("failed to save attendance, previous snapshot restored: %w", err)
	}
	return nil
}

// DaySnapshot returns the persisted entries for (classID, day) ordered
// by student ID.
func (r *AttendanceReconciler) DaySnapshot(ctx context.Context, classID string, day models.DateKey) ([]models.AttendanceEntry, error) {
	rows, err := r.store.SelectWhere(ctx, storage.TableAttendance, storage.Pred{
		"class_id": classID,
		"date":     day.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	entries := decodeAttendance(rows)
	sort.Slice(entries, func(i, j int) bool { return entries[i].StudentID < entries[j].StudentID })
	return entries, nil
}

// RangeSnapshot returns all entries for a class between from and to
// inclusive. The store predicate is equality-only, so the date filter
// happens here.
func (r *AttendanceReconciler) RangeSnapshot(ctx context.Context, classID string, from, to models.DateKey) ([]models.AttendanceEntry, error) {
	if to.Before(from) {
		return nil, NewValidationError("date", "range end %s is before start %s", to, from)
	}
	rows, err := r.store.SelectWhere(ctx, storage.TableAttendance, storage.Pred{"class_id": classID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	var entries []models.AttendanceEntry
	for _, e := range decodeAttendance(rows) {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].StudentID < entries[j].StudentID
	})
	return entries, nil
}

func decodeAttendance(rows []storage.Row) []models.AttendanceEntry {
	entries := make([]models.AttendanceEntry, 0, len(rows))
	for _, row := range rows {
		raw := row.String("date")
		if len(raw) > 10 {
			raw = raw[:10] // timestamps from DATE columns carry a zero time part
		}
		day, err := models.ParseDateKey(raw)
		if err != nil {
			continue
		}
		entries = append(entries, models.AttendanceEntry{
			ClassID:   row.String("class_id"),
			Date:      day,
			StudentID: row.String("student_id"),
			Status:    models.AttendanceStatus(row.String("status")),
			MarkedBy:  row.String("marked_by"),
		})
	}
	return entries
}

func attendanceKey(classID string, day models.DateKey) string {
	return "attendance|" + classID + "|" + day.String()
}
