package ledger

import (
	"context"
	"fmt"
	"iter"
	"math"

	"greenhill-schools/app/catalog"
	"greenhill-schools/app/models"
	"greenhill-schools/app/storage"
)

// MarkInput is one row of the marks-entry form.
type MarkInput struct {
	StudentID     string  `json:"student_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained"`
}

// RejectedMark reports one row that was excluded from a batch write.
type RejectedMark struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

// BatchResult summarises a marks batch: how many rows were written and
// which were rejected. One bad row never aborts the others.
type BatchResult struct {
	Saved    int            `json:"saved"`
	Rejected []RejectedMark `json:"rejected"`
}

// MarksLedger stores per-student per-exam per-subject marks with
// upsert semantics: first entry creates the row, re-entry overwrites
// it in place.
type MarksLedger struct {
	store   storage.Store
	catalog *catalog.Catalog
	locks   *keyLock
}

func NewMarksLedger(store storage.Store, cat *catalog.Catalog) *MarksLedger {
	return &MarksLedger{store: store, catalog: cat, locks: newKeyLock()}
}

// RecordMarks validates and upserts a batch of marks for one exam
// subject. Valid rows are written keyed by (student, exam, subject);
// invalid rows are reported individually in the result. Storage errors
// fail the call; the ledger does not retry on its own.
func (l *MarksLedger) RecordMarks(ctx context.Context, actor models.Actor, examID, subjectID string, entries []MarkInput) (BatchResult, error) {
	var result BatchResult

	if examID == "" {
		return result, NewValidationError("exam_id", "is required")
	}
	if subjectID == "" {
		return result, NewValidationError("subject_id", "is required")
	}

	exam, err := l.catalog.ExamByID(ctx, examID)
	if err != nil {
		return result, err
	}
	if exam == nil {
		return result, NewValidationError("exam_id", "unknown exam %s", examID)
	}
	maxMarks, declared := exam.MaxMarksFor(subjectID)
	if !declared {
		return result, NewValidationError("subject_id", "subject %s is not declared on exam %s", subjectID, examID)
	}

	unlock, ok := l.locks.tryAcquire(marksKey(examID, subjectID))
	if !ok {
		return result, &ConflictError{Key: fmt.Sprintf("marks %s/%s", examID, subjectID)}
	}
	defer unlock()

	// Last row wins for duplicated students; rejects keep form order.
	accepted := make(map[string]float64, len(entries))
	order := make([]string, 0, len(entries))
	for _, in := range entries {
		switch {
		case in.StudentID == "":
			result.Rejected = append(result.Rejected, RejectedMark{Reason: "student id is blank"})
			continue
		case math.IsNaN(in.MarksObtained) || math.IsInf(in.MarksObtained, 0):
			result.Rejected = append(result.Rejected, RejectedMark{StudentID: in.StudentID, Reason: "marks is not a number"})
			continue
		case in.MarksObtained < 0 || in.MarksObtained > maxMarks:
			result.Rejected = append(result.Rejected, RejectedMark{
				StudentID: in.StudentID,
				Reason:    fmt.Sprintf("marks %.2f outside 0..%.0f", in.MarksObtained, maxMarks),
			})
			continue
		}
		if _, seen := accepted[in.StudentID]; !seen {
			order = append(order, in.StudentID)
		}
		accepted[in.StudentID] = in.MarksObtained
	}
	if len(accepted) == 0 {
		return result, nil
	}

	rows := make([]storage.Row, 0, len(accepted))
	for _, studentID := range order {
		rows = append(rows, storage.Row{
			"student_id":     studentID,
			"exam_id":        examID,
			"subject_id":     subjectID,
			"marks_obtained": accepted[studentID],
			"max_marks":      maxMarks,
			"entered_by":     actor.ID,
		})
	}
	if err := l.store.UpsertMany(ctx, storage.TableMarks, rows, []string{"student_id", "exam_id", "subject_id"}); err != nil {
		return result, fmt.Errorf("failed to save marks: %w", err)
	}
	result.Saved = len(rows)
	return result, nil
}

// StudentMarks yields a student's marks for an exam in the exam's
// declared subject order. Subjects without a persisted entry are
// skipped; aggregation treats them as zero, the ledger does not invent
// rows for them.
func (l *MarksLedger) StudentMarks(ctx context.Context, studentID, examID string) (iter.Seq[models.MarksEntry], error) {
	exam, err := l.catalog.ExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, NewValidationError("exam_id", "unknown exam %s", examID)
	}

	rows, err := l.store.SelectWhere(ctx, storage.TableMarks, storage.Pred{
		"student_id": studentID,
		"exam_id":    examID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marks: %w", err)
	}

	bySubject := make(map[string]models.MarksEntry, len(rows))
	for _, row := range rows {
		entry := decodeMarks(row)
		bySubject[entry.SubjectID] = entry
	}

	return func(yield func(models.MarksEntry) bool) {
		for _, subject := range exam.Subjects {
			entry, ok := bySubject[subject.SubjectID]
			if !ok {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}, nil
}

// ExamMarks returns every persisted mark for an exam keyed by student
// then subject. Used by aggregation to rank a whole class in one read.
func (l *MarksLedger) ExamMarks(ctx context.Context, examID string) (map[string]map[string]models.MarksEntry, error) {
	rows, err := l.store.SelectWhere(ctx, storage.TableMarks, storage.Pred{"exam_id": examID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exam marks: %w", err)
	}
	out := make(map[string]map[string]models.MarksEntry)
	for _, row := range rows {
		entry := decodeMarks(row)
		if out[entry.StudentID] == nil {
			out[entry.StudentID] = make(map[string]models.MarksEntry)
		}
		out[entry.StudentID][entry.SubjectID] = entry
	}
	return out, nil
}

func decodeMarks(row storage.Row) models.MarksEntry {
	return models.MarksEntry{
		StudentID:     row.String("student_id"),
		ExamID:        row.String("exam_id"),
		SubjectID:     row.String("subject_id"),
		MarksObtained: row.Float("marks_obtained"),
		MaxMarks:      row.Float("max_marks"),
		EnteredBy:     row.String("entered_by"),
	}
}

func marksKey(examID, subjectID string) string {
	return "marks|" + examID + "|" + subjectID
}
