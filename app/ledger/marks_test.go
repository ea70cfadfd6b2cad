package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhill-schools/app/catalog"
	"greenhill-schools/app/models"
	"greenhill-schools/app/storage"
)

const (
	examID    = "exam-1"
	mathID    = "sub-math"
	englishID = "sub-english"
	scienceID = "sub-science"
)

// seedMidTerm declares a three-subject exam: maths out of 100, english
// with no declared maximum (defaults to 100) and science out of 50.
func seedMidTerm(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.InsertMany(ctx, storage.TableExams, []storage.Row{
		{"id": examID, "name": "Mid Term One", "class_id": "class-1", "start_date": "2026-03-09", "end_date": "2026-03-13"},
	}))
	require.NoError(t, store.InsertMany(ctx, storage.TableExamSubjects, []storage.Row{
		{"exam_id": examID, "subject_id": scienceID, "max_marks": 50.0, "position": 3},
		{"exam_id": examID, "subject_id": mathID, "max_marks": 100.0, "position": 1},
		{"exam_id": examID, "subject_id": englishID, "max_marks": 0.0, "position": 2},
	}))
}

func newTestLedger(t *testing.T) (*MarksLedger, storage.Store) {
	t.Helper()
	store := storage.NewMemory()
	seedMidTerm(t, store)
	return NewMarksLedger(store, catalog.New(store)), store
}

func TestRecordMarksUpsert(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	result, err := l.RecordMarks(ctx, teacher, examID, mathID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 80},
		{StudentID: "s-2", MarksObtained: 60},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Empty(t, result.Rejected)

	// Re-entry overwrites in place, it never duplicates the row.
	result, err = l.RecordMarks(ctx, teacher, examID, mathID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 85},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)

	marks, err := l.ExamMarks(ctx, examID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, marks["s-1"][mathID].MarksObtained)
	assert.Equal(t, 60.0, marks["s-2"][mathID].MarksObtained)
	assert.Len(t, marks, 2)
}

func TestRecordMarksPartialRejection(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	result, err := l.RecordMarks(ctx, teacher, examID, mathID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 90},
		{StudentID: "", MarksObtained: 70},
		{StudentID: "s-2", MarksObtained: math.NaN()},
		{StudentID: "s-3", MarksObtained: -5},
		{StudentID: "s-4", MarksObtained: 120},
		{StudentID: "s-5", MarksObtained: 40},
	})
	require.NoError(t, err, "bad rows are reported, they do not abort the batch")
	assert.Equal(t, 2, result.Saved)
	require.Len(t, result.Rejected, 4)
	assert.Equal(t, "s-2", result.Rejected[1].StudentID)

	marks, err := l.ExamMarks(ctx, examID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, marks["s-1"][mathID].MarksObtained)
	assert.Equal(t, 40.0, marks["s-5"][mathID].MarksObtained)
	assert.NotContains(t, marks, "s-3")
	assert.NotContains(t, marks, "s-4")
}

func TestRecordMarksMaxMarks(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	// Science is out of 50: 50 passes, 51 is out of range.
	result, err := l.RecordMarks(ctx, teacher, examID, scienceID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 50},
		{StudentID: "s-2", MarksObtained: 51},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "s-2", result.Rejected[0].StudentID)

	// English declares no maximum, so the default of 100 applies.
	result, err = l.RecordMarks(ctx, teacher, examID, englishID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 100},
		{StudentID: "s-2", MarksObtained: 100.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Len(t, result.Rejected, 1)
}

func TestRecordMarksDuplicateStudentLastWins(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	result, err := l.RecordMarks(ctx, teacher, examID, mathID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 40},
		{StudentID: "s-1", MarksObtained: 70},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)

	marks, err := l.ExamMarks(ctx, examID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, marks["s-1"][mathID].MarksObtained)
}

func TestRecordMarksUnknownExam(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.RecordMarks(ctx, teacher, "no-such-exam", mathID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 50},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "exam_id", verr.Field)
}

func TestRecordMarksUndeclaredSubject(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)

	_, err := l.RecordMarks(ctx, teacher, examID, "sub-art", []MarkInput{
		{StudentID: "s-1", MarksObtained: 50},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "subject_id", verr.Field)

	rows, err := store.SelectWhere(context.Background(), storage.TableMarks, storage.Pred{})
	require.NoError(t, err)
	assert.Empty(t, rows, "a rejected batch writes nothing")
}

func TestRecordMarksConflict(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	unlock, ok := l.locks.tryAcquire(marksKey(examID, mathID))
	require.True(t, ok)
	defer unlock()

	_, err := l.RecordMarks(ctx, teacher, examID, mathID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 50},
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// Another subject of the same exam is an independent key.
	_, err = l.RecordMarks(ctx, teacher, examID, scienceID, []MarkInput{
		{StudentID: "s-1", MarksObtained: 30},
	})
	assert.NoError(t, err)
}

func TestStudentMarksDeclaredSubjectOrder(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	// Enter science before maths; iteration must still follow the
	// exam's declared order, skipping english which has no entry.
	_, err := l.RecordMarks(ctx, teacher, examID, scienceID, []MarkInput{{StudentID: "s-1", MarksObtained: 45}})
	require.NoError(t, err)
	_, err = l.RecordMarks(ctx, teacher, examID, mathID, []MarkInput{{StudentID: "s-1", MarksObtained: 80}})
	require.NoError(t, err)

	seq, err := l.StudentMarks(ctx, "s-1", examID)
	require.NoError(t, err)

	var got []models.MarksEntry
	for entry := range seq {
		got = append(got, entry)
	}
	require.Len(t, got, 2)
	assert.Equal(t, mathID, got[0].SubjectID)
	assert.Equal(t, 80.0, got[0].MarksObtained)
	assert.Equal(t, scienceID, got[1].SubjectID)
	assert.Equal(t, 50.0, got[1].MaxMarks)
}

func TestStudentMarksUnknownExam(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.StudentMarks(ctx, "s-1", "no-such-exam")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestStudentMarksStopsWhenConsumerBreaks(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	for _, sub := range []string{mathID, englishID} {
		_, err := l.RecordMarks(ctx, teacher, examID, sub, []MarkInput{{StudentID: "s-1", MarksObtained: 10}})
		require.NoError(t, err)
	}

	seq, err := l.StudentMarks(ctx, "s-1", examID)
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
