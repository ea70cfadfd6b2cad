package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhill-schools/app/storage"
)

func seeded(t *testing.T) (*Catalog, *storage.Memory) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()

	require.NoError(t, store.InsertMany(ctx, storage.TableStudents, []storage.Row{
		{"id": "s-2", "roll_no": "02", "first_name": "Brian", "last_name": "Okello", "class_id": "class-1", "is_active": true},
		{"id": "s-1", "roll_no": "01", "first_name": "Amina", "last_name": "Kato", "class_id": "class-1", "is_active": true},
		{"id": "s-3", "roll_no": "03", "first_name": "Left", "last_name": "School", "class_id": "class-1", "is_active": false},
	}))
	require.NoError(t, store.InsertMany(ctx, storage.TableExams, []storage.Row{
		{"id": "exam-1", "name": "Mid Term One", "class_id": "class-1", "start_date": "2026-03-09", "end_date": "2026-03-13"},
	}))
	require.NoError(t, store.InsertMany(ctx, storage.TableExamSubjects, []storage.Row{
		{"exam_id": "exam-1", "subject_id": "sub-science", "max_marks": 50.0, "position": 2},
		{"exam_id": "exam-1", "subject_id": "sub-math", "max_marks": 100.0, "position": 1},
	}))
	require.NoError(t, store.InsertMany(ctx, storage.TableSubjects, []storage.Row{
		{"id": "sub-math", "name": "Mathematics"},
	}))
	return New(store), store
}

func TestStudentsByClass(t *testing.T) {
	ctx := context.Background()
	cat, _ := seeded(t)

	students, err := cat.StudentsByClass(ctx, "class-1")
	require.NoError(t, err)
	require.Len(t, students, 2, "inactive students are excluded")
	assert.Equal(t, "01", students[0].RollNo, "ordered by roll number")
	assert.Equal(t, "Amina Kato", students[0].FullName())
}

func TestExamByID(t *testing.T) {
	ctx := context.Background()
	cat, _ := seeded(t)

	exam, err := cat.ExamByID(ctx, "exam-1")
	require.NoError(t, err)
	require.NotNil(t, exam)
	assert.Equal(t, "Mid Term One", exam.Name)
	assert.Equal(t, "2026-03-09", exam.StartDate.String())

	// Subjects come back in sheet order regardless of insert order.
	require.Len(t, exam.Subjects, 2)
	assert.Equal(t, "sub-math", exam.Subjects[0].SubjectID)
	assert.Equal(t, "sub-science", exam.Subjects[1].SubjectID)

	max, declared := exam.MaxMarksFor("sub-science")
	assert.True(t, declared)
	assert.Equal(t, 50.0, max)
	_, declared = exam.MaxMarksFor("sub-art")
	assert.False(t, declared)

	missing, err := cat.ExamByID(ctx, "no-such-exam")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSubjectNames(t *testing.T) {
	ctx := context.Background()
	cat, _ := seeded(t)

	names, err := cat.SubjectNames(ctx, []string{"sub-math", "sub-science"})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", names["sub-math"])
	assert.Equal(t, "sub-science", names["sub-science"], "unknown IDs fall back to the raw ID")
}

func TestFeeTotals(t *testing.T) {
	ctx := context.Background()
	cat, store := seeded(t)

	require.NoError(t, store.InsertMany(ctx, storage.TableFeeRecords, []storage.Row{
		{"id": "fee-1", "student_id": "s-1", "amount_due": 200000.0, "amount_paid": 150000.0},
		{"id": "fee-2", "student_id": "s-2", "amount_due": 100000.0, "amount_paid": 90000.0},
	}))

	due, collected, err := cat.FeeTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300000.0, due)
	assert.Equal(t, 240000.0, collected)
}
