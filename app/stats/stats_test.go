package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhill-schools/app/catalog"
	"greenhill-schools/app/grading"
	"greenhill-schools/app/ledger"
	"greenhill-schools/app/models"
	"greenhill-schools/app/storage"
)

var teacher = models.Actor{ID: "t-1", Name: "Jane Okello", Role: models.RoleClassTeacher}

type fixture struct {
	store      *storage.Memory
	attendance *ledger.AttendanceReconciler
	marks      *ledger.MarksLedger
	engine     *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemory()
	cat := catalog.New(store)
	att := ledger.NewAttendanceReconciler(store)
	marks := ledger.NewMarksLedger(store, cat)
	engine := NewEngine(att, marks, cat, grading.SevenBand, nil)
	engine.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return &fixture{store: store, attendance: att, marks: marks, engine: engine}
}

func (f *fixture) seedStudents(t *testing.T, classID string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	rows := make([]storage.Row, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("s-%02d", i)
		ids = append(ids, id)
		rows = append(rows, storage.Row{
			"id": id, "roll_no": fmt.Sprintf("%02d", i),
			"first_name": "Student", "last_name": id,
			"class_id": classID, "is_active": true,
		})
	}
	require.NoError(t, f.store.InsertMany(context.Background(), storage.TableStudents, rows))
	return ids
}

func (f *fixture) seedExam(t *testing.T, classID string, subjects ...string) string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.InsertMany(ctx, storage.TableExams, []storage.Row{
		{"id": "exam-1", "name": "Mid Term One", "class_id": classID, "start_date": "2026-03-09", "end_date": "2026-03-13"},
	}))
	rows := make([]storage.Row, 0, len(subjects))
	for i, sub := range subjects {
		rows = append(rows, storage.Row{"exam_id": "exam-1", "subject_id": sub, "max_marks": 100.0, "position": i + 1})
	}
	require.NoError(t, f.store.InsertMany(ctx, storage.TableExamSubjects, rows))
	return "exam-1"
}

func TestClassAttendancePercentage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ids := f.seedStudents(t, "class-1", 30)
	day := models.DateKey{Year: 2026, Month: 3, Day: 10} // a Tuesday

	// 27 of 30 present on the single school day in range.
	inputs := make([]ledger.AttendanceInput, 0, len(ids))
	for i, id := range ids {
		status := models.Present
		if i >= 27 {
			status = models.Absent
		}
		inputs = append(inputs, ledger.AttendanceInput{StudentID: id, Status: status})
	}
	require.NoError(t, f.attendance.SubmitAttendance(ctx, teacher, "class-1", day, inputs))

	pct, err := f.engine.ClassAttendancePercentage(ctx, "class-1", day, day)
	require.NoError(t, err)
	assert.Equal(t, 90, pct)
}

func TestClassAttendancePercentageZeroExpected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// No enrolled students: 0, not a division error.
	pct, err := f.engine.ClassAttendancePercentage(ctx, "class-1",
		models.DateKey{Year: 2026, Month: 3, Day: 10}, models.DateKey{Year: 2026, Month: 3, Day: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, pct)

	// A Sunday-only range has no school days.
	f.seedStudents(t, "class-1", 10)
	sunday := models.DateKey{Year: 2026, Month: 3, Day: 8}
	pct, err = f.engine.ClassAttendancePercentage(ctx, "class-1", sunday, sunday)
	require.NoError(t, err)
	assert.Equal(t, 0, pct)
}

func TestClassAttendancePercentageIgnoresOffRosterEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedStudents(t, "class-1", 2)
	require.NoError(t, f.store.InsertMany(ctx, storage.TableStudents, []storage.Row{
		{"id": "s-99", "roll_no": "99", "first_name": "Left", "last_name": "School", "class_id": "class-1", "is_active": false},
	}))
	day := models.DateKey{Year: 2026, Month: 3, Day: 10}

	// s-99 was marked present before being deactivated; the entry must
	// not count against a denominator of two.
	require.NoError(t, f.attendance.SubmitAttendance(ctx, teacher, "class-1", day, []ledger.AttendanceInput{
		{StudentID: "s-01", Status: models.Present},
		{StudentID: "s-02", Status: models.Absent},
		{StudentID: "s-99", Status: models.Present},
	}))

	pct, err := f.engine.ClassAttendancePercentage(ctx, "class-1", day, day)
	require.NoError(t, err)
	assert.Equal(t, 50, pct)
}

func TestSchoolDays(t *testing.T) {
	monday := models.DateKey{Year: 2026, Month: 3, Day: 9}
	sunday := models.DateKey{Year: 2026, Month: 3, Day: 15}
	assert.Equal(t, 6, schoolDays(monday, sunday), "Monday through Saturday count, Sunday does not")
	assert.Equal(t, 1, schoolDays(monday, monday))
	assert.Equal(t, 0, schoolDays(sunday, monday), "inverted range")
}

func TestStudentReportStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	examID := f.seedExam(t, "class-1", "sub-math", "sub-science")

	record := func(sub string, inputs ...ledger.MarkInput) {
		t.Helper()
		_, err := f.marks.RecordMarks(ctx, teacher, examID, sub, inputs)
		require.NoError(t, err)
	}
	record("sub-math",
		ledger.MarkInput{StudentID: "s-01", MarksObtained: 80},
		ledger.MarkInput{StudentID: "s-02", MarksObtained: 95},
	)
	record("sub-science",
		ledger.MarkInput{StudentID: "s-01", MarksObtained: 60},
		ledger.MarkInput{StudentID: "s-02", MarksObtained: 85},
	)

	got, err := f.engine.StudentReportStats(ctx, "s-01", examID)
	require.NoError(t, err)
	assert.Equal(t, ReportStats{Total: 140, Average: 70, Grade: grading.GradeBPlus}, got)

	got, err = f.engine.StudentReportStats(ctx, "s-02", examID)
	require.NoError(t, err)
	assert.Equal(t, ReportStats{Total: 180, Average: 90, Grade: grading.GradeAPlus}, got)
}

func TestStudentReportStatsMissingSubjectCountsZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	examID := f.seedExam(t, "class-1", "sub-math", "sub-science")

	_, err := f.marks.RecordMarks(ctx, teacher, examID, "sub-math", []ledger.MarkInput{
		{StudentID: "s-01", MarksObtained: 90},
	})
	require.NoError(t, err)

	got, err := f.engine.StudentReportStats(ctx, "s-01", examID)
	require.NoError(t, err)
	// The average divides by the declared subject count, not by the
	// entries that happen to exist.
	assert.Equal(t, ReportStats{Total: 90, Average: 45, Grade: grading.GradeD}, got)
}

func TestFeeCollectionPercentage(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 80, f.engine.FeeCollectionPercentage(300000, 240000))
	assert.Equal(t, 0, f.engine.FeeCollectionPercentage(0, 0))
	assert.Equal(t, 0, f.engine.FeeCollectionPercentage(0, 5000), "nothing due yields 0 even with payments on file")
	assert.Equal(t, 100, f.engine.FeeCollectionPercentage(1000, 1500), "overpayment clamps at 100")
}

func TestClassRanking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedStudents(t, "class-1", 4)
	examID := f.seedExam(t, "class-1", "sub-math", "sub-science")

	_, err := f.marks.RecordMarks(ctx, teacher, examID, "sub-math", []ledger.MarkInput{
		{StudentID: "s-01", MarksObtained: 70},
		{StudentID: "s-02", MarksObtained: 90},
		{StudentID: "s-03", MarksObtained: 40},
		{StudentID: "s-04", MarksObtained: 70},
	})
	require.NoError(t, err)
	_, err = f.marks.RecordMarks(ctx, teacher, examID, "sub-science", []ledger.MarkInput{
		{StudentID: "s-01", MarksObtained: 30},
		{StudentID: "s-02", MarksObtained: 85},
		{StudentID: "s-04", MarksObtained: 30},
	})
	require.NoError(t, err)

	want := []RankEntry{
		{StudentID: "s-02", Total: 175},
		{StudentID: "s-01", Total: 100}, // ties with s-04, lower ID first
		{StudentID: "s-04", Total: 100},
		{StudentID: "s-03", Total: 40},
	}

	got, err := f.engine.ClassRanking(ctx, "class-1", examID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Deterministic: the same data ranks the same way every run.
	again, err := f.engine.ClassRanking(ctx, "class-1", examID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.store.InsertMany(ctx, storage.TableClasses, []storage.Row{
		{"id": "class-1", "name": "P5", "section": "A", "is_active": true},
		{"id": "class-2", "name": "P5", "section": "B", "is_active": true},
		{"id": "class-9", "name": "P7", "section": "A", "is_active": false},
	}))
	f.seedStudents(t, "class-1", 3)
	require.NoError(t, f.store.InsertMany(ctx, storage.TableStudents, []storage.Row{
		{"id": "s-90", "roll_no": "90", "first_name": "Left", "last_name": "School", "class_id": "class-2", "is_active": false},
	}))
	require.NoError(t, f.store.InsertMany(ctx, storage.TableFeeRecords, []storage.Row{
		{"id": "fee-1", "student_id": "s-01", "amount_due": 200000.0, "amount_paid": 180000.0},
		{"id": "fee-2", "student_id": "s-02", "amount_due": 100000.0, "amount_paid": 60000.0},
	}))

	today := models.DateKey{Year: 2026, Month: 3, Day: 10}
	require.NoError(t, f.attendance.SubmitAttendance(ctx, teacher, "class-1", today, []ledger.AttendanceInput{
		{StudentID: "s-01", Status: models.Present},
		{StudentID: "s-02", Status: models.Present},
		{StudentID: "s-03", Status: models.Absent},
	}))

	got, err := f.engine.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalStudents, "inactive students are not counted")
	assert.Equal(t, 2, got.TotalClasses, "inactive classes are not counted")
	assert.Equal(t, 67, got.StudentAttendance, "2 of 3 present today")
	assert.Equal(t, 80, got.FeeCollectionRate)
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 0, roundPercent(10, 0))
	assert.Equal(t, 0, roundPercent(10, -5))
	assert.Equal(t, 50, roundPercent(1, 2))
	assert.Equal(t, 67, roundPercent(2, 3))
	assert.Equal(t, 100, roundPercent(5, 4))
}
