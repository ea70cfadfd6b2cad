// Package catalog reads the roster and exam reference data the engine
// aggregates against. All of it is managed by the admin system; this
// service never writes these tables.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"greenhill-schools/app/models"
	"greenhill-schools/app/storage"
)

type Catalog struct {
	store storage.Store
}

func New(store storage.Store) *Catalog {
	return &Catalog{store: store}
}

// StudentsByClass returns the active students of a class ordered by
// roll number.
func (c *Catalog) StudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableStudents, storage.Pred{
		"class_id":  classID,
		"is_active": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students for class %s: %w", classID, err)
	}

	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, models.Student{
			ID:        row.String("id"),
			RollNo:    row.String("roll_no"),
			FirstName: row.String("first_name"),
			LastName:  row.String("last_name"),
			ClassID:   row.String("class_id"),
			IsActive:  row.Bool("is_active"),
		})
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].RollNo < students[j].RollNo
	})
	return students, nil
}

// ClassByID returns a class section, or nil when it does not exist.
func (c *Catalog) ClassByID(ctx context.Context, classID string) (*models.ClassSection, error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableClasses, storage.Pred{"id": classID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch class %s: %w", classID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &models.ClassSection{
		ID:       row.String("id"),
		Name:     row.String("name"),
		Section:  row.String("section"),
		IsActive: row.Bool("is_active"),
	}, nil
}

// ExamByID returns an exam with its declared subjects in sheet order,
// or nil when it does not exist.
func (c *Catalog) ExamByID(ctx context.Context, examID string) (*models.Exam, error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableExams, storage.Pred{"id": examID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exam %s: %w", examID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	exam := &models.Exam{
		ID:      row.String("id"),
		Name:    row.String("name"),
		ClassID: row.String("class_id"),
	}
	if day, ok := parseDay(row.String("start_date")); ok {
		exam.StartDate = day
	}
	if day, ok := parseDay(row.String("end_date")); ok {
		exam.EndDate = day
	}

	subjectRows, err := c.store.SelectWhere(ctx, storage.TableExamSubjects, storage.Pred{"exam_id": examID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subjects for exam %s: %w", examID, err)
	}
	sort.Slice(subjectRows, func(i, j int) bool {
		return subjectRows[i].Int("position") < subjectRows[j].Int("position")
	})
	for _, sr := range subjectRows {
		exam.Subjects = append(exam.Subjects, models.ExamSubject{
			SubjectID: sr.String("subject_id"),
			MaxMarks:  sr.Float("max_marks"),
		})
	}
	return exam, nil
}

// SubjectNames resolves subject IDs to display names; unknown IDs map
// to their raw ID so a half-filled catalog still renders.
func (c *Catalog) SubjectNames(ctx context.Context, subjectIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(subjectIDs))
	for _, id := range subjectIDs {
		names[id] = id
	}
	rows, err := c.store.SelectWhere(ctx, storage.TableSubjects, storage.Pred{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subjects: %w", err)
	}
	for _, row := range rows {
		id := row.String("id")
		if _, wanted := names[id]; wanted {
			names[id] = row.String("name")
		}
	}
	return names, nil
}

// CountStudents returns the number of active students school-wide.
func (c *Catalog) CountStudents(ctx context.Context) (int, error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableStudents, storage.Pred{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return len(rows), nil
}

// CountClasses returns the number of active class sections.
func (c *Catalog) CountClasses(ctx context.Context) (int, error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableClasses, storage.Pred{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count classes: %w", err)
	}
	return len(rows), nil
}

// ActiveClasses returns all active class sections.
func (c *Catalog) ActiveClasses(ctx context.Context) ([]models.ClassSection, error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableClasses, storage.Pred{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classes: %w", err)
	}
	classes := make([]models.ClassSection, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, models.ClassSection{
			ID:       row.String("id"),
			Name:     row.String("name"),
			Section:  row.String("section"),
			IsActive: row.Bool("is_active"),
		})
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Label() < classes[j].Label() })
	return classes, nil
}

func parseDay(s string) (models.DateKey, bool) {
	if len(s) > 10 {
		s = s[:10] // timestamps from DATE columns carry a zero time part
	}
	day, err := models.ParseDateKey(s)
	if err != nil {
		return models.DateKey{}, false
	}
	return day, true
}

// FeeTotals sums what is due and what has been collected school-wide.
func (c *Catalog) FeeTotals(ctx context.Context) (due, collected float64, err error) {
	rows, err := c.store.SelectWhere(ctx, storage.TableFeeRecords, storage.Pred{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch fee records: %w", err)
	}
	for _, row := range rows {
		due += row.Float("amount_due")
		collected += row.Float("amount_paid")
	}
	return due, collected, nil
}
