package models

import "time"

// MarksEntry stores a student's marks for one subject of one exam.
// Identity is (StudentID, ExamID, SubjectID); re-entry overwrites the
// row in place (upsert), it never duplicates it.
type MarksEntry struct {
	StudentID     string    `json:"student_id" validate:"required,uuid"`
	ExamID        string    `json:"exam_id" validate:"required,uuid"`
	SubjectID     string    `json:"subject_id" validate:"required,uuid"`
	MarksObtained float64   `json:"marks_obtained" validate:"gte=0"`
	MaxMarks      float64   `json:"max_marks" validate:"gt=0"`
	EnteredBy     string    `json:"entered_by,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
