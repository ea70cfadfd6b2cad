package models

// ExamSubject is one subject declared on an exam, in sheet order.
// MaxMarks of 0 means the exam does not declare a maximum for the
// subject and the ledger falls back to the default of 100.
type ExamSubject struct {
	SubjectID string  `json:"subject_id" validate:"required,uuid"`
	MaxMarks  float64 `json:"max_marks" validate:"gte=0"`
}

// Exam represents an exam event for a class. Subjects is an ordered
// set: the order here is the column order on the mark sheet and the
// iteration order of a student's marks.
type Exam struct {
	ID        string        `json:"id" validate:"required,uuid"`
	Name      string        `json:"name" validate:"required"`
	ClassID   string        `json:"class_id" validate:"required,uuid"`
	Subjects  []ExamSubject `json:"subjects" validate:"required,dive"`
	StartDate DateKey       `json:"start_date"`
	EndDate   DateKey       `json:"end_date"`
}

// MaxMarksFor returns the declared maximum for a subject, the default
// of 100 when the exam declares none, and false when the subject is
// not on the exam at all.
func (e Exam) MaxMarksFor(subjectID string) (float64, bool) {
	for _, s := range e.Subjects {
		if s.SubjectID == subjectID {
			if s.MaxMarks <= 0 {
				return DefaultMaxMarks, true
			}
			return s.MaxMarks, true
		}
	}
	return 0, false
}

// DefaultMaxMarks applies when an exam does not declare a per-subject maximum.
const DefaultMaxMarks = 100
