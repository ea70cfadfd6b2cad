package models

import "time"

// Student is the immutable roster identity of a learner. Roster
// management happens in a separate admin system; this service only
// reads students.
type Student struct {
	ID        string    `json:"id" validate:"required,uuid"`
	RollNo    string    `json:"roll_no" validate:"required"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name" validate:"required"`
	ClassID   string    `json:"class_id" validate:"required,uuid"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns the display name used on reports.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
