package models

import "time"

// AttendanceEntry records one student's status for one class on one
// day. Identity is (ClassID, Date, StudentID); the whole (ClassID,
// Date) snapshot is replaced in one batch, never merged.
type AttendanceEntry struct {
	ClassID   string           `json:"class_id" validate:"required,uuid"`
	Date      DateKey          `json:"date" validate:"required"`
	StudentID string           `json:"student_id" validate:"required,uuid"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	MarkedBy  string           `json:"marked_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
