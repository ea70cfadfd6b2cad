package models

import "fmt"

// AttendanceStatus defines the possible status values for attendance.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
	Excused AttendanceStatus = "excused"
)

// ParseAttendanceStatus converts a raw string into an AttendanceStatus.
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case Present, Absent, Late, Excused:
		return AttendanceStatus(s), nil
	}
	return "", fmt.Errorf("invalid attendance status %q", s)
}

// Role defines the roles an acting user can hold.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleHeadTeacher  Role = "head_teacher"
	RoleClassTeacher Role = "class_teacher"
)
