package models

// DashboardStats is the derived summary shown on the admin dashboard.
// Computed on demand, never persisted.
type DashboardStats struct {
	TotalStudents     int `json:"total_students"`
	TotalClasses      int `json:"total_classes"`
	StudentAttendance int `json:"student_attendance"`
	FeeCollectionRate int `json:"fee_collection_rate"`
}
