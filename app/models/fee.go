package models

// FeeRecord holds what a student owes and has paid for a term. The
// billing workflow lives elsewhere; the engine only aggregates these
// into the fee collection rate.
type FeeRecord struct {
	StudentID  string  `json:"student_id" validate:"required,uuid"`
	ClassID    string  `json:"class_id" validate:"required,uuid"`
	Term       string  `json:"term"`
	AmountDue  float64 `json:"amount_due" validate:"gte=0"`
	AmountPaid float64 `json:"amount_paid" validate:"gte=0"`
}
