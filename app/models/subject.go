package models

// Subject is a taught subject, referenced by exams and mark sheets.
type Subject struct {
	ID   string `json:"id" validate:"required,uuid"`
	Name string `json:"name" validate:"required"`
	Code string `json:"code"`
}
