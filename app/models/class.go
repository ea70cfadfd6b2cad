package models

import "time"

// ClassSection groups students for attendance, e.g. "Primary 3" section "A".
type ClassSection struct {
	ID        string    `json:"id" validate:"required,uuid"`
	Name      string    `json:"name" validate:"required"`
	Section   string    `json:"section"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Label returns the human label used on reports, e.g. "Primary 3 A".
func (c ClassSection) Label() string {
	if c.Section == "" {
		return c.Name
	}
	return c.Name + " " + c.Section
}
