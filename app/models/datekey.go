package models

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey is the canonical calendar-date key used across the engine.
// Every component that keys records by day goes through this type so
// there is exactly one date format in play.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDateKey parses a YYYY-MM-DD string.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return DateKey{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateKeyOf(t), nil
}

// DateKeyOf truncates a time to its calendar date in the time's location.
func DateKeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: m, Day: d}
}

func (k DateKey) String() string {
	return k.Time().Format(dateKeyLayout)
}

// Time returns the key as midnight local time.
func (k DateKey) Time() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.Local)
}

func (k DateKey) IsZero() bool {
	return k == DateKey{}
}

func (k DateKey) After(other DateKey) bool {
	return k.Time().After(other.Time())
}

func (k DateKey) Before(other DateKey) bool {
	return k.Time().Before(other.Time())
}

// Next returns the following calendar day.
func (k DateKey) Next() DateKey {
	return DateKeyOf(k.Time().AddDate(0, 0, 1))
}

func (k DateKey) Weekday() time.Weekday {
	return k.Time().Weekday()
}

func (k DateKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *DateKey) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDateKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
