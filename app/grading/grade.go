// Package grading maps score ratios to grade bands. Every screen goes
// through one Scale value here; no call site carries its own threshold
// table.
package grading

// Grade is a grade band label.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Band awards its grade to percentages at or above MinPercent.
type Band struct {
	MinPercent float64
	Grade      Grade
}

// Scale is an ordered threshold table, highest band first. Anything
// below the last band is an F.
type Scale []Band

// SevenBand is the school's canonical grading table.
var SevenBand = Scale{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeBPlus},
	{60, GradeB},
	{50, GradeC},
	{40, GradeD},
}

// FiveBand is the older table some report cards still print. Kept as a
// separate Scale value so callers choose one explicitly instead of
// re-deriving thresholds.
var FiveBand = Scale{
	{85, GradeA},
	{70, GradeB},
	{55, GradeC},
	{40, GradeD},
}

// Grade maps obtained marks out of maxMarks to a band. Pure and total:
// a non-positive maxMarks grades as F rather than dividing by zero.
// For a fixed maxMarks the result is monotonic non-decreasing in
// obtained marks.
func (s Scale) Grade(marksObtained, maxMarks float64) Grade {
	if maxMarks <= 0 {
		return GradeF
	}
	percent := marksObtained / maxMarks * 100
	for _, band := range s {
		if percent >= band.MinPercent {
			return band.Grade
		}
	}
	return GradeF
}
