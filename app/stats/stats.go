// Package stats derives percentages, totals, averages and rankings
// from the ledgers. Nothing here is persisted; every value is computed
// from ledger state on demand.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"greenhill-schools/app/catalog"
	"greenhill-schools/app/grading"
	"greenhill-schools/app/ledger"
	"greenhill-schools/app/models"
)

// ReportStats is a student's aggregate for one exam.
type ReportStats struct {
	Total   float64       `json:"total"`
	Average float64       `json:"average"`
	Grade   grading.Grade `json:"grade"`
}

// RankEntry is one row of a class ranking.
type RankEntry struct {
	StudentID string  `json:"student_id"`
	Total     float64 `json:"total"`
}

const dashboardCacheKey = "dashboard:summary"
const dashboardCacheTTL = 60 * time.Second

// Engine computes derived statistics over the two ledgers. The redis
// client is optional; when nil the dashboard summary is recomputed on
// every call.
type Engine struct {
	attendance *ledger.AttendanceReconciler
	marks      *ledger.MarksLedger
	catalog    *catalog.Catalog
	scale      grading.Scale
	cache      *redis.Client
	now        func() time.Time
}

func NewEngine(att *ledger.AttendanceReconciler, marks *ledger.MarksLedger, cat *catalog.Catalog, scale grading.Scale, cache *redis.Client) *Engine {
	return &Engine{
		attendance: att,
		marks:      marks,
		catalog:    cat,
		scale:      scale,
		cache:      cache,
		now:        time.Now,
	}
}

// ClassAttendancePercentage returns the rounded percentage of expected
// attendances that were marked present over the range, inclusive. The
// denominator is enrolled students times school days in the range;
// school days run Monday through Saturday. Zero expected attendances
// yields 0, never an error.
func (e *Engine) ClassAttendancePercentage(ctx context.Context, classID string, from, to models.DateKey) (int, error) {
	students, err := e.catalog.StudentsByClass(ctx, classID)
	if err != nil {
		return 0, err
	}
	entries, err := e.attendance.RangeSnapshot(ctx, classID, from, to)
	if err != nil {
		return 0, err
	}

	// Count only students still on the roster; entries for students
	// deactivated after being marked would otherwise inflate the rate.
	enrolled := make(map[string]bool, len(students))
	for _, student := range students {
		enrolled[student.ID] = true
	}
	present := 0
	for _, entry := range entries {
		if entry.Status == models.Present && enrolled[entry.StudentID] {
			present++
		}
	}
	expected := len(students) * schoolDays(from, to)
	return roundPercent(float64(present), float64(expected)), nil
}

// StudentReportStats sums a student's marks over the exam's declared
// subjects, treating missing entries as zero. The grade is taken from
// the average out of 100.
func (e *Engine) StudentReportStats(ctx context.Context, studentID, examID string) (ReportStats, error) {
	exam, err := e.catalog.ExamByID(ctx, examID)
	if err != nil {
		return ReportStats{}, err
	}
	if exam == nil {
		return ReportStats{}, fmt.Errorf("unknown exam %s", examID)
	}

	seq, err := e.marks.StudentMarks(ctx, studentID, examID)
	if err != nil {
		return ReportStats{}, err
	}
	var total float64
	for entry := range seq {
		total += entry.MarksObtained
	}

	stats := ReportStats{Total: total}
	if n := len(exam.Subjects); n > 0 {
		stats.Average = total / float64(n)
	}
	stats.Grade = e.scale.Grade(stats.Average, models.DefaultMaxMarks)
	return stats, nil
}

// FeeCollectionPercentage returns collected over due as a rounded
// percentage, 0 when nothing is due.
func (e *Engine) FeeCollectionPercentage(totalDue, totalCollected float64) int {
	return roundPercent(totalCollected, totalDue)
}

// ClassRanking orders a class by total exam marks, descending. Ties
// break by ascending student ID so repeated runs over the same data
// return the same sequence.
func (e *Engine) ClassRanking(ctx context.Context, classID, examID string) ([]RankEntry, error) {
	exam, err := e.catalog.ExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, fmt.Errorf("unknown exam %s", examID)
	}
	students, err := e.catalog.StudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	marks, err := e.marks.ExamMarks(ctx, examID)
	if err != nil {
		return nil, err
	}

	ranking := make([]RankEntry, 0, len(students))
	for _, student := range students {
		var total float64
		for _, subject := range exam.Subjects {
			if entry, ok := marks[student.ID][subject.SubjectID]; ok {
				total += entry.MarksObtained
			}
		}
		ranking = append(ranking, RankEntry{StudentID: student.ID, Total: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Total != ranking[j].Total {
			return ranking[i].Total > ranking[j].Total
		}
		return ranking[i].StudentID < ranking[j].StudentID
	})
	return ranking, nil
}

// DashboardSummary assembles the admin dashboard numbers: roster
// counts, today's school-wide attendance and the fee collection rate.
// Cached in redis for a minute when a client is configured.
func (e *Engine) DashboardSummary(ctx context.Context) (*models.DashboardStats, error) {
	if e.cache != nil {
		if raw, err := e.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var cached models.DashboardStats
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	stats := &models.DashboardStats{}
	var err error
	if stats.TotalStudents, err = e.catalog.CountStudents(ctx); err != nil {
		return nil, err
	}
	if stats.TotalClasses, err = e.catalog.CountClasses(ctx); err != nil {
		return nil, err
	}

	today := models.DateKeyOf(e.now())
	classes, err := e.catalog.ActiveClasses(ctx)
	if err != nil {
		return nil, err
	}
	present := 0
	for _, class := range classes {
		entries, err := e.attendance.DaySnapshot(ctx, class.ID, today)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Status == models.Present {
				present++
			}
		}
	}
	stats.StudentAttendance = roundPercent(float64(present), float64(stats.TotalStudents))

	due, collected, err := e.catalog.FeeTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats.FeeCollectionRate = e.FeeCollectionPercentage(due, collected)

	if e.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			e.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL)
		}
	}
	return stats, nil
}

// schoolDays counts Monday through Saturday between from and to
// inclusive. Zero when the range is empty or inverted.
func schoolDays(from, to models.DateKey) int {
	if to.Before(from) {
		return 0
	}
	days := 0
	for day := from; !day.After(to); day = day.Next() {
		if day.Weekday() != time.Sunday {
			days++
		}
	}
	return days
}

// roundPercent rounds num/den to a whole percentage clamped to
// [0,100]; a zero or negative denominator yields 0, never NaN.
func roundPercent(num, den float64) int {
	if den <= 0 {
		return 0
	}
	p := int(math.Round(num / den * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
