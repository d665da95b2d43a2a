// Package report is the attendance read path. Every view resolves status the
// same way: a ledger row wins, no row means "not_marked". Two denominators
// coexist on purpose: roster views count every active student, percentage
// figures divide by marked rows only. Do not unify them.
package report

import (
	"math"
	"time"
)

// StatusNotMarked is the derived third state: no ledger row for the
// (student, date) pair. Distinct from "absent".
const StatusNotMarked = "not_marked"

// DailyRow is one active student resolved against the ledger for one date.
type DailyRow struct {
	AttendanceID *int64     `json:"attendance_id,omitempty"`
	StudentID    int64      `json:"student_id"`
	RollNumber   string     `json:"roll_number"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Batch        *string    `json:"batch,omitempty"`
	Course       *string    `json:"course,omitempty"`
	Status       string     `json:"status"`
	Remarks      *string    `json:"remarks,omitempty"`
	MarkedAt     *time.Time `json:"marked_at,omitempty"`
}

// DailySummary counts a daily roster view. Percentage divides present by
// marked rows (present+absent), not by the roster total.
type DailySummary struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	NotMarked  int `json:"not_marked"`
	Percentage int `json:"attendance_percentage"`
}

// DailyReport is the single-date roster view (all active students, marked or not).
type DailyReport struct {
	Date     string       `json:"date"`
	Students []DailyRow   `json:"students"`
	Summary  DailySummary `json:"summary"`
}

// DayTotals is one date's ledger-row counts with its marked-only percentage.
type DayTotals struct {
	Date       string `json:"attendance_date"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Percentage int    `json:"attendance_percentage"`
}

// Overview is the date-range totals view. Only rows that exist in the ledger
// participate; not-marked students are invisible here.
type Overview struct {
	Total      int         `json:"total"`
	Present    int         `json:"present"`
	Absent     int         `json:"absent"`
	Percentage int         `json:"percentage"`
	ByDate     []DayTotals `json:"byDate"`
}

// StudentSummary is one student's marked-day totals over a range.
type StudentSummary struct {
	StudentID   int64   `json:"id"`
	RollNumber  string  `json:"roll_number"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Batch       *string `json:"batch,omitempty"`
	Course      *string `json:"course,omitempty"`
	TotalDays   int     `json:"total_days"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	Percentage  int     `json:"attendance_percentage"`
}

// MonthlySummary aggregates a monthly report.
type MonthlySummary struct {
	TotalStudents int `json:"total_students"`
	AvgAttendance int `json:"avg_attendance"`
}

// MonthlyReport is the per-student summary scoped to one calendar month.
// WorkingDays counts distinct dates with at least one ledger row.
type MonthlyReport struct {
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	WorkingDays int              `json:"working_days"`
	Students    []StudentSummary `json:"students"`
	Summary     MonthlySummary   `json:"summary"`
}

// RangeSummary totals a plain record list, used for single-student history.
type RangeSummary struct {
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	Percentage  int `json:"attendance_percentage"`
}

// percent computes round-half-up integer percentage, 0 on a zero denominator.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}

// meanRounded is round-half-up of sum/n, 0 when n is 0.
func meanRounded(sum, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(float64(sum)/float64(n) + 0.5))
}
