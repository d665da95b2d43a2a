package report

import (
	"context"
	"time"

	"rollcall/internal/apperr"
	"rollcall/internal/ledger"
)

// Store is the aggregation query surface; satisfied by *Repository.
type Store interface {
	DailyRoster(ctx context.Context, date, batch, course string) ([]DailyRow, error)
	RangeTotals(ctx context.Context, f Filter) (Totals, error)
	CountsByDate(ctx context.Context, f Filter, limit int) ([]DayCounts, error)
	CountsByStudent(ctx context.Context, f Filter) ([]StudentCounts, error)
	WorkingDays(ctx context.Context, from, to string) (int, error)
}

// Limits bound report queries so large ranges cannot blow up exports.
type Limits struct {
	TrendDefault int
	TrendMax     int
	MaxRangeDays int
}

func (l Limits) withDefaults() Limits {
	if l.TrendDefault <= 0 {
		l.TrendDefault = 30
	}
	if l.TrendMax <= 0 {
		l.TrendMax = 90
	}
	if l.MaxRangeDays <= 0 {
		l.MaxRangeDays = 366
	}
	return l
}

// Service derives the four statistic views from the ledger joined against
// the active roster.
type Service struct {
	store  Store
	limits Limits
}

// NewService creates a service backed by a store.
func NewService(store Store, limits Limits) *Service {
	return &Service{store: store, limits: limits.withDefaults()}
}

// Daily is the single-date roster view: every active student appears with
// their resolved status, marked or not.
func (s *Service) Daily(ctx context.Context, date, batch, course string) (DailyReport, error) {
	if _, err := time.Parse(ledger.DateLayout, date); err != nil {
		return DailyReport{}, apperr.Validation("date must be YYYY-MM-DD, got %q", date)
	}
	rows, err := s.store.DailyRoster(ctx, date, batch, course)
	if err != nil {
		return DailyReport{}, apperr.Persistence(err, "daily roster for %s", date)
	}
	sum := DailySummary{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case ledger.StatusPresent:
			sum.Present++
		case ledger.StatusAbsent:
			sum.Absent++
		default:
			sum.NotMarked++
		}
	}
	// Marked rows only in the denominator; not-marked students are counted
	// but never divide.
	sum.Percentage = percent(sum.Present, sum.Present+sum.Absent)
	return DailyReport{Date: date, Students: rows, Summary: sum}, nil
}

// OverviewStats is the date-range totals view with its per-day breakdown.
func (s *Service) OverviewStats(ctx context.Context, f Filter) (Overview, error) {
	if err := s.checkFilter(f); err != nil {
		return Overview{}, err
	}
	totals, err := s.store.RangeTotals(ctx, f)
	if err != nil {
		return Overview{}, apperr.Persistence(err, "overview totals")
	}
	days, err := s.store.CountsByDate(ctx, f, s.limits.TrendDefault)
	if err != nil {
		return Overview{}, apperr.Persistence(err, "overview by-date breakdown")
	}
	out := Overview{
		Total:      totals.Total,
		Present:    totals.Present,
		Absent:     totals.Absent,
		Percentage: percent(totals.Present, totals.Present+totals.Absent),
		ByDate:     make([]DayTotals, 0, len(days)),
	}
	for _, d := range days {
		out.ByDate = append(out.ByDate, DayTotals{
			Date:       d.Date,
			Total:      d.Total,
			Present:    d.Present,
			Absent:     d.Absent,
			Percentage: percent(d.Present, d.Present+d.Absent),
		})
	}
	return out, nil
}

// StudentSummaries is the per-student view over a range. Students with zero
// marks are still listed, reporting zero activity.
func (s *Service) StudentSummaries(ctx context.Context, f Filter) ([]StudentSummary, error) {
	f.Date = ""
	if err := s.checkFilter(f); err != nil {
		return nil, err
	}
	counts, err := s.store.CountsByStudent(ctx, f)
	if err != nil {
		return nil, apperr.Persistence(err, "student summaries")
	}
	return summarize(counts), nil
}

// Monthly is the per-student view scoped to one calendar month plus the
// distinct-date working-days count.
func (s *Service) Monthly(ctx context.Context, year, month int, batch, course string) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, apperr.Validation("month must be 1-12, got %d", month)
	}
	if year < 1970 || year > 9999 {
		return MonthlyReport{}, apperr.Validation("year %d out of range", year)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	from, to := first.Format(ledger.DateLayout), last.Format(ledger.DateLayout)

	counts, err := s.store.CountsByStudent(ctx, Filter{From: from, To: to, Batch: batch, Course: course})
	if err != nil {
		return MonthlyReport{}, apperr.Persistence(err, "monthly report %d-%02d", year, month)
	}
	working, err := s.store.WorkingDays(ctx, from, to)
	if err != nil {
		return MonthlyReport{}, apperr.Persistence(err, "working days %d-%02d", year, month)
	}

	students := summarize(counts)
	pctSum := 0
	for _, st := range students {
		pctSum += st.Percentage
	}
	return MonthlyReport{
		Month:       month,
		Year:        year,
		WorkingDays: working,
		Students:    students,
		Summary: MonthlySummary{
			TotalStudents: len(students),
			AvgAttendance: meanRounded(pctSum, len(students)),
		},
	}, nil
}

// Trends returns the per-day breakdown alone, for the dashboard chart.
// The window is clamped, never rejected.
func (s *Service) Trends(ctx context.Context, days int, batch, course string) ([]DayTotals, error) {
	if days <= 0 {
		days = s.limits.TrendDefault
	}
	if days > s.limits.TrendMax {
		days = s.limits.TrendMax
	}
	counts, err := s.store.CountsByDate(ctx, Filter{Batch: batch, Course: course}, days)
	if err != nil {
		return nil, apperr.Persistence(err, "attendance trends")
	}
	out := make([]DayTotals, 0, len(counts))
	for _, d := range counts {
		out = append(out, DayTotals{
			Date:       d.Date,
			Total:      d.Total,
			Present:    d.Present,
			Absent:     d.Absent,
			Percentage: percent(d.Present, d.Present+d.Absent),
		})
	}
	return out, nil
}

// Summarize totals a student's own ledger rows; backs the history endpoint.
// Same resolution and rounding rules as every other view.
func Summarize(records []ledger.Record) RangeSummary {
	var sum RangeSummary
	sum.TotalDays = len(records)
	for _, rec := range records {
		switch rec.Status {
		case ledger.StatusPresent:
			sum.PresentDays++
		case ledger.StatusAbsent:
			sum.AbsentDays++
		}
	}
	sum.Percentage = percent(sum.PresentDays, sum.TotalDays)
	return sum
}

func summarize(counts []StudentCounts) []StudentSummary {
	out := make([]StudentSummary, 0, len(counts))
	for _, c := range counts {
		out = append(out, StudentSummary{
			StudentID:   c.StudentID,
			RollNumber:  c.RollNumber,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Batch:       c.Batch,
			Course:      c.Course,
			TotalDays:   c.TotalDays,
			PresentDays: c.PresentDays,
			AbsentDays:  c.AbsentDays,
			Percentage:  percent(c.PresentDays, c.TotalDays),
		})
	}
	return out
}

func (s *Service) checkFilter(f Filter) error {
	if f.Date != "" {
		if _, err := time.Parse(ledger.DateLayout, f.Date); err != nil {
			return apperr.Validation("date must be YYYY-MM-DD, got %q", f.Date)
		}
		return nil
	}
	var start, end time.Time
	var err error
	if f.From != "" {
		if start, err = time.Parse(ledger.DateLayout, f.From); err != nil {
			return apperr.Validation("start date must be YYYY-MM-DD, got %q", f.From)
		}
	}
	if f.To != "" {
		if end, err = time.Parse(ledger.DateLayout, f.To); err != nil {
			return apperr.Validation("end date must be YYYY-MM-DD, got %q", f.To)
		}
	}
	if f.From != "" && f.To != "" {
		if end.Before(start) {
			return apperr.Validation("end date %s precedes start date %s", f.To, f.From)
		}
		if days := int(end.Sub(start).Hours()/24) + 1; days > s.limits.MaxRangeDays {
			return apperr.Validation("range of %d days exceeds the %d day cap", days, s.limits.MaxRangeDays)
		}
	}
	return nil
}
