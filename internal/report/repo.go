package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rollcall/internal/ledger"
)

// Filter bounds an aggregation query. Empty fields are ignored. Date wins
// over From/To when set.
type Filter struct {
	Date   string
	From   string
	To     string
	Batch  string
	Course string
}

// Totals is raw status counts before percentage derivation.
type Totals struct {
	Total   int
	Present int
	Absent  int
}

// DayCounts is one date's raw counts.
type DayCounts struct {
	Date    string
	Total   int
	Present int
	Absent  int
}

// StudentCounts is one student's raw marked-day counts.
type StudentCounts struct {
	StudentID   int64
	RollNumber  string
	FirstName   string
	LastName    string
	Batch       *string
	Course      *string
	TotalDays   int
	PresentDays int
	AbsentDays  int
}

// Repository runs aggregation queries against Postgres. All queries are
// stateless reads; concurrency is unrestricted.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DailyRoster left-joins every active student against the ledger for one
// date. Students without a row come back as not_marked.
func (r *Repository) DailyRoster(ctx context.Context, date, batch, course string) ([]DailyRow, error) {
	query := `
		SELECT a.id, s.id, s.roll_number, s.first_name, s.last_name, s.batch, s.course,
		       COALESCE(a.status, 'not_marked'), a.remarks, a.marked_at
		FROM students s
		LEFT JOIN attendance a ON s.id = a.student_id AND a.attendance_date = $1
		WHERE s.status = 'active'`
	args := []any{date}
	if batch != "" {
		args = append(args, batch)
		query += fmt.Sprintf(" AND s.batch = $%d", len(args))
	}
	if course != "" {
		args = append(args, course)
		query += fmt.Sprintf(" AND s.course = $%d", len(args))
	}
	query += " ORDER BY s.roll_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []DailyRow
	for rows.Next() {
		var row DailyRow
		if err := rows.Scan(&row.AttendanceID, &row.StudentID, &row.RollNumber, &row.FirstName,
			&row.LastName, &row.Batch, &row.Course, &row.Status, &row.Remarks, &row.MarkedAt); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// rangeWhere builds the shared ledger/roster join filter. Ledger rows joined
// to active students only; inactive history stays out of every aggregate.
func rangeWhere(f Filter) (string, []any) {
	where := `
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE s.status = 'active'`
	var args []any
	if f.Date != "" {
		args = append(args, f.Date)
		where += fmt.Sprintf(" AND a.attendance_date = $%d", len(args))
	} else {
		if f.From != "" {
			args = append(args, f.From)
			where += fmt.Sprintf(" AND a.attendance_date >= $%d", len(args))
		}
		if f.To != "" {
			args = append(args, f.To)
			where += fmt.Sprintf(" AND a.attendance_date <= $%d", len(args))
		}
	}
	if f.Batch != "" {
		args = append(args, f.Batch)
		where += fmt.Sprintf(" AND s.batch = $%d", len(args))
	}
	if f.Course != "" {
		args = append(args, f.Course)
		where += fmt.Sprintf(" AND s.course = $%d", len(args))
	}
	return where, args
}

// RangeTotals counts ledger rows by status for the filter in one pass.
func (r *Repository) RangeTotals(ctx context.Context, f Filter) (Totals, error) {
	where, args := rangeWhere(f)
	var t Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN a.status = 'absent' THEN 1 ELSE 0 END), 0)`+where,
		args...).Scan(&t.Total, &t.Present, &t.Absent)
	return t, err
}

// CountsByDate groups ledger rows per date, newest first, capped at limit.
func (r *Repository) CountsByDate(ctx context.Context, f Filter, limit int) ([]DayCounts, error) {
	where, args := rangeWhere(f)
	args = append(args, limit)
	query := `
		SELECT a.attendance_date, COUNT(*),
		       SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN a.status = 'absent' THEN 1 ELSE 0 END)` + where + `
		GROUP BY a.attendance_date
		ORDER BY a.attendance_date DESC
		LIMIT $` + fmt.Sprint(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []DayCounts
	for rows.Next() {
		var d DayCounts
		var day time.Time
		if err := rows.Scan(&day, &d.Total, &d.Present, &d.Absent); err != nil {
			return nil, err
		}
		d.Date = day.Format(ledger.DateLayout)
		res = append(res, d)
	}
	return res, rows.Err()
}

// CountsByStudent totals marked days per active student over a range. The
// range condition lives in the join so unmarked students still surface with
// zero counts.
func (r *Repository) CountsByStudent(ctx context.Context, f Filter) ([]StudentCounts, error) {
	join := `LEFT JOIN attendance a ON s.id = a.student_id`
	var args []any
	if f.From != "" {
		args = append(args, f.From)
		join += fmt.Sprintf(" AND a.attendance_date >= $%d", len(args))
	}
	if f.To != "" {
		args = append(args, f.To)
		join += fmt.Sprintf(" AND a.attendance_date <= $%d", len(args))
	}
	query := `
		SELECT s.id, s.roll_number, s.first_name, s.last_name, s.batch, s.course,
		       COUNT(a.id),
		       COALESCE(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN a.status = 'absent' THEN 1 ELSE 0 END), 0)
		FROM students s ` + join + `
		WHERE s.status = 'active'`
	if f.Batch != "" {
		args = append(args, f.Batch)
		query += fmt.Sprintf(" AND s.batch = $%d", len(args))
	}
	if f.Course != "" {
		args = append(args, f.Course)
		query += fmt.Sprintf(" AND s.course = $%d", len(args))
	}
	query += `
		GROUP BY s.id, s.roll_number, s.first_name, s.last_name, s.batch, s.course
		ORDER BY s.roll_number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StudentCounts
	for rows.Next() {
		var c StudentCounts
		if err := rows.Scan(&c.StudentID, &c.RollNumber, &c.FirstName, &c.LastName,
			&c.Batch, &c.Course, &c.TotalDays, &c.PresentDays, &c.AbsentDays); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// WorkingDays counts distinct ledger dates in the range across all students,
// regardless of roster status. A day attendance was taken at all.
func (r *Repository) WorkingDays(ctx context.Context, from, to string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT attendance_date)
		FROM attendance
		WHERE attendance_date BETWEEN $1 AND $2
	`, from, to).Scan(&n)
	return n, err
}
