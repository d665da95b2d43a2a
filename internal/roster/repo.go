package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// ErrDuplicateRoll reports a roll number already taken by another student.
var ErrDuplicateRoll = errors.New("roll number already exists")

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentCols = `id, roll_number, first_name, last_name, email, phone, course, batch, admission_date, status, created_at`

func scanStudent(row interface{ Scan(...any) error }) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.RollNumber, &s.FirstName, &s.LastName, &s.Email, &s.Phone,
		&s.Course, &s.Batch, &s.AdmissionDate, &s.Status, &s.CreatedAt)
	return s, err
}

// List returns students matching the filter, ordered by roll number.
func (r *Repository) List(ctx context.Context, f Filter) ([]Student, error) {
	where, args := f.whereClause()
	query := `SELECT ` + studentCols + ` FROM students` + where + " ORDER BY roll_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Get returns one student by id regardless of status. Returns nil when absent.
func (r *Repository) Get(ctx context.Context, id int64) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE id = $1`, id)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Insert creates a student and returns the stored row.
func (r *Repository) Insert(ctx context.Context, s Student) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (roll_number, first_name, last_name, email, phone, course, batch, admission_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,COALESCE($8, CURRENT_DATE))
		RETURNING `+studentCols+`
	`, s.RollNumber, s.FirstName, s.LastName, s.Email, s.Phone, s.Course, s.Batch, s.AdmissionDate)
	out, err := scanStudent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Student{}, ErrDuplicateRoll
		}
		return Student{}, err
	}
	return out, nil
}

// Update rewrites a student's mutable fields. Returns false when no row matched.
func (r *Repository) Update(ctx context.Context, s Student) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET roll_number = $2, first_name = $3, last_name = $4,
		    email = $5, phone = $6, course = $7, batch = $8, status = $9
		WHERE id = $1
	`, s.ID, s.RollNumber, s.FirstName, s.LastName, s.Email, s.Phone, s.Course, s.Batch, s.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrDuplicateRoll
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetStatus flips a student's lifecycle status. Returns false when no row matched.
func (r *Repository) SetStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE students SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Stats counts the active roster grouped by batch and course.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM students WHERE status = 'active'`).Scan(&st.Total); err != nil {
		return Stats{}, err
	}
	var err error
	if st.ByBatch, err = r.groupCounts(ctx, "batch"); err != nil {
		return Stats{}, err
	}
	if st.ByCourse, err = r.groupCounts(ctx, "course"); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (r *Repository) groupCounts(ctx context.Context, col string) ([]GroupCount, error) {
	// col is one of two fixed identifiers, never user input.
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT COALESCE(%s, ''), COUNT(*)
		FROM students WHERE status = 'active'
		GROUP BY %s ORDER BY %s
	`, col, col, col))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Label, &g.Count); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// whereClause builds the optional WHERE fragment with numbered placeholders.
func (f Filter) whereClause() (string, []any) {
	var clauses []string
	var args []any
	for _, c := range []struct{ col, val string }{
		{"status", f.Status},
		{"batch", f.Batch},
		{"course", f.Course},
	} {
		if c.val != "" {
			args = append(args, c.val)
			clauses = append(clauses, c.col+" = $"+strconv.Itoa(len(args)))
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
