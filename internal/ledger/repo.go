package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BatchWriteError identifies the exact record a storage-layer rejection hit.
type BatchWriteError struct {
	Index     int
	StudentID int64
	Err       error
}

func (e *BatchWriteError) Error() string {
	return fmt.Sprintf("record %d (student %d): %v", e.Index, e.StudentID, e.Err)
}

func (e *BatchWriteError) Unwrap() error { return e.Err }

// Repository persists ledger rows in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBatch writes every mark for one date in a single transaction. The
// unique constraint on (student_id, attendance_date) makes a re-mark replace
// status, remarks, marker, and timestamp. Any failure rolls back the whole
// batch and reports which record hit it.
func (r *Repository) UpsertBatch(ctx context.Context, date string, marks []Mark, markedBy int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, m := range marks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (student_id, attendance_date, status, marked_by, marked_at, remarks)
			VALUES ($1, $2, $3, $4, NOW(), $5)
			ON CONFLICT (student_id, attendance_date) DO UPDATE SET
				status = EXCLUDED.status,
				marked_by = EXCLUDED.marked_by,
				marked_at = NOW(),
				remarks = EXCLUDED.remarks
		`, m.StudentID, date, m.Status, markedBy, m.Remarks)
		if err != nil {
			return &BatchWriteError{Index: i, StudentID: m.StudentID, Err: err}
		}
	}
	return tx.Commit()
}

// Delete removes one ledger row. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByStudent returns a student's rows newest first, optionally bounded by
// an inclusive date range. Works for inactive students too.
func (r *Repository) ListByStudent(ctx context.Context, studentID int64, from, to string) ([]Record, error) {
	query := `
		SELECT id, student_id, attendance_date, status, marked_by, marked_at, remarks
		FROM attendance
		WHERE student_id = $1`
	args := []any{studentID}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND attendance_date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND attendance_date <= $%d", len(args))
	}
	query += " ORDER BY attendance_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var rec Record
		var day time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &day, &rec.Status, &rec.MarkedBy, &rec.MarkedAt, &rec.Remarks); err != nil {
			return nil, err
		}
		rec.Date = day.Format(DateLayout)
		res = append(res, rec)
	}
	return res, rows.Err()
}
