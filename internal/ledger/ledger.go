// Package ledger is the attendance write path: one row per (student, date),
// upsert on re-mark, hard delete by id.
package ledger

import "time"

// Statuses a ledger row can hold. "not_marked" is derived on read and never
// stored; see the report package.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// DateLayout is the calendar-date wire format used throughout.
const DateLayout = "2006-01-02"

// Record is one ledger row.
type Record struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	Date      string    `json:"attendance_date"`
	Status    string    `json:"status"`
	MarkedBy  int64     `json:"marked_by"`
	MarkedAt  time.Time `json:"marked_at"`
	Remarks   *string   `json:"remarks,omitempty"`
}

// Mark is one entry in a marking batch. A nil Remarks clears any prior remark.
type Mark struct {
	StudentID int64   `json:"student_id"`
	Status    string  `json:"status"`
	Remarks   *string `json:"remarks,omitempty"`
}

// MarkResult confirms a batch write back to the client.
type MarkResult struct {
	Date   string `json:"date"`
	Marked int    `json:"marked"`
}
