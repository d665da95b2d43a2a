package ledger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
)

// recordingConn captures every statement UpsertBatch issues so the SQL-level
// behavior (one transaction, conflict clause, argument passing) is checkable
// without a database.
type recordingConn struct {
	execs    []execCall
	failAt   int // 0-based exec index to fail, -1 for never
	begun    int
	commits  int
	rollback int
}

type execCall struct {
	query string
	args  []driver.Value
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) {
	c.begun++
	return (*recordingTx)(c), nil
}

func (c *recordingConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return c.Begin()
}

func (c *recordingConn) ExecContext(_ context.Context, query string, named []driver.NamedValue) (driver.Result, error) {
	if c.failAt >= 0 && len(c.execs) == c.failAt {
		return nil, errors.New("constraint violated")
	}
	args := make([]driver.Value, len(named))
	for i, nv := range named {
		args[i] = nv.Value
	}
	c.execs = append(c.execs, execCall{query: query, args: args})
	return driver.RowsAffected(1), nil
}

type recordingTx recordingConn

func (t *recordingTx) Commit() error   { t.commits++; return nil }
func (t *recordingTx) Rollback() error { t.rollback++; return nil }

type recordingDriver struct{ conn *recordingConn }

func (d *recordingDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

var driverSeq atomic.Int64

func newRecordingDB(t *testing.T, conn *recordingConn) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("ledger-recording-%d", driverSeq.Add(1))
	sql.Register(name, &recordingDriver{conn: conn})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertBatchReplacesOnConflict(t *testing.T) {
	conn := &recordingConn{failAt: -1}
	repo := NewRepository(newRecordingDB(t, conn))

	note := "late arrival"
	marks := []Mark{
		{StudentID: 1, Status: StatusPresent, Remarks: &note},
		{StudentID: 2, Status: StatusAbsent}, // nil remark must clear any prior one
	}
	if err := repo.UpsertBatch(context.Background(), "2025-03-10", marks, 7); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if conn.begun != 1 || conn.commits != 1 {
		t.Fatalf("want one begun/committed transaction, got begun=%d commits=%d", conn.begun, conn.commits)
	}
	if len(conn.execs) != 2 {
		t.Fatalf("want one statement per mark, got %d", len(conn.execs))
	}
	for i, exec := range conn.execs {
		if !strings.Contains(exec.query, "ON CONFLICT (student_id, attendance_date) DO UPDATE") {
			t.Fatalf("statement %d must upsert on the (student, date) key:\n%s", i, exec.query)
		}
		if !strings.Contains(exec.query, "remarks = EXCLUDED.remarks") {
			t.Fatalf("statement %d must replace remarks with the incoming value:\n%s", i, exec.query)
		}
	}

	first := conn.execs[0].args
	if first[0] != int64(1) || first[1] != "2025-03-10" || first[2] != StatusPresent || first[3] != int64(7) {
		t.Fatalf("unexpected args for first mark: %v", first)
	}
	if first[4] != "late arrival" {
		t.Fatalf("remark should reach the statement, got %v", first[4])
	}
	if got := conn.execs[1].args[4]; got != nil {
		t.Fatalf("nil remark must be written as NULL, got %v", got)
	}
}

func TestUpsertBatchRollsBackWholeBatch(t *testing.T) {
	conn := &recordingConn{failAt: 1}
	repo := NewRepository(newRecordingDB(t, conn))

	marks := []Mark{
		{StudentID: 1, Status: StatusPresent},
		{StudentID: 42, Status: StatusAbsent},
		{StudentID: 3, Status: StatusPresent},
	}
	err := repo.UpsertBatch(context.Background(), "2025-03-10", marks, 7)
	if err == nil {
		t.Fatal("expected error")
	}

	var bwe *BatchWriteError
	if !errors.As(err, &bwe) {
		t.Fatalf("want BatchWriteError, got %T: %v", err, err)
	}
	if bwe.Index != 1 || bwe.StudentID != 42 {
		t.Fatalf("error must name the failing record, got index=%d student=%d", bwe.Index, bwe.StudentID)
	}
	if conn.commits != 0 {
		t.Fatal("a failed batch must not commit")
	}
	if conn.rollback == 0 {
		t.Fatal("a failed batch must roll back")
	}
	if len(conn.execs) != 1 {
		t.Fatalf("no statement after the failure should run, got %d", len(conn.execs))
	}
}
