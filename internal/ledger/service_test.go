package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rollcall/internal/apperr"
)

type fakeStore struct {
	upsertCalls int
	gotDate     string
	gotMarks    []Mark
	gotMarkedBy int64
	upsertErr   error

	deleted   bool
	deleteErr error

	records []Record
	listErr error
}

func (f *fakeStore) UpsertBatch(_ context.Context, date string, marks []Mark, markedBy int64) error {
	f.upsertCalls++
	f.gotDate = date
	f.gotMarks = marks
	f.gotMarkedBy = markedBy
	return f.upsertErr
}

func (f *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	return f.deleted, f.deleteErr
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID int64, from, to string) ([]Record, error) {
	return f.records, f.listErr
}

func present(studentID int64) Mark {
	return Mark{StudentID: studentID, Status: StatusPresent}
}

func TestMarkAttendance_WritesBatch(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	res, err := svc.MarkAttendance(context.Background(), "2024-01-10",
		[]Mark{present(1), {StudentID: 2, Status: StatusAbsent}}, 7)
	if err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}
	if res.Date != "2024-01-10" || res.Marked != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.upsertCalls != 1 || store.gotMarkedBy != 7 || len(store.gotMarks) != 2 {
		t.Fatalf("unexpected store call: %+v", store)
	}
}

func TestMarkAttendance_AllOrNothingReportsEveryBadRecord(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.MarkAttendance(context.Background(), "2024-01-10", []Mark{
		present(1),
		{StudentID: 2, Status: "maybe"},
		{Status: StatusPresent},
	}, 7)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "record 1") || !strings.Contains(msg, "record 2") {
		t.Fatalf("every invalid record must be named: %s", msg)
	}
	if strings.Contains(msg, "record 0") {
		t.Fatalf("valid record must not be reported: %s", msg)
	}
	if store.upsertCalls != 0 {
		t.Fatal("nothing may be written when any record is invalid")
	}
}

func TestMarkAttendance_InputValidation(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	cases := []struct {
		name     string
		date     string
		marks    []Mark
		markedBy int64
	}{
		{"bad date", "2024/01/10", []Mark{present(1)}, 7},
		{"empty batch", "2024-01-10", nil, 7},
		{"missing admin", "2024-01-10", []Mark{present(1)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.MarkAttendance(ctx, tc.date, tc.marks, tc.markedBy)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMarkAttendance_StoreRejectionIdentifiesRecord(t *testing.T) {
	cause := errors.New("foreign key violation")
	store := &fakeStore{upsertErr: &BatchWriteError{Index: 1, StudentID: 42, Err: cause}}
	svc := NewService(store)

	_, err := svc.MarkAttendance(context.Background(), "2024-01-10",
		[]Mark{present(1), present(42)}, 7)
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !strings.Contains(err.Error(), "record 1") || !strings.Contains(err.Error(), "student 42") {
		t.Fatalf("failing record must be identifiable: %v", err)
	}
}

func TestDeleteRecord_NotFound(t *testing.T) {
	svc := NewService(&fakeStore{deleted: false})
	err := svc.DeleteRecord(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteRecord_Success(t *testing.T) {
	svc := NewService(&fakeStore{deleted: true})
	if err := svc.DeleteRecord(context.Background(), 1); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
}

func TestHistory_RangeValidation(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	if _, err := svc.History(ctx, 1, "2024-02-01", "2024-01-01"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
	if _, err := svc.History(ctx, 1, "bad", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for bad start date, got %v", err)
	}
	if _, err := svc.History(ctx, 0, "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for missing student, got %v", err)
	}
}

func TestHistory_ReturnsRows(t *testing.T) {
	store := &fakeStore{records: []Record{
		{ID: 2, StudentID: 1, Date: "2024-01-11", Status: StatusAbsent},
		{ID: 1, StudentID: 1, Date: "2024-01-10", Status: StatusPresent},
	}}
	recs, err := NewService(store).History(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 2 || recs[0].Date != "2024-01-11" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
