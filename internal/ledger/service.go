package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rollcall/internal/apperr"
)

// Store is the persistence surface the service needs; satisfied by *Repository.
type Store interface {
	UpsertBatch(ctx context.Context, date string, marks []Mark, markedBy int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListByStudent(ctx context.Context, studentID int64, from, to string) ([]Record, error)
}

// Service validates and applies ledger mutations.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// MarkAttendance applies one date's batch of marks for one administrator.
// All-or-nothing: every invalid record is reported and nothing is written
// unless the whole batch is valid.
func (s *Service) MarkAttendance(ctx context.Context, date string, marks []Mark, markedBy int64) (MarkResult, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return MarkResult{}, apperr.Validation("attendance date must be YYYY-MM-DD, got %q", date)
	}
	if len(marks) == 0 {
		return MarkResult{}, apperr.Validation("no attendance records provided")
	}
	if markedBy <= 0 {
		return MarkResult{}, apperr.Validation("marking administrator is required")
	}

	var problems []string
	for i, m := range marks {
		switch {
		case m.StudentID <= 0:
			problems = append(problems, fmt.Sprintf("record %d: student reference is required", i))
		case m.Status != StatusPresent && m.Status != StatusAbsent:
			problems = append(problems, fmt.Sprintf("record %d: status must be %q or %q, got %q",
				i, StatusPresent, StatusAbsent, m.Status))
		}
	}
	if len(problems) > 0 {
		return MarkResult{}, apperr.Validation("invalid records: %s", strings.Join(problems, "; "))
	}

	normalized := day.Format(DateLayout)
	if err := s.store.UpsertBatch(ctx, normalized, marks, markedBy); err != nil {
		var bwe *BatchWriteError
		if errors.As(err, &bwe) {
			return MarkResult{}, apperr.Persistence(bwe.Err,
				"record %d (student %d) rejected by store", bwe.Index, bwe.StudentID)
		}
		return MarkResult{}, apperr.Persistence(err, "mark attendance for %s", normalized)
	}
	return MarkResult{Date: normalized, Marked: len(marks)}, nil
}

// DeleteRecord hard-deletes one ledger row by id.
func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return apperr.Persistence(err, "delete attendance record %d", id)
	}
	if !ok {
		return apperr.NotFound("attendance record %d", id)
	}
	return nil
}

// History lists a student's ledger rows, newest first. The range bounds are
// optional; when present they must be well-formed and ordered.
func (s *Service) History(ctx context.Context, studentID int64, from, to string) ([]Record, error) {
	if studentID <= 0 {
		return nil, apperr.Validation("student reference is required")
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	recs, err := s.store.ListByStudent(ctx, studentID, from, to)
	if err != nil {
		return nil, apperr.Persistence(err, "list attendance for student %d", studentID)
	}
	return recs, nil
}

func validateRange(from, to string) error {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.Parse(DateLayout, from); err != nil {
			return apperr.Validation("start date must be YYYY-MM-DD, got %q", from)
		}
	}
	if to != "" {
		if end, err = time.Parse(DateLayout, to); err != nil {
			return apperr.Validation("end date must be YYYY-MM-DD, got %q", to)
		}
	}
	if from != "" && to != "" && end.Before(start) {
		return apperr.Validation("end date %s precedes start date %s", to, from)
	}
	return nil
}
