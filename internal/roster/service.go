package roster

import (
	"context"
	"errors"

	"rollcall/internal/apperr"
)

// Store is the persistence surface the service needs; satisfied by *Repository.
type Store interface {
	List(ctx context.Context, f Filter) ([]Student, error)
	Get(ctx context.Context, id int64) (*Student, error)
	Insert(ctx context.Context, s Student) (Student, error)
	Update(ctx context.Context, s Student) (bool, error)
	SetStatus(ctx context.Context, id int64, status string) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}

// Service validates roster operations on top of a Store.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns students for the filter; status defaults to active.
func (s *Service) List(ctx context.Context, f Filter) ([]Student, error) {
	if f.Status == "" {
		f.Status = StatusActive
	}
	if f.Status != StatusActive && f.Status != StatusInactive {
		return nil, apperr.Validation("status must be %q or %q", StatusActive, StatusInactive)
	}
	students, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperr.Persistence(err, "list students")
	}
	return students, nil
}

// Get returns one student by id, any status.
func (s *Service) Get(ctx context.Context, id int64) (Student, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return Student{}, apperr.Persistence(err, "fetch student %d", id)
	}
	if st == nil {
		return Student{}, apperr.NotFound("student %d", id)
	}
	return *st, nil
}

// Create adds a new student to the roster.
func (s *Service) Create(ctx context.Context, in Student) (Student, error) {
	if in.RollNumber == "" || in.FirstName == "" || in.LastName == "" {
		return Student{}, apperr.Validation("roll number, first name, and last name are required")
	}
	out, err := s.store.Insert(ctx, in)
	if err != nil {
		if errors.Is(err, ErrDuplicateRoll) {
			return Student{}, apperr.Validation("roll number %q already exists", in.RollNumber)
		}
		return Student{}, apperr.Persistence(err, "insert student %q", in.RollNumber)
	}
	return out, nil
}

// Update rewrites a student's fields and returns the stored row.
func (s *Service) Update(ctx context.Context, in Student) (Student, error) {
	if in.FirstName == "" || in.LastName == "" {
		return Student{}, apperr.Validation("first name and last name are required")
	}
	if in.Status == "" {
		in.Status = StatusActive
	}
	if in.Status != StatusActive && in.Status != StatusInactive {
		return Student{}, apperr.Validation("status must be %q or %q", StatusActive, StatusInactive)
	}
	ok, err := s.store.Update(ctx, in)
	if err != nil {
		if errors.Is(err, ErrDuplicateRoll) {
			return Student{}, apperr.Validation("roll number %q already exists", in.RollNumber)
		}
		return Student{}, apperr.Persistence(err, "update student %d", in.ID)
	}
	if !ok {
		return Student{}, apperr.NotFound("student %d", in.ID)
	}
	return s.Get(ctx, in.ID)
}

// Deactivate soft-deletes a student, preserving attendance history.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	ok, err := s.store.SetStatus(ctx, id, StatusInactive)
	if err != nil {
		return apperr.Persistence(err, "deactivate student %d", id)
	}
	if !ok {
		return apperr.NotFound("student %d", id)
	}
	return nil
}

// Overview returns dashboard counts for the active roster.
func (s *Service) Overview(ctx context.Context) (Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return Stats{}, apperr.Persistence(err, "roster stats")
	}
	return st, nil
}
