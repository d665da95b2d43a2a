package roster

import (
	"context"
	"errors"
	"testing"

	"rollcall/internal/apperr"
)

type fakeStore struct {
	students  map[int64]Student
	insertErr error
	updateErr error
	gotFilter Filter
}

func newFakeStore(students ...Student) *fakeStore {
	m := make(map[int64]Student)
	for _, s := range students {
		m[s.ID] = s
	}
	return &fakeStore{students: m}
}

func (f *fakeStore) List(_ context.Context, filter Filter) ([]Student, error) {
	f.gotFilter = filter
	var out []Student
	for _, s := range f.students {
		if s.Status == filter.Status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*Student, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeStore) Insert(_ context.Context, s Student) (Student, error) {
	if f.insertErr != nil {
		return Student{}, f.insertErr
	}
	s.ID = int64(len(f.students) + 1)
	s.Status = StatusActive
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeStore) Update(_ context.Context, s Student) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	if _, ok := f.students[s.ID]; !ok {
		return false, nil
	}
	f.students[s.ID] = s
	return true, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, status string) (bool, error) {
	s, ok := f.students[id]
	if !ok {
		return false, nil
	}
	s.Status = status
	f.students[id] = s
	return true, nil
}

func (f *fakeStore) Stats(_ context.Context) (Stats, error) {
	n := 0
	for _, s := range f.students {
		if s.Status == StatusActive {
			n++
		}
	}
	return Stats{Total: n}, nil
}

func active(id int64, roll string) Student {
	return Student{ID: id, RollNumber: roll, FirstName: "A", LastName: "B", Status: StatusActive}
}

func TestList_DefaultsToActive(t *testing.T) {
	store := newFakeStore(active(1, "R1"))
	svc := NewService(store)

	if _, err := svc.List(context.Background(), Filter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.gotFilter.Status != StatusActive {
		t.Fatalf("expected default status filter %q, got %q", StatusActive, store.gotFilter.Status)
	}
}

func TestList_RejectsBadStatus(t *testing.T) {
	_, err := NewService(newFakeStore()).List(context.Background(), Filter{Status: "expelled"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), Student{RollNumber: "R1", FirstName: "A"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_DuplicateRoll(t *testing.T) {
	store := newFakeStore()
	store.insertErr = ErrDuplicateRoll
	_, err := NewService(store).Create(context.Background(),
		Student{RollNumber: "R1", FirstName: "A", LastName: "B"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("duplicate roll must surface as validation error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := NewService(newFakeStore()).Get(context.Background(), 42)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeactivate_SoftDeletePreservesLookup(t *testing.T) {
	store := newFakeStore(active(1, "R1"))
	svc := NewService(store)

	if err := svc.Deactivate(context.Background(), 1); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	// Gone from the active listing.
	listed, _ := svc.List(context.Background(), Filter{})
	if len(listed) != 0 {
		t.Fatalf("deactivated student must leave active listings, got %d", len(listed))
	}
	// Still directly retrievable.
	s, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get after deactivate: %v", err)
	}
	if s.Status != StatusInactive {
		t.Fatalf("expected status inactive, got %q", s.Status)
	}
}

func TestDeactivate_NotFound(t *testing.T) {
	err := NewService(newFakeStore()).Deactivate(context.Background(), 42)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	_, err := NewService(newFakeStore()).Update(context.Background(),
		Student{ID: 9, RollNumber: "R9", FirstName: "A", LastName: "B"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
