package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	store map[string]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]*Patient)}
}
func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.store[p.UID] = p
	return nil
}
func (m *mockRepo) GetByUID(_ context.Context, uid string) (*Patient, error) {
	p, ok := m.store[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.UID]; !ok {
		return ErrNotFound
	}
	m.store[p.UID] = p
	return nil
}
func (m *mockRepo) Delete(_ context.Context, uid string) error {
	if _, ok := m.store[uid]; !ok {
		return ErrNotFound
	}
	delete(m.store, uid)
	return nil
}
func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		r = append(r, p)
	}
	return r, len(r), nil
}

func newTestService() *Service { return NewService(newMockRepo()) }

func TestCreate_Success(t *testing.T) {
	svc := newTestService()
	p := &Patient{UID: "PAT-001", Name: "Jane Doe", Age: 34, Gender: "female"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
}

func TestCreate_MissingUID(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Patient{Name: "Jane"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_MissingName(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Patient{UID: "PAT-001"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_NegativeAge(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Patient{UID: "PAT-001", Name: "Jane", Age: -1}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_InvalidGender(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Patient{UID: "PAT-001", Name: "Jane", Gender: "bogus"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindByUID(t *testing.T) {
	svc := newTestService()
	p := &Patient{UID: "PAT-001", Name: "Jane"}
	svc.Create(context.Background(), p)
	got, err := svc.FindByUID(context.Background(), "PAT-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID {
		t.Error("ID mismatch")
	}
}

func TestFindByUID_NotFound(t *testing.T) {
	svc := newTestService()
	if _, err := svc.FindByUID(context.Background(), "NOPE"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_AppliesOnlySuppliedFields(t *testing.T) {
	svc := newTestService()
	addr := "12 Main St"
	svc.Create(context.Background(), &Patient{UID: "PAT-001", Name: "Jane", Age: 34, Gender: "female", Address: &addr})

	updated, err := svc.Update(context.Background(), "PAT-001", &Patient{Name: "Jane Smith"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Jane Smith" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Age != 34 || updated.Gender != "female" {
		t.Error("expected untouched fields to be preserved")
	}
	if updated.Address == nil || *updated.Address != addr {
		t.Error("expected address to be preserved")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Update(context.Background(), "NOPE", &Patient{Name: "X"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	svc.Create(context.Background(), &Patient{UID: "PAT-001", Name: "Jane"})
	if err := svc.Delete(context.Background(), "PAT-001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FindByUID(context.Background(), "PAT-001"); err != ErrNotFound {
		t.Fatal("expected patient to be gone")
	}
}

func TestList(t *testing.T) {
	svc := newTestService()
	svc.Create(context.Background(), &Patient{UID: "PAT-001", Name: "A"})
	svc.Create(context.Background(), &Patient{UID: "PAT-002", Name: "B"})
	items, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 patients, got %d", total)
	}
}
