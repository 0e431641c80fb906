package prescription

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/medrec/medrec/internal/domain/patient"
)

type mockRepo struct {
	store map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Prescription)}
}
func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	var r []*Prescription
	for _, p := range m.store {
		if p.PatientID == patientID {
			r = append(r, p)
		}
	}
	return r, nil
}
func (m *mockRepo) Update(_ context.Context, p *Prescription) error {
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type mockDirectory struct {
	patients map[string]*patient.Patient
}

func (m *mockDirectory) FindByUID(_ context.Context, uid string) (*patient.Patient, error) {
	p, ok := m.patients[uid]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

func newTestService() (*Service, *patient.Patient) {
	pat := &patient.Patient{ID: uuid.New(), UID: "PAT-001", Name: "Jane"}
	dir := &mockDirectory{patients: map[string]*patient.Patient{pat.UID: pat}}
	return NewService(newMockRepo(), dir), pat
}

func TestCreate_Success(t *testing.T) {
	svc, pat := newTestService()
	p := &Prescription{Medication: "Amoxicillin", Dosage: "500mg"}
	if err := svc.Create(context.Background(), "PAT-001", p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PatientID != pat.ID {
		t.Error("expected prescription bound to resolved patient")
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Create(context.Background(), "NOPE", &Prescription{Medication: "X", Dosage: "1"})
	if err != patient.ErrNotFound {
		t.Fatalf("expected patient.ErrNotFound, got %v", err)
	}
}

func TestCreate_UnknownPatientWinsOverEmptyBody(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Create(context.Background(), "NOPE", &Prescription{})
	if err != patient.ErrNotFound {
		t.Fatalf("expected patient.ErrNotFound, got %v", err)
	}
}

func TestCreate_MissingMedication(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Create(context.Background(), "PAT-001", &Prescription{Dosage: "1"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_MissingDosage(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Create(context.Background(), "PAT-001", &Prescription{Medication: "X"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestListByUID(t *testing.T) {
	svc, _ := newTestService()
	svc.Create(context.Background(), "PAT-001", &Prescription{Medication: "A", Dosage: "1"})
	svc.Create(context.Background(), "PAT-001", &Prescription{Medication: "B", Dosage: "2"})
	items, err := svc.ListByUID(context.Background(), "PAT-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 prescriptions, got %d", len(items))
	}
}

func TestListByUID_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.ListByUID(context.Background(), "NOPE"); err != patient.ErrNotFound {
		t.Fatalf("expected patient.ErrNotFound, got %v", err)
	}
}

func TestUpdate_AppliesOnlySuppliedFields(t *testing.T) {
	svc, _ := newTestService()
	p := &Prescription{Medication: "Amoxicillin", Dosage: "500mg", Instructions: "twice daily"}
	svc.Create(context.Background(), "PAT-001", p)

	updated, err := svc.Update(context.Background(), "PAT-001", p.ID, &Prescription{Dosage: "250mg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Dosage != "250mg" {
		t.Errorf("expected updated dosage, got %q", updated.Dosage)
	}
	if updated.Medication != "Amoxicillin" || updated.Instructions != "twice daily" {
		t.Error("expected untouched fields to be preserved")
	}
}

func TestUpdate_WrongPatient(t *testing.T) {
	svc, _ := newTestService()
	p := &Prescription{Medication: "A", Dosage: "1"}
	svc.Create(context.Background(), "PAT-001", p)
	p.PatientID = uuid.New()

	if _, err := svc.Update(context.Background(), "PAT-001", p.ID, &Prescription{Dosage: "2"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	p := &Prescription{Medication: "A", Dosage: "1"}
	svc.Create(context.Background(), "PAT-001", p)
	if err := svc.Delete(context.Background(), "PAT-001", p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _ := svc.ListByUID(context.Background(), "PAT-001")
	if len(items) != 0 {
		t.Error("expected prescription to be gone")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Delete(context.Background(), "PAT-001", uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
