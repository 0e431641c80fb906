package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medrec/medrec/internal/domain/patient"
)

// ErrNotFound is returned when no prescription exists for the requested id.
var ErrNotFound = errors.New("prescription not found")

// PatientDirectory resolves external patient UIDs. Satisfied by
// *patient.Service.
type PatientDirectory interface {
	FindByUID(ctx context.Context, uid string) (*patient.Patient, error)
}

type Service struct {
	prescriptions Repository
	patients      PatientDirectory
}

func NewService(prescriptions Repository, patients PatientDirectory) *Service {
	return &Service{prescriptions: prescriptions, patients: patients}
}

// Create records a prescription for the patient identified by uid. The
// patient is resolved before any field validation so an unknown uid is
// reported as not found regardless of the request body.
func (s *Service) Create(ctx context.Context, uid string, p *Prescription) error {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if p.Medication == "" {
		return fmt.Errorf("medication is required")
	}
	if p.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}
	p.PatientID = pat.ID
	return s.prescriptions.Create(ctx, p)
}

// ListByUID returns all prescriptions for the patient identified by uid,
// newest first.
func (s *Service) ListByUID(ctx context.Context, uid string) ([]*Prescription, error) {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.prescriptions.ListByPatient(ctx, pat.ID)
}

// Update applies the supplied fields to the prescription. The prescription
// must belong to the patient identified by uid.
func (s *Service) Update(ctx context.Context, uid string, id uuid.UUID, in *Prescription) (*Prescription, error) {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	existing, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PatientID != pat.ID {
		return nil, ErrNotFound
	}

	if in.Medication != "" {
		existing.Medication = in.Medication
	}
	if in.Dosage != "" {
		existing.Dosage = in.Dosage
	}
	if in.Instructions != "" {
		existing.Instructions = in.Instructions
	}

	if err := s.prescriptions.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, uid string, id uuid.UUID) error {
	pat, err := s.patients.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	existing, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.PatientID != pat.ID {
		return ErrNotFound
	}
	return s.prescriptions.Delete(ctx, id)
}
