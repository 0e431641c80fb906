package patient

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no patient exists for the requested UID.
var ErrNotFound = errors.New("patient not found")

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.UID == "" {
		return fmt.Errorf("uid is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("age must not be negative")
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}
	return s.patients.Create(ctx, p)
}

// FindByUID resolves a human-assigned UID to the patient record. Every
// patient-scoped operation in the system goes through this lookup.
func (s *Service) FindByUID(ctx context.Context, uid string) (*Patient, error) {
	return s.patients.GetByUID(ctx, uid)
}

// Update applies the supplied fields to the patient identified by uid. Zero
// values for name/age/gender leave the stored values unchanged.
func (s *Service) Update(ctx context.Context, uid string, in *Patient) (*Patient, error) {
	existing, err := s.patients.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Age > 0 {
		existing.Age = in.Age
	}
	if in.Gender != "" {
		if !validGenders[in.Gender] {
			return nil, fmt.Errorf("invalid gender: %s", in.Gender)
		}
		existing.Gender = in.Gender
	}
	if in.Address != nil {
		existing.Address = in.Address
	}
	if in.Email != nil {
		existing.Email = in.Email
	}
	if in.Phone != nil {
		existing.Phone = in.Phone
	}

	if err := s.patients.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, uid string) error {
	return s.patients.Delete(ctx, uid)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}
