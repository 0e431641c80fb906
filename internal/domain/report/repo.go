package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, id uuid.UUID) error
}
