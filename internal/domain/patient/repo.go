package patient

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByUID(ctx context.Context, uid string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, uid string) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
