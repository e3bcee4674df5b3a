package directory

import (
	"context"

	"github.com/google/uuid"
)

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByName(ctx context.Context, name string) (*Hospital, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}
