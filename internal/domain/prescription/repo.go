package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	// Update persists the lifecycle fields written by Complete.
	Update(ctx context.Context, p *Prescription) error
	ListByPatient(ctx context.Context, email string, limit, offset int) ([]*Prescription, int, error)
	// ListAllByPatient returns every record for a patient, newest start date
	// first. Used by derived views that must see the full record set.
	ListAllByPatient(ctx context.Context, email string) ([]*Prescription, error)
	// ListCompletedByPatient returns every completed record for a patient,
	// newest start date first. Used by the analysis flow, which needs the
	// full history rather than a page.
	ListCompletedByPatient(ctx context.Context, email string) ([]*Prescription, error)
	// ListAllByDoctor returns every record owned by a doctor, newest start
	// date first. Used by the patient roll-up, which must see the full
	// record set.
	ListAllByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	// ListActiveByDoctor returns non-completed records sorted by end date
	// ascending (soonest to expire first).
	ListActiveByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	// ListCompletedByDoctor returns completed records sorted by end date
	// descending (most recently ended first).
	ListCompletedByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
}
