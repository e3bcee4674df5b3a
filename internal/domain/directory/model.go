package directory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a hospital or doctor does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint (hospital name,
	// doctor email) would be violated.
	ErrDuplicate = errors.New("already exists")
)

// Hospital maps to the hospitals table.
type Hospital struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Doctor maps to the doctors table. Email is unique and serves as the
// doctor's public identifier across the prescription endpoints.
type Doctor struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Age        int       `db:"age" json:"age"`
	Email      string    `db:"email" json:"email"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
