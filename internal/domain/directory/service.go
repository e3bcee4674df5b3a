package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	hospitals HospitalRepository
	doctors   DoctorRepository
}

func NewService(hospitals HospitalRepository, doctors DoctorRepository) *Service {
	return &Service{hospitals: hospitals, doctors: doctors}
}

// -- Hospital --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) GetHospitalByName(ctx context.Context, name string) (*Hospital, error) {
	return s.hospitals.GetByName(ctx, name)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("invalid email: %s", d.Email)
	}
	if d.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if d.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if _, err := s.hospitals.GetByID(ctx, d.HospitalID); err != nil {
		return fmt.Errorf("hospital %s: %w", d.HospitalID, err)
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) GetDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	return s.doctors.GetByEmail(ctx, email)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}
