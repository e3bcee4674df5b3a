package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prescript/prescript/internal/domain/directory"
)

// maxDosageMg is the upper bound applied to every medication dosage at
// write time.
const maxDosageMg = 100

// DoctorDirectory resolves doctors for prescription ownership.
// Satisfied by *directory.Service.
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetDoctorByEmail(ctx context.Context, email string) (*directory.Doctor, error)
}

type Service struct {
	repo    Repository
	doctors DoctorDirectory
}

func NewService(repo Repository, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, doctors: doctors}
}

// CreateInput is the create-prescript request body. Medicines, dosages
// and frequencies are parallel arrays, combined into MedicationItems at
// write time.
type CreateInput struct {
	PatientName         string    `json:"name"`
	PatientAge          int       `json:"age"`
	PatientSex          string    `json:"sex"`
	PatientEmail        string    `json:"email"`
	PatientPhone        string    `json:"phone"`
	DoctorID            uuid.UUID `json:"doctor_id"`
	Symptoms            []string  `json:"symptoms"`
	Diagnosis           string    `json:"diagnosis"`
	Medicines           []string  `json:"medicines"`
	Dosages             []int     `json:"dosages"`
	Frequencies         []int     `json:"frequency"`
	Allergies           []string  `json:"allergy"`
	Pregnancy           bool      `json:"pregnancy"`
	MedicationStartDate time.Time `json:"medication_start_date"`
	MedicationEndDate   time.Time `json:"medication_end_date"`
	Notes               string    `json:"notes"`
}

// invalidf builds a validation error carrying the ErrInvalid sentinel.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.PatientName) == "" {
		return invalidf("name is required")
	}
	if in.PatientAge < 0 {
		return invalidf("age must be non-negative")
	}
	if !validSexes[in.PatientSex] {
		return invalidf("invalid sex: %s", in.PatientSex)
	}
	if strings.TrimSpace(in.PatientEmail) == "" {
		return invalidf("email is required")
	}
	if !strings.Contains(in.PatientEmail, "@") {
		return invalidf("invalid email: %s", in.PatientEmail)
	}
	if in.DoctorID == uuid.Nil {
		return invalidf("doctor_id is required")
	}
	if len(in.Symptoms) == 0 {
		return invalidf("symptoms are required")
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return invalidf("diagnosis is required")
	}
	if len(in.Medicines) == 0 {
		return invalidf("medicines are required")
	}
	if len(in.Dosages) != len(in.Medicines) {
		return invalidf("dosages must match medicines (%d vs %d)", len(in.Dosages), len(in.Medicines))
	}
	if len(in.Frequencies) != len(in.Medicines) {
		return invalidf("frequency must match medicines (%d vs %d)", len(in.Frequencies), len(in.Medicines))
	}
	if in.MedicationEndDate.IsZero() {
		return invalidf("medication_end_date is required")
	}
	return nil
}

// medicationItems zips the parallel arrays, clamping each dosage to
// [0, maxDosageMg].
func (in *CreateInput) medicationItems() []MedicationItem {
	items := make([]MedicationItem, len(in.Medicines))
	for i, med := range in.Medicines {
		dosage := in.Dosages[i]
		if dosage > maxDosageMg {
			dosage = maxDosageMg
		}
		if dosage < 0 {
			dosage = 0
		}
		items[i] = MedicationItem{
			Medicine:  med,
			Dosage:    dosage,
			Frequency: in.Frequencies[i],
		}
	}
	return items
}

func (s *Service) Create(ctx context.Context, in *CreateInput) (*Prescription, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.doctors.GetDoctor(ctx, in.DoctorID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, fmt.Errorf("doctor %s: %w", in.DoctorID, ErrNotFound)
		}
		return nil, err
	}
	start := in.MedicationStartDate
	if start.IsZero() {
		start = time.Now()
	}
	if in.MedicationEndDate.Before(start) {
		return nil, invalidf("medication_end_date must not precede the start date")
	}
	p := &Prescription{
		PatientName:         strings.TrimSpace(in.PatientName),
		PatientAge:          in.PatientAge,
		PatientSex:          in.PatientSex,
		PatientEmail:        strings.TrimSpace(in.PatientEmail),
		PatientPhone:        strings.TrimSpace(in.PatientPhone),
		DoctorID:            in.DoctorID,
		Symptoms:            in.Symptoms,
		Diagnosis:           strings.TrimSpace(in.Diagnosis),
		Allergies:           in.Allergies,
		Pregnancy:           in.Pregnancy,
		Medication:          in.medicationItems(),
		MedicationStartDate: start,
		MedicationEndDate:   in.MedicationEndDate,
		Notes:               in.Notes,
		Completed:           false,
		SideEffects:         []string{},
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Complete marks a prescription finished and records its outcome.
// Calling it again overwrites the outcome fields; last write wins.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, note string, sideEffects []string, effectiveness int) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if effectiveness < 0 {
		effectiveness = 0
	}
	if effectiveness > 10 {
		effectiveness = 10
	}
	if sideEffects == nil {
		sideEffects = []string{}
	}
	p.Completed = true
	p.CompletionNotes = note
	p.SideEffects = sideEffects
	p.Effectiveness = effectiveness
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, email string, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByPatient(ctx, email, limit, offset)
}

func (s *Service) ListAllByPatient(ctx context.Context, email string) ([]*Prescription, error) {
	return s.repo.ListAllByPatient(ctx, email)
}

func (s *Service) ListCompletedByPatient(ctx context.Context, email string) ([]*Prescription, error) {
	return s.repo.ListCompletedByPatient(ctx, email)
}

func (s *Service) resolveDoctor(ctx context.Context, email string) (*directory.Doctor, error) {
	d, err := s.doctors.GetDoctorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, fmt.Errorf("doctor %s: %w", email, ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorEmail string, limit, offset int) ([]*Prescription, int, error) {
	d, err := s.resolveDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByDoctor(ctx, d.ID, limit, offset)
}

// ListAllByDoctor returns the doctor's complete record set. The patient
// roll-up derives has_active/has_completed from every record, not a page.
func (s *Service) ListAllByDoctor(ctx context.Context, doctorEmail string) ([]*Prescription, error) {
	d, err := s.resolveDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAllByDoctor(ctx, d.ID)
}

func (s *Service) ListActiveByDoctor(ctx context.Context, doctorEmail string, limit, offset int) ([]*Prescription, int, error) {
	d, err := s.resolveDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListActiveByDoctor(ctx, d.ID, limit, offset)
}

func (s *Service) ListCompletedByDoctor(ctx context.Context, doctorEmail string, limit, offset int) ([]*Prescription, int, error) {
	d, err := s.resolveDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListCompletedByDoctor(ctx, d.ID, limit, offset)
}
