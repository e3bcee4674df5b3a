package prescription

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a prescription (or the doctor it
// references) does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks a rejected request body. Handlers map it to a 400;
// anything else from the store surfaces as a 500.
var ErrInvalid = errors.New("invalid prescription")

// MedicationItem is one entry in a prescription's medication list,
// stored as jsonb. Dosage is milligrams, clamped to [0,100] at write
// time; Frequency is doses per day.
type MedicationItem struct {
	Medicine  string `json:"medicine"`
	Dosage    int    `json:"dosage"`
	Frequency int    `json:"frequency"`
}

// Prescription maps to the prescriptions table. One treatment episode
// for one patient by one doctor.
type Prescription struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	PatientName         string           `db:"patient_name" json:"patient_name"`
	PatientAge          int              `db:"patient_age" json:"patient_age"`
	PatientSex          string           `db:"patient_sex" json:"patient_sex"`
	PatientEmail        string           `db:"patient_email" json:"patient_email"`
	PatientPhone        string           `db:"patient_phone" json:"patient_phone"`
	DoctorID            uuid.UUID        `db:"doctor_id" json:"doctor_id"`
	Symptoms            []string         `db:"symptoms" json:"symptoms"`
	Diagnosis           string           `db:"diagnosis" json:"diagnosis"`
	Allergies           []string         `db:"allergies" json:"allergies"`
	Pregnancy           bool             `db:"pregnancy" json:"pregnancy"`
	Medication          []MedicationItem `db:"medication" json:"medication"`
	MedicationStartDate time.Time        `db:"medication_start_date" json:"medication_start_date"`
	MedicationEndDate   time.Time        `db:"medication_end_date" json:"medication_end_date"`
	Notes               string           `db:"notes" json:"notes"`
	Completed           bool             `db:"completed" json:"completed"`
	CompletionNotes     string           `db:"completion_notes" json:"completion_notes"`
	SideEffects         []string         `db:"side_effects" json:"side_effects"`
	Effectiveness       int              `db:"effectiveness" json:"effectiveness"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

var validSexes = map[string]bool{
	"male": true, "female": true, "other": true,
}
