package prescription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prescript/prescript/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const prescriptionCols = `id, patient_name, patient_age, patient_sex, patient_email, patient_phone,
	doctor_id, symptoms, diagnosis, allergies, pregnancy, medication,
	medication_start_date, medication_end_date, notes,
	completed, completion_notes, side_effects, effectiveness,
	created_at, updated_at`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	var medication []byte
	err := row.Scan(&p.ID, &p.PatientName, &p.PatientAge, &p.PatientSex, &p.PatientEmail, &p.PatientPhone,
		&p.DoctorID, &p.Symptoms, &p.Diagnosis, &p.Allergies, &p.Pregnancy, &medication,
		&p.MedicationStartDate, &p.MedicationEndDate, &p.Notes,
		&p.Completed, &p.CompletionNotes, &p.SideEffects, &p.Effectiveness,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(medication, &p.Medication); err != nil {
		return nil, fmt.Errorf("decode medication: %w", err)
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	medication, err := json.Marshal(p.Medication)
	if err != nil {
		return fmt.Errorf("encode medication: %w", err)
	}
	err = r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (id, patient_name, patient_age, patient_sex, patient_email, patient_phone,
			doctor_id, symptoms, diagnosis, allergies, pregnancy, medication,
			medication_start_date, medication_end_date, notes,
			completed, completion_notes, side_effects, effectiveness)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientName, p.PatientAge, p.PatientSex, p.PatientEmail, p.PatientPhone,
		p.DoctorID, p.Symptoms, p.Diagnosis, p.Allergies, p.Pregnancy, medication,
		p.MedicationStartDate, p.MedicationEndDate, p.Notes,
		p.Completed, p.CompletionNotes, p.SideEffects, p.Effectiveness).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scanPrescription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescriptions SET completed=$2, completion_notes=$3, side_effects=$4,
			effectiveness=$5, notes=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Completed, p.CompletionNotes, p.SideEffects, p.Effectiveness, p.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) list(ctx context.Context, where, order string, countArgs []interface{}, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescriptions WHERE `+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args := append(append([]interface{}{}, countArgs...), limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM prescriptions WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
			prescriptionCols, where, order, len(countArgs)+1, len(countArgs)+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// listAll runs an unpaginated query for views that must see the full
// record set.
func (r *repoPG) listAll(ctx context.Context, where, order string, args ...interface{}) ([]*Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM prescriptions WHERE %s ORDER BY %s`, prescriptionCols, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, email string, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `patient_email = $1`, `medication_start_date DESC`, []interface{}{email}, limit, offset)
}

func (r *repoPG) ListAllByPatient(ctx context.Context, email string) ([]*Prescription, error) {
	return r.listAll(ctx, `patient_email = $1`, `medication_start_date DESC`, email)
}

func (r *repoPG) ListCompletedByPatient(ctx context.Context, email string) ([]*Prescription, error) {
	return r.listAll(ctx, `patient_email = $1 AND completed = TRUE`, `medication_start_date DESC`, email)
}

func (r *repoPG) ListAllByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error) {
	return r.listAll(ctx, `doctor_id = $1`, `medication_start_date DESC`, doctorID)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `doctor_id = $1`, `medication_start_date DESC`, []interface{}{doctorID}, limit, offset)
}

func (r *repoPG) ListActiveByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `doctor_id = $1 AND completed = FALSE`, `medication_end_date ASC`, []interface{}{doctorID}, limit, offset)
}

func (r *repoPG) ListCompletedByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `doctor_id = $1 AND completed = TRUE`, `medication_end_date DESC`, []interface{}{doctorID}, limit, offset)
}
