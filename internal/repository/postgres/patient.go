package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (name, email, password, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Password,
		patient.Phone,
		patient.Address,
		patient.CreatedAt,
		patient.UpdatedAt,
	).Scan(&patient.ID)
	return wrapErr("patient", err)
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE id = $1`, id); err != nil {
		return nil, wrapErr("patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE email = $1`, email); err != nil {
		return nil, wrapErr("patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM patients WHERE email = $1 OR phone = $2)`
	if err := r.db.GetContext(ctx, &exists, query, email, phone); err != nil {
		return false, wrapErr("patient", err)
	}
	return exists, nil
}
