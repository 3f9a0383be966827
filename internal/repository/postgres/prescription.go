package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (appointment_id, patient_name, medication, dosage, doctor_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	p.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		p.AppointmentID,
		p.PatientName,
		p.Medication,
		p.Dosage,
		p.DoctorNotes,
		p.CreatedAt,
	).Scan(&p.ID)
	return wrapErr("prescription", err)
}

func (r *prescriptionRepository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*model.Prescription, error) {
	var p model.Prescription
	query := `SELECT * FROM prescriptions WHERE appointment_id = $1`
	if err := r.db.GetContext(ctx, &p, query, appointmentID); err != nil {
		return nil, wrapErr("prescription", err)
	}
	return &p, nil
}
