package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

const appointmentDetailColumns = `
	a.id, a.doctor_id, a.patient_id, a.appointment_time, a.status,
	a.created_at, a.updated_at,
	d.name AS doctor_name,
	p.name AS patient_name, p.email AS patient_email,
	p.phone AS patient_phone, p.address AS patient_address
`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (doctor_id, patient_id, appointment_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		apt.DoctorID,
		apt.PatientID,
		apt.AppointmentTime,
		apt.Status,
		apt.CreatedAt,
		apt.UpdatedAt,
	).Scan(&apt.ID)
	return wrapErr("appointment", err)
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, appointment_time, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, wrapErr("appointment", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id int64) (*model.AppointmentDetail, error) {
	query := `
		SELECT ` + appointmentDetailColumns + `
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.id = $1
	`
	var detail model.AppointmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, wrapErr("appointment", err)
	}
	return &detail, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_id = $1, patient_id = $2, appointment_time = $3, updated_at = $4
		WHERE id = $5
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.DoctorID,
		apt.PatientID,
		apt.AppointmentTime,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return wrapErr("appointment", err)
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return wrapErr("appointment", err)
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return wrapErr("appointment", err)
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorEmail string, start, end time.Time, patientName string) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT ` + appointmentDetailColumns + `
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE d.email = $1
		AND a.appointment_time BETWEEN $2 AND $3
	`
	args := []interface{}{doctorEmail, start, end}

	if patientName != "" {
		query += ` AND p.name ILIKE '%' || $4 || '%'`
		args = append(args, patientName)
	}

	query += ` ORDER BY a.appointment_time ASC`

	appointments := []*model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, wrapErr("appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID int64, filter *model.PatientAppointmentFilter) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT ` + appointmentDetailColumns + `
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.patient_id = $1
	`
	args := []interface{}{patientID}
	argCount := 2

	if filter != nil {
		if filter.Status != nil {
			query += ` AND a.status = $2`
			args = append(args, *filter.Status)
			argCount++
		}
		if filter.DoctorName != "" {
			query += fmt.Sprintf(` AND d.name ILIKE '%%' || $%d || '%%'`, argCount)
			args = append(args, filter.DoctorName)
		}
	}

	query += ` ORDER BY a.appointment_time ASC`

	appointments := []*model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, wrapErr("appointments", err)
	}
	return appointments, nil
}
