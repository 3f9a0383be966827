package repository

import (
	"context"
	"time"

	"github.com/medhub/clinic-api/internal/model"
)

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	// GetDetail returns the appointment joined with its doctor and patient.
	GetDetail(ctx context.Context, id int64) (*model.AppointmentDetail, error)
	Update(ctx context.Context, apt *model.Appointment) error
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	Delete(ctx context.Context, id int64) error
	// ListForDoctor returns the doctor's appointments within [start, end],
	// optionally restricted to patients whose name contains patientName
	// (case-insensitive).
	ListForDoctor(ctx context.Context, doctorEmail string, start, end time.Time, patientName string) ([]*model.AppointmentDetail, error)
	ListForPatient(ctx context.Context, patientID int64, filter *model.PatientAppointmentFilter) ([]*model.AppointmentDetail, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id int64) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id int64) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter *model.DoctorFilter) ([]*model.Doctor, error)
}

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*model.Prescription, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, eventType string, payload interface{}) error
	ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}
