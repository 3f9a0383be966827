package prescription

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

type Service struct {
	repo         repository.PrescriptionRepository
	appointments repository.AppointmentRepository
	outbox       repository.OutboxRepository
	logger       zerolog.Logger
}

func NewService(
	repo repository.PrescriptionRepository,
	appointments repository.AppointmentRepository,
	outbox repository.OutboxRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		outbox:       outbox,
		logger:       logger,
	}
}

// Save records a prescription against an appointment and marks the
// appointment completed. Issuing a prescription is what completes an
// appointment; there is no other transition to status 1. At most one
// prescription may exist per appointment, enforced by the store.
func (s *Service) Save(ctx context.Context, req *model.SavePrescriptionRequest) (*model.Prescription, error) {
	apt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := s.appointments.UpdateStatus(ctx, apt.ID, model.AppointmentStatusCompleted); err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", apt.ID).Msg("failed to complete appointment")
		return nil, err
	}

	p := &model.Prescription{
		AppointmentID: req.AppointmentID,
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", apt.ID).Msg("failed to save prescription")
		return nil, err
	}

	apt.Status = model.AppointmentStatusCompleted
	if err := s.outbox.Create(ctx, model.EventAppointmentCompleted, apt); err != nil {
		s.logger.Warn().Err(err).Int64("appointment_id", apt.ID).Msg("failed to record outbox event")
	}

	return p, nil
}

// GetByAppointmentID returns the prescription issued for an appointment.
func (s *Service) GetByAppointmentID(ctx context.Context, appointmentID int64) (*model.Prescription, error) {
	return s.repo.GetByAppointmentID(ctx, appointmentID)
}
