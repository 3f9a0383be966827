package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/email"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	outbox   repository.OutboxRepository
	tokens   *token.Service
	mailer   email.Service
	logger   zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	outbox repository.OutboxRepository,
	tokens *token.Service,
	mailer email.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		outbox:   outbox,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
	}
}

// Validate checks booking details before anything reaches storage. The
// date comparison is day-granular: a same-day appointment whose time of
// day already passed is still accepted, matching the system this
// replaces.
func (s *Service) Validate(ctx context.Context, req *model.BookAppointmentRequest) error {
	if req == nil || req.DoctorID == 0 || req.PatientID == 0 || req.AppointmentTime.IsZero() {
		return apperror.BadRequest("invalid appointment details", nil)
	}

	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, req.AppointmentTime.Location())
	if req.AppointmentTime.Before(today) {
		return apperror.BadRequest("invalid appointment details", nil)
	}

	if _, err := s.doctors.Get(ctx, req.DoctorID); err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return apperror.BadRequest("invalid appointment details", err)
		}
		return err
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return apperror.BadRequest("invalid appointment details", err)
		}
		return err
	}

	return nil
}

// Book persists a new scheduled appointment. The store's single-statement
// atomicity is the only consistency mechanism; a failed insert leaves no
// partial state behind.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	apt := &model.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		AppointmentTime: req.AppointmentTime,
		Status:          model.AppointmentStatusScheduled,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		s.logger.Error().Err(err).Int64("doctor_id", req.DoctorID).Msg("failed to book appointment")
		return nil, err
	}

	s.recordEvent(ctx, model.EventAppointmentBooked, apt)
	s.sendConfirmation(ctx, apt)

	return apt, nil
}

// Update overwrites an existing appointment's fields, leaving its status
// untouched. Beyond the existence check there is no ownership or
// time-conflict re-validation; the legacy API behaves the same way.
func (s *Service) Update(ctx context.Context, req *model.UpdateAppointmentRequest) error {
	existing, err := s.repo.Get(ctx, req.ID)
	if err != nil {
		return err
	}

	existing.DoctorID = req.DoctorID
	existing.PatientID = req.PatientID
	existing.AppointmentTime = req.AppointmentTime

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", req.ID).Msg("failed to update appointment")
		return err
	}

	s.recordEvent(ctx, model.EventAppointmentUpdated, existing)
	return nil
}

// Cancel deletes an appointment after verifying the token identity
// matches the owning patient's email.
func (s *Service) Cancel(ctx context.Context, id int64, tokenStr string) error {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return err
	}

	identity, err := s.tokens.ExtractEmail(tokenStr)
	if err != nil {
		return apperror.Unauthorized("invalid or unauthorized token", err)
	}
	if !strings.EqualFold(detail.PatientEmail, identity) {
		return apperror.Forbidden("unauthorized to cancel this appointment", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to cancel appointment")
		return err
	}

	s.recordEvent(ctx, model.EventAppointmentCancelled, &detail.Appointment)
	return nil
}

// ListForDoctor resolves the doctor from the token and returns their
// appointments within [date 00:00:00, date 23:59:59.999...], optionally
// filtered by patient-name substring.
func (s *Service) ListForDoctor(ctx context.Context, date time.Time, patientName, tokenStr string) ([]model.AppointmentView, error) {
	doctorEmail, err := s.tokens.ExtractEmail(tokenStr)
	if err != nil {
		return nil, apperror.Unauthorized("invalid or unauthorized token", err)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	details, err := s.repo.ListForDoctor(ctx, doctorEmail, start, end, strings.TrimSpace(patientName))
	if err != nil {
		s.logger.Error().Err(err).Str("doctor", doctorEmail).Msg("failed to list doctor appointments")
		return nil, err
	}

	return model.AppointmentViews(details), nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	if err := s.outbox.Create(ctx, eventType, apt); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Int64("appointment_id", apt.ID).
			Msg("failed to record outbox event")
	}
}

func (s *Service) sendConfirmation(ctx context.Context, apt *model.Appointment) {
	patient, err := s.patients.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("patient_id", apt.PatientID).Msg("skipping booking confirmation")
		return
	}
	if err := s.mailer.SendBookingConfirmation(patient.Email, patient.Name, apt.AppointmentTime); err != nil {
		s.logger.Warn().Err(err).Str("email", patient.Email).Msg("failed to send booking confirmation")
	}
}
