package patient

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

type Service struct {
	repo         repository.PatientRepository
	appointments repository.AppointmentRepository
	tokens       *token.Service
	logger       zerolog.Logger
}

func NewService(
	repo repository.PatientRepository,
	appointments repository.AppointmentRepository,
	tokens *token.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		tokens:       tokens,
		logger:       logger,
	}
}

// Register creates a patient account. Email and phone must both be
// unused; duplicates surface as a conflict.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) error {
	exists, err := s.repo.ExistsByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return err
	}
	if exists {
		return apperror.Conflict("patient with email id or phone no already exist", nil)
	}

	patient := &model.Patient{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("failed to register patient")
		return err
	}
	return nil
}

// Login checks credentials and issues a patient-scoped token. Patient
// passwords are stored and compared as-is, carried over from the system
// this replaces.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (string, error) {
	patient, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return "", apperror.Unauthorized("invalid email or password", err)
		}
		return "", err
	}
	if patient.Password != req.Password {
		return "", apperror.Unauthorized("invalid email or password", nil)
	}

	tok, err := s.tokens.Issue(patient.Email, token.RolePatient)
	if err != nil {
		s.logger.Error().Err(err).Str("email", patient.Email).Msg("failed to issue token")
		return "", apperror.Internal(err)
	}
	return tok, nil
}

// Details resolves the patient record behind a token.
func (s *Service) Details(ctx context.Context, tokenStr string) (*model.Patient, error) {
	patient, err := s.resolve(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	return patient, nil
}

// Appointments lists a patient's appointments after checking the token
// identity matches the requested patient ID.
func (s *Service) Appointments(ctx context.Context, patientID int64, tokenStr string) ([]model.AppointmentView, error) {
	patient, err := s.resolve(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	if patient.ID != patientID {
		return nil, apperror.Unauthorized("token does not match patient id", nil)
	}
	return s.list(ctx, patient.ID, nil)
}

// FilterByCondition lists the token's own appointments in the past
// (completed) or future (scheduled).
func (s *Service) FilterByCondition(ctx context.Context, condition, tokenStr string) ([]model.AppointmentView, error) {
	return s.Filter(ctx, "", condition, tokenStr)
}

// FilterByDoctor lists the token's own appointments with doctors whose
// name contains the given fragment.
func (s *Service) FilterByDoctor(ctx context.Context, doctorName, tokenStr string) ([]model.AppointmentView, error) {
	return s.Filter(ctx, doctorName, "", tokenStr)
}

// Filter combines the doctor-name and condition filters. Blank, "null"
// or "all" values leave the corresponding dimension unfiltered.
func (s *Service) Filter(ctx context.Context, doctorName, condition, tokenStr string) ([]model.AppointmentView, error) {
	patient, err := s.resolve(ctx, tokenStr)
	if err != nil {
		return nil, err
	}

	filter := &model.PatientAppointmentFilter{DoctorName: normalize(doctorName)}
	if cond := normalize(condition); cond != "" {
		status, err := parseCondition(cond)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	return s.list(ctx, patient.ID, filter)
}

func (s *Service) list(ctx context.Context, patientID int64, filter *model.PatientAppointmentFilter) ([]model.AppointmentView, error) {
	details, err := s.appointments.ListForPatient(ctx, patientID, filter)
	if err != nil {
		s.logger.Error().Err(err).Int64("patient_id", patientID).Msg("failed to list patient appointments")
		return nil, err
	}
	return model.AppointmentViews(details), nil
}

func (s *Service) resolve(ctx context.Context, tokenStr string) (*model.Patient, error) {
	email, err := s.tokens.ExtractEmail(tokenStr)
	if err != nil {
		return nil, apperror.Unauthorized("invalid or unauthorized token", err)
	}
	patient, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("invalid or unauthorized token", err)
		}
		return nil, err
	}
	return patient, nil
}

// normalize treats the placeholder path values the legacy frontend sends
// ("null", "all") as absent filters.
func normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// parseCondition maps "past" to completed and "future" to scheduled,
// case-insensitively.
func parseCondition(condition string) (model.AppointmentStatus, error) {
	switch strings.ToLower(condition) {
	case "past":
		return model.AppointmentStatusCompleted, nil
	case "future":
		return model.AppointmentStatusScheduled, nil
	default:
		return 0, apperror.BadRequest("invalid condition. use 'past' or 'future'", nil)
	}
}
