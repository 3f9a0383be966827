package doctor

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/security"
	"github.com/medhub/clinic-api/pkg/token"
)

type Service struct {
	repo   repository.DoctorRepository
	tokens *token.Service
	logger zerolog.Logger
}

func NewService(repo repository.DoctorRepository, tokens *token.Service, logger zerolog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// List returns all doctors.
func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	return s.repo.List(ctx, nil)
}

// Filter returns doctors matching a name fragment and/or specialty.
// "null" and "all" are placeholder values the legacy frontend sends for
// an unset filter.
func (s *Service) Filter(ctx context.Context, filter *model.DoctorFilter) ([]*model.Doctor, error) {
	if filter != nil {
		filter.Name = normalize(filter.Name)
		filter.Specialty = normalize(filter.Specialty)
	}
	return s.repo.List(ctx, filter)
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// Create registers a doctor with a hashed password.
func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash doctor password")
		return nil, apperror.Internal(err)
	}

	doctor := &model.Doctor{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hash,
		Specialty: req.Specialty,
		Phone:     req.Phone,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("failed to create doctor")
		return nil, err
	}
	return doctor, nil
}

// Delete removes a doctor from the directory.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Login checks credentials and issues a doctor-scoped token.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (string, error) {
	doctor, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return "", apperror.Unauthorized("invalid email or password", err)
		}
		return "", err
	}
	if err := security.CheckPassword(doctor.Password, req.Password); err != nil {
		return "", apperror.Unauthorized("invalid email or password", nil)
	}

	tok, err := s.tokens.Issue(doctor.Email, token.RoleDoctor)
	if err != nil {
		s.logger.Error().Err(err).Str("email", doctor.Email).Msg("failed to issue token")
		return "", apperror.Internal(err)
	}
	return tok, nil
}
