package admin

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/security"
	"github.com/medhub/clinic-api/pkg/token"
)

type Service struct {
	repo   repository.AdminRepository
	tokens *token.Service
	logger zerolog.Logger
}

func NewService(repo repository.AdminRepository, tokens *token.Service, logger zerolog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Login checks admin credentials and issues an admin-scoped token.
func (s *Service) Login(ctx context.Context, req *model.AdminLoginRequest) (string, error) {
	admin, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return "", apperror.Unauthorized("invalid username or password", err)
		}
		return "", err
	}
	if err := security.CheckPassword(admin.Password, req.Password); err != nil {
		return "", apperror.Unauthorized("invalid username or password", nil)
	}

	tok, err := s.tokens.Issue(admin.Username, token.RoleAdmin)
	if err != nil {
		s.logger.Error().Err(err).Str("username", admin.Username).Msg("failed to issue token")
		return "", apperror.Internal(err)
	}
	return tok, nil
}
