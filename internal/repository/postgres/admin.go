package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, `SELECT * FROM admins WHERE username = $1`, username); err != nil {
		return nil, wrapErr("admin", err)
	}
	return &admin, nil
}
