package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (name, email, password, specialty, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		doctor.Name,
		doctor.Email,
		doctor.Password,
		doctor.Specialty,
		doctor.Phone,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	).Scan(&doctor.ID)
	return wrapErr("doctor", err)
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE id = $1`, id); err != nil {
		return nil, wrapErr("doctor", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE email = $1`, email); err != nil {
		return nil, wrapErr("doctor", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return wrapErr("doctor", err)
	}
	return checkAffected(result, "doctor")
}

func (r *doctorRepository) List(ctx context.Context, filter *model.DoctorFilter) ([]*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filter != nil {
		if filter.Name != "" {
			query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, argCount)
			args = append(args, filter.Name)
			argCount++
		}
		if filter.Specialty != "" {
			query += fmt.Sprintf(` AND LOWER(specialty) = LOWER($%d)`, argCount)
			args = append(args, filter.Specialty)
		}
	}

	query += ` ORDER BY name ASC`

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, wrapErr("doctors", err)
	}
	return doctors, nil
}
