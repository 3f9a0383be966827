package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medhub/clinic-api/internal/config"
	"github.com/medhub/clinic-api/pkg/apperror"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const uniqueViolation = "23505"

// checkAffected maps a zero-row write to NotFound.
func checkAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Internal(err)
	}
	if rows == 0 {
		return apperror.NotFound(resource, sql.ErrNoRows)
	}
	return nil
}

// wrapErr converts driver errors into the application taxonomy at the
// repository boundary so no raw persistence error crosses it.
func wrapErr(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(resource, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperror.Conflict(fmt.Sprintf("%s already exists", resource), err)
	}
	return apperror.Internal(err)
}
