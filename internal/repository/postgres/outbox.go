package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository"
)

type outboxRepository struct {
	db *sqlx.DB
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return wrapErr("outbox event", err)
	}

	query := `
		INSERT INTO outbox_events (event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = r.db.ExecContext(ctx, query, eventType, data, model.OutboxStatusPending, time.Now())
	return wrapErr("outbox event", err)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, created_at, processed_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	events := []*model.OutboxEvent{}
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, wrapErr("outbox events", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET status = $1, processed_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, time.Now(), id)
	if err != nil {
		return wrapErr("outbox event", err)
	}
	return checkAffected(result, "outbox event")
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusFailed, id)
	if err != nil {
		return wrapErr("outbox event", err)
	}
	return checkAffected(result, "outbox event")
}
