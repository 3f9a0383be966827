// Package worker runs the outbox publisher: pending events written by
// the services are polled from the database and pushed to the broker.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/repository"
	"github.com/medhub/clinic-api/pkg/messaging"
	"github.com/medhub/clinic-api/pkg/metrics"
)

type OutboxProcessor struct {
	repo         repository.OutboxRepository
	broker       messaging.Broker
	channel      string
	batchSize    int
	pollInterval time.Duration
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	channel string,
	batchSize int,
	pollInterval time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:         repo,
		broker:       broker,
		channel:      channel,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		metrics:      m,
		logger:       logger,
	}
}

// Start polls until ctx is cancelled. Events that fail to publish are
// marked failed and not retried; the appointment writes they describe
// have already committed, so delivery here is best effort.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.logger.Info().Dur("poll_interval", p.pollInterval).Msg("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("outbox processor stopped")
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.OutboxPollLatency.Observe(time.Since(start).Seconds())
		}
	}()

	events, err := p.repo.ListPending(ctx, p.batchSize)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to list pending outbox events")
		return
	}

	for _, event := range events {
		if err := p.broker.Publish(ctx, p.channel, event.Payload); err != nil {
			p.logger.Error().Err(err).Int64("event_id", event.ID).Str("event_type", event.EventType).
				Msg("failed to publish outbox event")
			if markErr := p.repo.MarkFailed(ctx, event.ID); markErr != nil {
				p.logger.Error().Err(markErr).Int64("event_id", event.ID).Msg("failed to mark event failed")
			}
			if p.metrics != nil {
				p.metrics.OutboxEventsFailed.Inc()
			}
			continue
		}

		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error().Err(err).Int64("event_id", event.ID).Msg("failed to mark event processed")
			continue
		}
		if p.metrics != nil {
			p.metrics.OutboxEventsPublished.Inc()
		}
	}
}
