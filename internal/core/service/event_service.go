package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, messageID, status string) (bool, error)
	Mark(ctx context.Context, messageID, status string) error
}

type eventService struct {
	messages ports.MessageRepository
	events   ports.EventRepository
	dedup    DedupChecker
	log      zerolog.Logger
}

// NewEventService returns the EventService applied by webhook workers.
func NewEventService(
	messages ports.MessageRepository,
	events ports.EventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		messages: messages,
		events:   events,
		dedup:    dedup,
		log:      log,
	}
}

// Process deduplicates and persists a single delivery status event.
func (s *eventService) Process(ctx context.Context, ev domain.StatusEvent) error {
	start := time.Now()

	isDup, err := s.dedup.IsDuplicate(ctx, ev.MessageID, string(ev.Status))
	if err != nil {
		s.log.Warn().Err(err).Str("message_id", ev.MessageID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.WebhookDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("message_id", ev.MessageID).Str("status", string(ev.Status)).Msg("duplicate status skipped")
		return nil
	}
	metrics.WebhookDedupTotal.WithLabelValues("miss").Inc()

	// Mark before writing so a retried delivery is not applied twice.
	if markErr := s.dedup.Mark(ctx, ev.MessageID, string(ev.Status)); markErr != nil {
		s.log.Warn().Err(markErr).Str("message_id", ev.MessageID).Msg("failed to set dedup key")
	}

	if err := s.messages.UpdateStatus(ctx, ev); err != nil {
		metrics.WebhookEventsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process status: update message: %w", err)
	}

	// Audit trail is non-fatal.
	if err := s.events.InsertEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("message_id", ev.MessageID).Msg("failed to insert webhook event")
	}

	metrics.WebhookEventsProcessedTotal.WithLabelValues(string(ev.Status)).Inc()
	s.log.Info().
		Str("message_id", ev.MessageID).
		Str("status", string(ev.Status)).
		Dur("took", time.Since(start)).
		Msg("status event processed")

	return nil
}
