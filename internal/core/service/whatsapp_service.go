package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/bulk"
	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

const (
	channelWhatsApp = "whatsapp"
	maxBodyLength   = 4096
	defaultListSize = 50
	maxListSize     = 500
)

type WhatsAppService struct {
	sender   ports.WhatsAppSender
	messages ports.MessageRepository
	batches  ports.BatchRepository
	log      zerolog.Logger
}

func NewWhatsAppService(sender ports.WhatsAppSender, messages ports.MessageRepository, batches ports.BatchRepository, log zerolog.Logger) *WhatsAppService {
	return &WhatsAppService{sender: sender, messages: messages, batches: batches, log: log}
}

// NormalizeNumber strips formatting characters and a leading plus sign and
// checks the result is an 8 to 15 digit international number.
func NormalizeNumber(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		case r == '+' && i == 0:
		default:
			return "", domain.Invalid("número inválido: %s", raw)
		}
	}
	n := b.String()
	if len(n) < 8 || len(n) > 15 {
		return "", domain.Invalid("número inválido: %s", raw)
	}
	return n, nil
}

// Send delivers a single text message.
func (s *WhatsAppService) Send(ctx context.Context, caller domain.Caller, to, message string) (*domain.Message, error) {
	if err := validateBody(message); err != nil {
		return nil, err
	}
	number, err := NormalizeNumber(to)
	if err != nil {
		return nil, err
	}

	msg, err := s.sendOne(ctx, caller, "", number, message)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(channelWhatsApp, "failure").Inc()
		s.log.Error().Err(err).Str("to", number).Msg("whatsapp send failed")
		return nil, err
	}
	metrics.DispatchTotal.WithLabelValues(channelWhatsApp, "success").Inc()
	return msg, nil
}

// SendBulk sends message to every number in order. Per-number failures are
// reported in the result and never abort the batch.
func (s *WhatsAppService) SendBulk(ctx context.Context, caller domain.Caller, numbers []string, message string) (*ports.DispatchResult, error) {
	if len(numbers) == 0 {
		return nil, domain.Invalid("numbers no puede estar vacío")
	}
	if err := validateBody(message); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	start := time.Now()

	send := func(ctx context.Context, raw string, body string) (string, error) {
		number, err := NormalizeNumber(raw)
		if err != nil {
			return "", err
		}
		msg, err := s.sendOne(ctx, caller, batchID, number, body)
		if err != nil {
			return "", err
		}
		return msg.ProviderID, nil
	}

	res := bulk.Send(ctx, numbers, message, send)
	out := toDispatchResult(batchID, res, s.log, channelWhatsApp)
	recordBatch(ctx, s.batches, s.log, caller, batchID, channelWhatsApp, len(numbers), out, start)
	return out, nil
}

// Messages returns the newest ledger entries, optionally for one number.
func (s *WhatsAppService) Messages(ctx context.Context, to string, limit int) ([]*domain.Message, error) {
	if to != "" {
		n, err := NormalizeNumber(to)
		if err != nil {
			return nil, err
		}
		to = n
	}
	if limit <= 0 {
		limit = defaultListSize
	}
	if limit > maxListSize {
		limit = maxListSize
	}
	return s.messages.List(ctx, to, limit)
}

func (s *WhatsAppService) sendOne(ctx context.Context, caller domain.Caller, batchID, number, body string) (*domain.Message, error) {
	id, err := s.sender.SendText(ctx, number, body)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		ProviderID: id,
		To:         number,
		Body:       body,
		Status:     domain.MessageSent,
		SentBy:     caller.UserID,
		BatchID:    batchID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("message_id", id).Msg("failed to record whatsapp message")
	}
	return msg, nil
}

func validateBody(message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.Invalid("message es obligatorio")
	}
	if len(message) > maxBodyLength {
		return domain.Invalid("message excede %d caracteres", maxBodyLength)
	}
	return nil
}

// toDispatchResult converts a bulk outcome into the wire result and counts it.
func toDispatchResult[R any](batchID string, res bulk.Result[R], log zerolog.Logger, channel string) *ports.DispatchResult {
	out := &ports.DispatchResult{
		BatchID:   batchID,
		Succeeded: make([]ports.SendSuccess, 0, len(res.Succeeded)),
		Failed:    make([]ports.SendFailure, 0, len(res.Failed)),
	}
	for _, ok := range res.Succeeded {
		out.Succeeded = append(out.Succeeded, ports.SendSuccess{Recipient: recipientLabel(ok.Recipient), ID: ok.ID})
	}
	for _, f := range res.Failed {
		label := recipientLabel(f.Recipient)
		log.Warn().Err(f.Err).Str("channel", channel).Str("recipient", label).Msg("bulk recipient failed")
		out.Failed = append(out.Failed, ports.SendFailure{Recipient: label, Reason: failureReason(f.Err)})
	}
	metrics.DispatchTotal.WithLabelValues(channel, "success").Add(float64(len(out.Succeeded)))
	metrics.DispatchTotal.WithLabelValues(channel, "failure").Add(float64(len(out.Failed)))
	return out
}

func recipientLabel(r any) string {
	switch v := r.(type) {
	case string:
		return v
	case ports.Recipient:
		return v.Email
	default:
		return ""
	}
}

// recordBatch writes the batch summary to the ledger. Failures are logged only.
func recordBatch(ctx context.Context, repo ports.BatchRepository, log zerolog.Logger, caller domain.Caller, id, channel string, requested int, out *ports.DispatchResult, start time.Time) {
	took := time.Since(start)
	metrics.DispatchBatchDuration.WithLabelValues(channel).Observe(took.Seconds())

	summary := &domain.BatchSummary{
		ID:        id,
		Channel:   channel,
		Requested: requested,
		Succeeded: len(out.Succeeded),
		Failed:    len(out.Failed),
		SentBy:    caller.UserID,
		StartedAt: start.UTC(),
		Duration:  took.Seconds(),
	}
	log.Info().
		Str("batch_id", id).
		Str("channel", channel).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Dur("took", took).
		Msg("bulk dispatch finished")

	if repo == nil {
		return
	}
	if err := repo.InsertBatch(context.WithoutCancel(ctx), summary); err != nil {
		log.Warn().Err(err).Str("batch_id", id).Msg("failed to record dispatch batch")
	}
}
