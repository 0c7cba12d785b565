package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/bulk"
	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

const channelEmail = "email"

// bulkEmailContent is the shared content of a bulk email.
type bulkEmailContent struct {
	subject string
	html    string
}

type EmailService struct {
	sender  ports.EmailSender
	batches ports.BatchRepository
	delay   time.Duration
	log     zerolog.Logger
}

// NewEmailService wires the email service. delay is the pause between two
// recipients of a bulk send.
func NewEmailService(sender ports.EmailSender, batches ports.BatchRepository, delay time.Duration, log zerolog.Logger) *EmailService {
	return &EmailService{sender: sender, batches: batches, delay: delay, log: log}
}

func (s *EmailService) Send(ctx context.Context, _ domain.Caller, to, subject, html string) (string, error) {
	to = strings.TrimSpace(to)
	if !validEmail(to) {
		return "", domain.Invalid("email inválido: %s", to)
	}
	if err := validateEmailContent(subject, html); err != nil {
		return "", err
	}

	id, err := s.sender.Send(ctx, ports.Email{To: to, Subject: subject, HTML: html})
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(channelEmail, "failure").Inc()
		s.log.Error().Err(err).Str("to", to).Msg("email send failed")
		return "", err
	}
	metrics.DispatchTotal.WithLabelValues(channelEmail, "success").Inc()
	return id, nil
}

// SendBulk emails every recipient in order with a fixed pause between sends.
// {{nombre}} in subject or body is replaced by the recipient name.
func (s *EmailService) SendBulk(ctx context.Context, caller domain.Caller, recipients []ports.Recipient, subject, html string) (*ports.DispatchResult, error) {
	if len(recipients) == 0 {
		return nil, domain.Invalid("recipients no puede estar vacío")
	}
	if err := validateEmailContent(subject, html); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	start := time.Now()

	send := func(ctx context.Context, r ports.Recipient, c bulkEmailContent) (string, error) {
		to := strings.TrimSpace(r.Email)
		if !validEmail(to) {
			return "", domain.Invalid("email inválido: %s", r.Email)
		}
		return s.sender.Send(ctx, ports.Email{
			To:      to,
			Subject: personalize(c.subject, r.Name),
			HTML:    personalizeHTML(c.html, r.Name),
		})
	}

	res := bulk.Send(ctx, recipients, bulkEmailContent{subject: subject, html: html}, send, bulk.WithDelay(s.delay))
	out := toDispatchResult(batchID, res, s.log, channelEmail)
	recordBatch(ctx, s.batches, s.log, caller, batchID, channelEmail, len(recipients), out, start)
	return out, nil
}

func validateEmailContent(subject, html string) error {
	if strings.TrimSpace(subject) == "" {
		return domain.Invalid("subject es obligatorio")
	}
	if strings.TrimSpace(html) == "" {
		return domain.Invalid("html es obligatorio")
	}
	return nil
}

func personalize(s, name string) string {
	return strings.ReplaceAll(s, "{{nombre}}", name)
}

// personalizeHTML is personalize with the name escaped for an HTML body.
func personalizeHTML(body, name string) string {
	return personalize(body, html.EscapeString(name))
}

// failureReason is the per-recipient reason reported to the caller.
func failureReason(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Reason
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "envío cancelado"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "proveedor no disponible"
	default:
		return err.Error()
	}
}
