package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

const (
	maxWebhookBytes = 1 << 20
	enqueueTimeout  = 5 * time.Second
)

// EventQueue is the interface the handler uses to enqueue status events.
type EventQueue interface {
	EnqueueBatch(ctx context.Context, events []domain.StatusEvent) error
}

// WebhookHandler handles the WhatsApp provider webhook.
type WebhookHandler struct {
	queue       EventQueue
	verifyToken string
	log         zerolog.Logger
}

// NewWebhookHandler creates a WebhookHandler backed by the given queue.
func NewWebhookHandler(queue EventQueue, verifyToken string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{queue: queue, verifyToken: verifyToken, log: log}
}

// Verify handles GET /whatsapp/webhook, the provider subscription handshake.
//
// @Summary      Webhook verification handshake
// @Tags         whatsapp
// @Produce      plain
// @Param        hub.mode          query     string  true  "Must be subscribe"
// @Param        hub.verify_token  query     string  true  "Shared verify token"
// @Param        hub.challenge     query     string  true  "Challenge to echo back"
// @Success      200               {string}  string
// @Failure      403               {object}  errorResponse
// @Router       /whatsapp/webhook [get]
func (h *WebhookHandler) Verify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.log.Warn().Str("mode", mode).Msg("webhook verification rejected")
		return domain.ErrForbidden
	}
	return c.String(http.StatusOK, c.QueryParam("hub.challenge"))
}

// Receive handles POST /whatsapp/webhook. It always answers 200 so the
// provider does not retry; malformed payloads are logged and dropped.
//
// @Summary      Provider status callback
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Success      200  {object}  receivedResponse
// @Router       /whatsapp/webhook [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	ok := receivedResponse{Received: true}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBytes))
	if err != nil {
		h.log.Warn().Err(err).Msg("webhook body unreadable")
		return c.JSON(http.StatusOK, ok)
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.log.Warn().Err(err).Int("bytes", len(body)).Msg("malformed webhook payload")
		return c.JSON(http.StatusOK, ok)
	}

	events := toStatusEvents(payload)
	if len(events) == 0 {
		return c.JSON(http.StatusOK, ok)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), enqueueTimeout)
	defer cancel()
	if err := h.queue.EnqueueBatch(ctx, events); err != nil {
		h.log.Error().Err(err).Int("events", len(events)).Msg("webhook events dropped")
	}
	return c.JSON(http.StatusOK, ok)
}

// toStatusEvents flattens every recognised status entry. Unknown statuses
// and entries without a message id are skipped.
func toStatusEvents(p webhookPayload) []domain.StatusEvent {
	var out []domain.StatusEvent
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				status := domain.MessageStatus(strings.ToLower(st.Status))
				if st.ID == "" || !knownStatus(status) {
					continue
				}
				out = append(out, domain.StatusEvent{
					MessageID:   st.ID,
					Status:      status,
					Timestamp:   parseUnix(st.Timestamp),
					RecipientID: st.RecipientID,
					Error:       firstError(st.Errors),
				})
			}
		}
	}
	return out
}

func knownStatus(s domain.MessageStatus) bool {
	switch s {
	case domain.MessageSent, domain.MessageDelivered, domain.MessageRead, domain.MessageFailed:
		return true
	}
	return false
}

func parseUnix(s string) time.Time {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(secs, 0).UTC()
}

func firstError(errs []webhookError) string {
	if len(errs) == 0 {
		return ""
	}
	e := errs[0]
	if e.Message != "" {
		return e.Message
	}
	if e.Title != "" {
		return e.Title
	}
	return strconv.Itoa(e.Code)
}
