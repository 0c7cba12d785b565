package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// MessageRepository is the outbound WhatsApp ledger.
type MessageRepository interface {
	Insert(ctx context.Context, m *domain.Message) error
	// UpdateStatus applies a provider status callback to the ledger entry.
	UpdateStatus(ctx context.Context, ev domain.StatusEvent) error
	List(ctx context.Context, to string, limit int) ([]*domain.Message, error)
}

// BatchRepository records bulk dispatch summaries.
type BatchRepository interface {
	InsertBatch(ctx context.Context, b *domain.BatchSummary) error
}

// EventRepository keeps the raw webhook audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, ev domain.StatusEvent) error
}

// EventService applies a single webhook status event.
type EventService interface {
	Process(ctx context.Context, ev domain.StatusEvent) error
}

// Recipient is one addressee of a bulk email.
type Recipient struct {
	Email string
	Name  string
}

// SendFailure reports one recipient that could not be served.
type SendFailure struct {
	Recipient string
	Reason    string
}

// SendSuccess reports one recipient accepted by the provider.
type SendSuccess struct {
	Recipient string
	ID        string
}

// DispatchResult is the per-recipient outcome of a bulk send.
type DispatchResult struct {
	BatchID   string
	Succeeded []SendSuccess
	Failed    []SendFailure
}

// WhatsAppService sends single and bulk WhatsApp messages.
type WhatsAppService interface {
	Send(ctx context.Context, caller domain.Caller, to, message string) (*domain.Message, error)
	SendBulk(ctx context.Context, caller domain.Caller, numbers []string, message string) (*DispatchResult, error)
	Messages(ctx context.Context, to string, limit int) ([]*domain.Message, error)
}

// EmailService sends single and bulk transactional emails.
type EmailService interface {
	Send(ctx context.Context, caller domain.Caller, to, subject, html string) (string, error)
	SendBulk(ctx context.Context, caller domain.Caller, recipients []Recipient, subject, html string) (*DispatchResult, error)
}

// ContactForm is a public website contact submission.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Service string
	Message string
}

type ContactService interface {
	Submit(ctx context.Context, form ContactForm) error
}

// ImportRejection describes a spreadsheet row that was not imported.
type ImportRejection struct {
	Row    int
	Reason string
	Raw    map[string]string
}

// ImportResult is the outcome of a spreadsheet import.
type ImportResult struct {
	Accepted []*domain.Client
	Rejected []ImportRejection
}

// ClientTransfer imports and exports clients as spreadsheets.
type ClientTransfer interface {
	Import(ctx context.Context, caller domain.Caller, file []byte) (*ImportResult, error)
	Export(ctx context.Context, caller domain.Caller) ([]byte, error)
}
