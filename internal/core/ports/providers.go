package ports

import "context"

// WhatsAppSender sends a text message and returns the provider message id.
type WhatsAppSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Email is a single transactional email.
type Email struct {
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// EmailSender delivers a transactional email and returns the provider id.
type EmailSender interface {
	Send(ctx context.Context, email Email) (string, error)
}
