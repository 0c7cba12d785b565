package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

type ContactService struct {
	sender ports.EmailSender
	inbox  string
	log    zerolog.Logger
}

// NewContactService forwards website submissions to inbox.
func NewContactService(sender ports.EmailSender, inbox string, log zerolog.Logger) *ContactService {
	return &ContactService{sender: sender, inbox: inbox, log: log}
}

// Submit emails the submission to the sales inbox and then sends a
// confirmation to the submitter. Only the inbox email must succeed.
func (s *ContactService) Submit(ctx context.Context, form ports.ContactForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(strings.ToLower(form.Email))
	switch {
	case form.Name == "":
		return domain.Invalid("name es obligatorio")
	case !validEmail(form.Email):
		return domain.Invalid("email inválido: %s", form.Email)
	case strings.TrimSpace(form.Message) == "":
		return domain.Invalid("message es obligatorio")
	case form.Service != "" && !domain.ServiceTag(form.Service).Valid():
		return domain.Invalid("servicio desconocido: %s", form.Service)
	}

	_, err := s.sender.Send(ctx, ports.Email{
		To:      s.inbox,
		Subject: fmt.Sprintf("Nuevo contacto: %s", form.Name),
		HTML:    contactInboxBody(form),
		ReplyTo: form.Email,
	})
	if err != nil {
		s.log.Error().Err(err).Str("from", form.Email).Msg("contact inbox email failed")
		return err
	}

	_, err = s.sender.Send(ctx, ports.Email{
		To:      form.Email,
		Subject: "Hemos recibido tu mensaje",
		HTML: fmt.Sprintf("<p>Hola %s,</p><p>Gracias por escribirnos. Te contactaremos muy pronto.</p>",
			html.EscapeString(form.Name)),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("to", form.Email).Msg("contact confirmation email failed")
	}

	s.log.Info().Str("from", form.Email).Str("service", form.Service).Msg("contact form received")
	return nil
}

func contactInboxBody(f ports.ContactForm) string {
	var b strings.Builder
	b.WriteString("<h2>Nuevo mensaje de contacto</h2><ul>")
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
	}
	row("Nombre", f.Name)
	row("Email", f.Email)
	row("Teléfono", f.Phone)
	row("Empresa", f.Company)
	row("Servicio", f.Service)
	b.WriteString("</ul><p>")
	b.WriteString(html.EscapeString(f.Message))
	b.WriteString("</p>")
	return b.String()
}
