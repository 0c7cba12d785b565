package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
	"github.com/dinamo-digital/crm-api/internal/pkg/textfold"
)

// TransferService imports and exports clients as spreadsheets.
type TransferService struct {
	clients ports.ClientService
	sheet   ports.ClientSheet
	log     zerolog.Logger
}

func NewTransferService(clients ports.ClientService, sheet ports.ClientSheet, log zerolog.Logger) *TransferService {
	return &TransferService{clients: clients, sheet: sheet, log: log}
}

// Import creates one client per valid row. Invalid rows and rows that fail to
// persist are reported as rejections; they never stop the remaining rows.
func (s *TransferService) Import(ctx context.Context, caller domain.Caller, file []byte) (*ports.ImportResult, error) {
	if len(file) == 0 {
		return nil, domain.Invalid("file es obligatorio")
	}
	rows, err := s.sheet.ReadRows(file)
	if err != nil {
		return nil, err
	}

	out := &ports.ImportResult{
		Accepted: make([]*domain.Client, 0, len(rows)),
		Rejected: make([]ports.ImportRejection, 0),
	}
	for _, row := range rows {
		draft, reason := clientFromRow(row)
		if reason != "" {
			out.Rejected = append(out.Rejected, ports.ImportRejection{Row: row.Number, Reason: reason, Raw: row.Cells})
			continue
		}

		created, err := s.clients.Create(ctx, caller, draft)
		if err != nil {
			out.Rejected = append(out.Rejected, ports.ImportRejection{Row: row.Number, Reason: persistReason(err), Raw: row.Cells})
			continue
		}
		out.Accepted = append(out.Accepted, created)
	}

	metrics.RecordsMutatedTotal.WithLabelValues("client", "import").Add(float64(len(out.Accepted)))
	s.log.Info().
		Int("accepted", len(out.Accepted)).
		Int("rejected", len(out.Rejected)).
		Str("caller", caller.UserID).
		Msg("client import finished")
	return out, nil
}

// Export renders every client visible to caller.
func (s *TransferService) Export(ctx context.Context, caller domain.Caller) ([]byte, error) {
	clients, err := s.clients.List(ctx, caller, domain.ClientFilter{})
	if err != nil {
		return nil, err
	}
	return s.sheet.WriteClients(clients)
}

// clientFromRow builds a draft client, or returns the reason the row is unusable.
func clientFromRow(row ports.SheetRow) (*domain.Client, string) {
	cell := func(k string) string { return strings.TrimSpace(row.Cells[k]) }

	for _, k := range []string{ports.ColName, ports.ColEmail, ports.ColPhone} {
		if cell(k) == "" {
			return nil, "falta el campo " + k
		}
	}
	email := strings.ToLower(cell(ports.ColEmail))
	if !validEmail(email) {
		return nil, "email inválido: " + cell(ports.ColEmail)
	}

	status := domain.ClientNew
	if v := cell(ports.ColStatus); v != "" {
		status = domain.ClientStatus(textfold.Slug(v))
		if !status.Valid() {
			return nil, "estado desconocido: " + v
		}
	}

	services, reason := parseServices(cell(ports.ColServices))
	if reason != "" {
		return nil, reason
	}

	return &domain.Client{
		Name:               cell(ports.ColName),
		Email:              email,
		Phone:              cell(ports.ColPhone),
		Company:            cell(ports.ColCompany),
		InterestedServices: services,
		Status:             status,
		Notes:              cell(ports.ColNotes),
	}, ""
}

func parseServices(v string) ([]domain.ServiceTag, string) {
	tags := make([]domain.ServiceTag, 0)
	seen := make(map[domain.ServiceTag]bool)
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tag := domain.ServiceTag(textfold.Slug(part))
		if !tag.Valid() {
			return nil, "servicio desconocido: " + strings.TrimSpace(part)
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags, ""
}

func persistReason(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Reason
	case errors.Is(err, domain.ErrConflict):
		return "ya existe un cliente con ese email"
	case errors.Is(err, domain.ErrReferenceNotFound):
		return "referencia inexistente"
	default:
		return "no se pudo guardar el cliente"
	}
}
