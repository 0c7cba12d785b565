package handler

import (
	"strings"
	"time"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and keeps the
// calendar day. An empty string yields the zero time.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := ts.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, domain.Invalid("%s inválida: %s", field, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// --- Request → Domain ---

func toSession(req sessionRequest) (*domain.Session, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ClientID:    strings.TrimSpace(req.ClientID),
		Date:        date,
		Time:        strings.TrimSpace(req.Time),
		Service:     domain.ServiceTag(req.Service),
		Status:      domain.SessionStatus(req.Estado),
		Notes:       req.Notes,
		MeetingURL:  req.MeetingURL,
		OwnerUserID: req.OwnerUserID,
	}, nil
}

func toSessionPatch(req sessionPatchRequest) (domain.SessionPatch, error) {
	patch := domain.SessionPatch{
		ClientID:    req.ClientID,
		Time:        req.Time,
		Notes:       req.Notes,
		MeetingURL:  req.MeetingURL,
		OwnerUserID: req.OwnerUserID,
	}
	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			return patch, err
		}
		if d.IsZero() {
			return patch, domain.Invalid("date no puede estar vacía")
		}
		patch.Date = &d
	}
	if req.Service != nil {
		svc := domain.ServiceTag(*req.Service)
		patch.Service = &svc
	}
	if req.Estado != nil {
		st := domain.SessionStatus(*req.Estado)
		patch.Status = &st
	}
	return patch, nil
}

func toSessionFilter(clientID, estado, from, to string) (domain.SessionFilter, error) {
	f := domain.SessionFilter{ClientID: clientID, Status: domain.SessionStatus(estado)}
	var err error
	if f.From, err = parseDate("from", from); err != nil {
		return f, err
	}
	if f.To, err = parseDate("to", to); err != nil {
		return f, err
	}
	return f, nil
}

// --- Domain → Response ---

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		Date:        formatDate(s.Date),
		Time:        s.Time,
		Service:     string(s.Service),
		Estado:      string(s.Status),
		Notes:       s.Notes,
		MeetingURL:  s.MeetingURL,
		OwnerUserID: s.OwnerUserID,
		CreatedAt:   s.CreatedAt,
	}
	if s.Client != nil {
		c := toClientResponse(s.Client)
		resp.Client = &c
	}
	return resp
}

func toSessionResponses(sessions []*domain.Session) []sessionResponse {
	out := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = toSessionResponse(s)
	}
	return out
}
