package service

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type SessionService struct {
	repo    ports.SessionRepository
	clients ports.ClientRepository
	logger  zerolog.Logger
}

// NewSessionService wires the session service. clients is used to check that
// a session only references clients visible to the caller.
func NewSessionService(repo ports.SessionRepository, clients ports.ClientRepository, logger zerolog.Logger) *SessionService {
	return &SessionService{repo: repo, clients: clients, logger: logger}
}

func (s *SessionService) List(ctx context.Context, caller domain.Caller, filter domain.SessionFilter) ([]*domain.Session, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("estado inválido: %s", filter.Status)
	}
	filter.OwnerUserID = caller.OwnerScope()
	return s.repo.List(ctx, filter)
}

func (s *SessionService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Session, error) {
	return s.repo.FindByID(ctx, id, caller.OwnerScope())
}

func (s *SessionService) Create(ctx context.Context, caller domain.Caller, sess *domain.Session) (*domain.Session, error) {
	if sess.Status == "" {
		sess.Status = domain.SessionScheduled
	}
	switch {
	case sess.ClientID == "":
		return nil, domain.Invalid("clientId es obligatorio")
	case sess.Date.IsZero():
		return nil, domain.Invalid("date es obligatorio")
	case !timeOfDay.MatchString(sess.Time):
		return nil, domain.Invalid("time debe tener formato HH:MM")
	case !sess.Service.Valid():
		return nil, domain.Invalid("servicio desconocido: %s", sess.Service)
	case !sess.Status.Valid():
		return nil, domain.Invalid("estado inválido: %s", sess.Status)
	}
	if err := ensureClientVisible(ctx, s.clients, caller, sess.ClientID); err != nil {
		return nil, err
	}

	sess.ID = uuid.NewString()
	sess.CreatedAt = time.Now().UTC()
	sess.OwnerUserID = assignOwner(caller, sess.OwnerUserID)

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("session", "create").Inc()
	s.logger.Info().Str("session_id", sess.ID).Str("client_id", sess.ClientID).Msg("session scheduled")

	// Reload so the response carries the joined client.
	return s.repo.FindByID(ctx, sess.ID, "")
}

func (s *SessionService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.SessionPatch) (*domain.Session, error) {
	switch {
	case patch.ClientID != nil && *patch.ClientID == "":
		return nil, domain.Invalid("clientId no puede estar vacío")
	case patch.Time != nil && !timeOfDay.MatchString(*patch.Time):
		return nil, domain.Invalid("time debe tener formato HH:MM")
	case patch.Service != nil && !patch.Service.Valid():
		return nil, domain.Invalid("servicio desconocido: %s", *patch.Service)
	case patch.Status != nil && !patch.Status.Valid():
		return nil, domain.Invalid("estado inválido: %s", *patch.Status)
	}
	if patch.ClientID != nil {
		if err := ensureClientVisible(ctx, s.clients, caller, *patch.ClientID); err != nil {
			return nil, err
		}
	}
	if !caller.IsAdmin() {
		patch.OwnerUserID = nil
	}

	updated, err := s.repo.Update(ctx, id, caller.OwnerScope(), patch)
	if err != nil {
		return nil, err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("session", "update").Inc()
	return updated, nil
}

func (s *SessionService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if err := s.repo.Delete(ctx, id, caller.OwnerScope()); err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("session", "delete").Inc()
	return nil
}
