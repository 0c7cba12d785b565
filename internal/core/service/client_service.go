package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

// List returns the clients visible to caller, newest first.
func (s *ClientService) List(ctx context.Context, caller domain.Caller, filter domain.ClientFilter) ([]*domain.Client, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("estado inválido: %s", filter.Status)
	}
	filter.OwnerUserID = caller.OwnerScope()
	return s.repo.List(ctx, filter)
}

func (s *ClientService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id, caller.OwnerScope())
}

// Create validates and persists a new client. Non-admin callers always own
// the clients they create.
func (s *ClientService) Create(ctx context.Context, caller domain.Caller, c *domain.Client) (*domain.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Status == "" {
		c.Status = domain.ClientNew
	}
	if err := validateClient(c); err != nil {
		return nil, err
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.OwnerUserID = assignOwner(caller, c.OwnerUserID)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("client", "create").Inc()
	s.logger.Info().Str("client_id", c.ID).Str("caller", caller.UserID).Msg("client created")
	return c, nil
}

// Update applies a partial update. Fields left nil keep their value.
func (s *ClientService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.ClientPatch) (*domain.Client, error) {
	if err := validateClientPatch(&patch); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		patch.OwnerUserID = nil
	}

	updated, err := s.repo.Update(ctx, id, caller.OwnerScope(), patch)
	if err != nil {
		return nil, err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("client", "update").Inc()
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if err := s.repo.Delete(ctx, id, caller.OwnerScope()); err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("client", "delete").Inc()
	s.logger.Info().Str("client_id", id).Str("caller", caller.UserID).Msg("client deleted")
	return nil
}

func validateClient(c *domain.Client) error {
	if c.Name == "" {
		return domain.Invalid("name es obligatorio")
	}
	if c.Email == "" {
		return domain.Invalid("email es obligatorio")
	}
	if !validEmail(c.Email) {
		return domain.Invalid("email inválido: %s", c.Email)
	}
	if c.Phone == "" {
		return domain.Invalid("phone es obligatorio")
	}
	if !c.Status.Valid() {
		return domain.Invalid("estado inválido: %s", c.Status)
	}
	return validateServices(c.InterestedServices)
}

func validateClientPatch(p *domain.ClientPatch) error {
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		if v == "" {
			return domain.Invalid("name no puede estar vacío")
		}
		p.Name = &v
	}
	if p.Email != nil {
		v := strings.TrimSpace(strings.ToLower(*p.Email))
		if !validEmail(v) {
			return domain.Invalid("email inválido: %s", v)
		}
		p.Email = &v
	}
	if p.Phone != nil {
		v := strings.TrimSpace(*p.Phone)
		if v == "" {
			return domain.Invalid("phone no puede estar vacío")
		}
		p.Phone = &v
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.Invalid("estado inválido: %s", *p.Status)
	}
	if p.InterestedServices != nil {
		return validateServices(*p.InterestedServices)
	}
	return nil
}

func validateServices(tags []domain.ServiceTag) error {
	for _, t := range tags {
		if !t.Valid() {
			return domain.Invalid("servicio desconocido: %s", t)
		}
	}
	return nil
}

var validate = validator.New()

func validEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// assignOwner decides who owns a new record: admins may pick any owner (or
// none), everyone else owns what they create.
func assignOwner(caller domain.Caller, requested *string) *string {
	if caller.IsAdmin() {
		if requested != nil && *requested == "" {
			return nil
		}
		return requested
	}
	if caller.UserID == "" {
		return nil
	}
	id := caller.UserID
	return &id
}

// ensureClientVisible rejects clientID unless caller can see that client.
// Missing and foreign clients look the same to the caller.
func ensureClientVisible(ctx context.Context, clients ports.ClientRepository, caller domain.Caller, clientID string) error {
	if _, err := clients.FindByID(ctx, clientID, caller.OwnerScope()); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return fmt.Errorf("client %s: %w", clientID, domain.ErrReferenceNotFound)
		}
		return err
	}
	return nil
}
