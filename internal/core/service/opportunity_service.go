package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/metrics"
)

// Pipeline actions broadcast to live dashboards.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionMoved   = "stage_moved"
	ActionDeleted = "deleted"
)

type OpportunityService struct {
	repo     ports.OpportunityRepository
	clients  ports.ClientRepository
	notifier ports.PipelineNotifier
	logger   zerolog.Logger
}

// NewOpportunityService wires the pipeline service. notifier may be nil.
func NewOpportunityService(repo ports.OpportunityRepository, clients ports.ClientRepository, notifier ports.PipelineNotifier, logger zerolog.Logger) *OpportunityService {
	return &OpportunityService{repo: repo, clients: clients, notifier: notifier, logger: logger}
}

func (s *OpportunityService) List(ctx context.Context, caller domain.Caller, filter domain.OpportunityFilter) ([]*domain.Opportunity, error) {
	if filter.Stage != "" && !filter.Stage.Valid() {
		return nil, domain.Invalid("stage inválido: %s", filter.Stage)
	}
	filter.OwnerUserID = caller.OwnerScope()
	return s.repo.List(ctx, filter)
}

func (s *OpportunityService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Opportunity, error) {
	return s.repo.FindByID(ctx, id, caller.OwnerScope())
}

func (s *OpportunityService) Create(ctx context.Context, caller domain.Caller, o *domain.Opportunity) (*domain.Opportunity, error) {
	o.Title = strings.TrimSpace(o.Title)
	if o.Stage == "" {
		o.Stage = domain.StageNew
	}
	switch {
	case o.ClientID == "":
		return nil, domain.Invalid("clientId es obligatorio")
	case o.Title == "":
		return nil, domain.Invalid("title es obligatorio")
	case o.PrimaryService != "" && !o.PrimaryService.Valid():
		return nil, domain.Invalid("servicio desconocido: %s", o.PrimaryService)
	case !o.Stage.Valid():
		return nil, domain.Invalid("stage inválido: %s", o.Stage)
	}
	if err := ensureClientVisible(ctx, s.clients, caller, o.ClientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.ID = uuid.NewString()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.OwnerUserID = assignOwner(caller, o.OwnerUserID)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, o.ID, "")
	if err != nil {
		return nil, err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("opportunity", "create").Inc()
	s.logger.Info().Str("opportunity_id", o.ID).Str("stage", string(o.Stage)).Msg("opportunity created")
	s.notify(ActionCreated, created)
	return created, nil
}

func (s *OpportunityService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.OpportunityPatch) (*domain.Opportunity, error) {
	switch {
	case patch.ClientID != nil && *patch.ClientID == "":
		return nil, domain.Invalid("clientId no puede estar vacío")
	case patch.Title != nil && strings.TrimSpace(*patch.Title) == "":
		return nil, domain.Invalid("title no puede estar vacío")
	case patch.PrimaryService != nil && !patch.PrimaryService.Valid():
		return nil, domain.Invalid("servicio desconocido: %s", *patch.PrimaryService)
	case patch.Stage != nil && !patch.Stage.Valid():
		return nil, domain.Invalid("stage inválido: %s", *patch.Stage)
	}
	if patch.Title != nil {
		v := strings.TrimSpace(*patch.Title)
		patch.Title = &v
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

	metrics.RecordsMutatedTotal.WithLabelValues("opportunity", "update").Inc()
	s.notify(ActionUpdated, updated)
	return updated, nil
}

// MoveStage is a partial update of the stage field. No transition graph is
// enforced: any stage may follow any other.
func (s *OpportunityService) MoveStage(ctx context.Context, caller domain.Caller, id string, stage domain.Stage) (*domain.Opportunity, error) {
	if !stage.Valid() {
		return nil, domain.Invalid("stage inválido: %s", stage)
	}

	updated, err := s.repo.Update(ctx, id, caller.OwnerScope(), domain.OpportunityPatch{Stage: &stage})
	if err != nil {
		return nil, err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("opportunity", "move_stage").Inc()
	s.logger.Info().Str("opportunity_id", id).Str("stage", string(stage)).Msg("opportunity moved")
	s.notify(ActionMoved, updated)
	return updated, nil
}

// Delete removes the opportunity. The record is loaded first so the deleted
// event carries its owner.
func (s *OpportunityService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	existing, err := s.repo.FindByID(ctx, id, caller.OwnerScope())
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, caller.OwnerScope()); err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("opportunity", "delete").Inc()
	s.notify(ActionDeleted, existing)
	return nil
}

// Summary returns one entry per pipeline stage, in board order, including
// empty stages.
func (s *OpportunityService) Summary(ctx context.Context, caller domain.Caller) ([]domain.StageSummary, error) {
	rows, err := s.repo.SummarizeStages(ctx, caller.OwnerScope())
	if err != nil {
		return nil, err
	}

	byStage := make(map[domain.Stage]domain.StageSummary, len(rows))
	for _, r := range rows {
		byStage[r.Stage] = r
	}

	out := make([]domain.StageSummary, 0, len(domain.Stages()))
	for _, st := range domain.Stages() {
		sum, ok := byStage[st]
		if !ok {
			sum = domain.StageSummary{Stage: st}
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *OpportunityService) notify(action string, o *domain.Opportunity) {
	if s.notifier != nil {
		s.notifier.Notify(action, o)
	}
}
