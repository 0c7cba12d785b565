package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// ClientService is the client record service.
type ClientService interface {
	List(ctx context.Context, caller domain.Caller, filter domain.ClientFilter) ([]*domain.Client, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Client, error)
	Create(ctx context.Context, caller domain.Caller, c *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch domain.ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

// SessionService is the session record service.
type SessionService interface {
	List(ctx context.Context, caller domain.Caller, filter domain.SessionFilter) ([]*domain.Session, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Session, error)
	Create(ctx context.Context, caller domain.Caller, s *domain.Session) (*domain.Session, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch domain.SessionPatch) (*domain.Session, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

// OpportunityService is the opportunity record service.
type OpportunityService interface {
	List(ctx context.Context, caller domain.Caller, filter domain.OpportunityFilter) ([]*domain.Opportunity, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Opportunity, error)
	Create(ctx context.Context, caller domain.Caller, o *domain.Opportunity) (*domain.Opportunity, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch domain.OpportunityPatch) (*domain.Opportunity, error)
	MoveStage(ctx context.Context, caller domain.Caller, id string, stage domain.Stage) (*domain.Opportunity, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	Summary(ctx context.Context, caller domain.Caller) ([]domain.StageSummary, error)
}

// PipelineNotifier is told about every pipeline mutation.
type PipelineNotifier interface {
	Notify(action string, o *domain.Opportunity)
}
