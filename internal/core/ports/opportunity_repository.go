package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// OpportunityRepository defines persistence operations for the sales pipeline.
// Returned opportunities always carry their client.
type OpportunityRepository interface {
	Create(ctx context.Context, o *domain.Opportunity) error
	FindByID(ctx context.Context, id, owner string) (*domain.Opportunity, error)
	List(ctx context.Context, filter domain.OpportunityFilter) ([]*domain.Opportunity, error)
	Update(ctx context.Context, id, owner string, patch domain.OpportunityPatch) (*domain.Opportunity, error)
	Delete(ctx context.Context, id, owner string) error
	// SummarizeStages aggregates count and estimated value per stage.
	SummarizeStages(ctx context.Context, owner string) ([]domain.StageSummary, error)
}
