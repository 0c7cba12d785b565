package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// OpportunityRepository implements ports.OpportunityRepository using PostgreSQL.
type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) ports.OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func (r *OpportunityRepository) Create(ctx context.Context, o *domain.Opportunity) error {
	if !validID(o.ClientID) || (o.OwnerUserID != nil && !validID(*o.OwnerUserID)) {
		return domain.ErrReferenceNotFound
	}
	return translate(r.db.WithContext(ctx).Omit("Client").Create(opportunityFromDomain(o)).Error, domain.ErrOpportunityNotFound)
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id, owner string) (*domain.Opportunity, error) {
	if !validID(id) {
		return nil, domain.ErrOpportunityNotFound
	}

	var m opportunityModel
	err := r.db.WithContext(ctx).
		Preload("Client").
		Scopes(scopeOwner(owner)).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err, domain.ErrOpportunityNotFound)
	}
	return m.toDomain(), nil
}

// List returns matching opportunities with their client, newest first.
func (r *OpportunityRepository) List(ctx context.Context, f domain.OpportunityFilter) ([]*domain.Opportunity, error) {
	q := r.db.WithContext(ctx).Preload("Client").Scopes(scopeOwner(f.OwnerUserID))
	if f.Stage != "" {
		q = q.Where("stage = ?", string(f.Stage))
	}
	if f.ClientID != "" {
		if !validID(f.ClientID) {
			return []*domain.Opportunity{}, nil
		}
		q = q.Where("client_id = ?", f.ClientID)
	}

	var rows []opportunityModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrOpportunityNotFound)
	}

	out := make([]*domain.Opportunity, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *OpportunityRepository) Update(ctx context.Context, id, owner string, p domain.OpportunityPatch) (*domain.Opportunity, error) {
	if !validID(id) {
		return nil, domain.ErrOpportunityNotFound
	}

	updates := map[string]any{}
	if p.ClientID != nil {
		if !validID(*p.ClientID) {
			return nil, domain.ErrReferenceNotFound
		}
		updates["client_id"] = *p.ClientID
	}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.PrimaryService != nil {
		updates["primary_service"] = string(*p.PrimaryService)
	}
	if p.Stage != nil {
		updates["stage"] = string(*p.Stage)
	}
	if p.Source != nil {
		updates["source"] = *p.Source
	}
	if p.EstimatedValue != nil {
		updates["estimated_value"] = *p.EstimatedValue
	}
	if p.Probability != nil {
		updates["probability"] = *p.Probability
	}
	if p.EstimatedCloseDate != nil {
		updates["estimated_close_date"] = *p.EstimatedCloseDate
	}
	if p.OwnerUserID != nil {
		if *p.OwnerUserID != "" && !validID(*p.OwnerUserID) {
			return nil, domain.ErrReferenceNotFound
		}
		updates["owner_user_id"] = ownerValue(*p.OwnerUserID)
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
	}

	if err := applyUpdates(ctx, r.db, &opportunityModel{}, id, owner, updates, domain.ErrOpportunityNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id, "")
}

func (r *OpportunityRepository) Delete(ctx context.Context, id, owner string) error {
	return deleteScoped(ctx, r.db, &opportunityModel{}, id, owner, domain.ErrOpportunityNotFound)
}

// SummarizeStages returns count and summed estimated value per stage that
// has at least one opportunity.
func (r *OpportunityRepository) SummarizeStages(ctx context.Context, owner string) ([]domain.StageSummary, error) {
	var rows []stageRow
	err := r.db.WithContext(ctx).
		Model(&opportunityModel{}).
		Scopes(scopeOwner(owner)).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(estimated_value), 0) AS total_value").
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, domain.ErrOpportunityNotFound)
	}

	out := make([]domain.StageSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.StageSummary{Stage: domain.Stage(row.Stage), Count: row.Count, TotalValue: row.TotalValue})
	}
	return out, nil
}
