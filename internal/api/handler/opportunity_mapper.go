package handler

import (
	"strings"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// --- Request → Domain ---

func toOpportunity(req opportunityRequest) (*domain.Opportunity, error) {
	o := &domain.Opportunity{
		ClientID:       strings.TrimSpace(req.ClientID),
		Title:          req.Title,
		Description:    req.Description,
		PrimaryService: domain.ServiceTag(req.PrimaryService),
		Stage:          domain.Stage(req.Stage),
		Source:         req.Source,
		EstimatedValue: req.EstimatedValue,
		Probability:    req.Probability,
		OwnerUserID:    req.OwnerUserID,
	}
	if req.EstimatedCloseDate != nil {
		d, err := parseDate("estimatedCloseDate", *req.EstimatedCloseDate)
		if err != nil {
			return nil, err
		}
		if !d.IsZero() {
			o.EstimatedCloseDate = &d
		}
	}
	return o, nil
}

// toOpportunityPatch treats absent and null fields alike, so a patch cannot
// clear estimatedCloseDate, estimatedValue or probability once set. An empty
// estimatedCloseDate string is also a no-op.
func toOpportunityPatch(req opportunityPatchRequest) (domain.OpportunityPatch, error) {
	patch := domain.OpportunityPatch{
		ClientID:       req.ClientID,
		Title:          req.Title,
		Description:    req.Description,
		Source:         req.Source,
		EstimatedValue: req.EstimatedValue,
		Probability:    req.Probability,
		OwnerUserID:    req.OwnerUserID,
	}
	if req.PrimaryService != nil {
		svc := domain.ServiceTag(*req.PrimaryService)
		patch.PrimaryService = &svc
	}
	if req.Stage != nil {
		st := domain.Stage(*req.Stage)
		patch.Stage = &st
	}
	if req.EstimatedCloseDate != nil {
		d, err := parseDate("estimatedCloseDate", *req.EstimatedCloseDate)
		if err != nil {
			return patch, err
		}
		if !d.IsZero() {
			patch.EstimatedCloseDate = &d
		}
	}
	return patch, nil
}

// --- Domain → Response ---

func toOpportunityResponse(o *domain.Opportunity) opportunityResponse {
	resp := opportunityResponse{
		ID:             o.ID,
		ClientID:       o.ClientID,
		Title:          o.Title,
		Description:    o.Description,
		PrimaryService: string(o.PrimaryService),
		Stage:          string(o.Stage),
		Source:         o.Source,
		EstimatedValue: o.EstimatedValue,
		Probability:    o.Probability,
		OwnerUserID:    o.OwnerUserID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.EstimatedCloseDate != nil {
		d := formatDate(*o.EstimatedCloseDate)
		resp.EstimatedCloseDate = &d
	}
	if o.Client != nil {
		c := toClientResponse(o.Client)
		resp.Client = &c
	}
	return resp
}

func toOpportunityResponses(opps []*domain.Opportunity) []opportunityResponse {
	out := make([]opportunityResponse, len(opps))
	for i, o := range opps {
		out[i] = toOpportunityResponse(o)
	}
	return out
}

func toStageSummaryResponses(rows []domain.StageSummary) []stageSummaryResponse {
	out := make([]stageSummaryResponse, len(rows))
	for i, r := range rows {
		out[i] = stageSummaryResponse{Stage: string(r.Stage), Count: r.Count, TotalValue: r.TotalValue}
	}
	return out
}
