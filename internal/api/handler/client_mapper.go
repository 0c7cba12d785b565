package handler

import (
	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// --- Request → Domain ---

func toClient(req clientRequest) *domain.Client {
	return &domain.Client{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Company:            req.Company,
		InterestedServices: toServiceTags(req.InterestedServices),
		Status:             domain.ClientStatus(req.Estado),
		Notes:              req.Notes,
		OwnerUserID:        req.OwnerUserID,
	}
}

func toClientPatch(req clientPatchRequest) domain.ClientPatch {
	patch := domain.ClientPatch{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Notes:       req.Notes,
		OwnerUserID: req.OwnerUserID,
	}
	if req.InterestedServices != nil {
		tags := toServiceTags(*req.InterestedServices)
		patch.InterestedServices = &tags
	}
	if req.Estado != nil {
		st := domain.ClientStatus(*req.Estado)
		patch.Status = &st
	}
	return patch
}

func toServiceTags(in []string) []domain.ServiceTag {
	out := make([]domain.ServiceTag, len(in))
	for i, s := range in {
		out[i] = domain.ServiceTag(s)
	}
	return out
}

// --- Domain → Response ---

func toClientResponse(c *domain.Client) clientResponse {
	services := make([]string, len(c.InterestedServices))
	for i, t := range c.InterestedServices {
		services[i] = string(t)
	}
	return clientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		Company:            c.Company,
		InterestedServices: services,
		Estado:             string(c.Status),
		Notes:              c.Notes,
		OwnerUserID:        c.OwnerUserID,
		CreatedAt:          c.CreatedAt,
	}
}

func toClientResponses(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, len(clients))
	for i, c := range clients {
		out[i] = toClientResponse(c)
	}
	return out
}

func toImportResponse(res *ports.ImportResult) importResponse {
	rejected := make([]importRejectionResponse, len(res.Rejected))
	for i, r := range res.Rejected {
		rejected[i] = importRejectionResponse{Row: r.Row, Reason: r.Reason, Raw: r.Raw}
	}
	return importResponse{
		Accepted: toClientResponses(res.Accepted),
		Rejected: rejected,
	}
}
