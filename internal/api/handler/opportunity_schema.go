package handler

import "time"

type opportunityRequest struct {
	ClientID           string   `json:"clientId"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	PrimaryService     string   `json:"primaryService"`
	Stage              string   `json:"stage"`
	Source             string   `json:"source"`
	EstimatedValue     *float64 `json:"estimatedValue"`
	Probability        *int     `json:"probability"`
	EstimatedCloseDate *string  `json:"estimatedCloseDate"`
	OwnerUserID        *string  `json:"ownerUserId"`
}

type opportunityPatchRequest struct {
	ClientID           *string  `json:"clientId"`
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	PrimaryService     *string  `json:"primaryService"`
	Stage              *string  `json:"stage"`
	Source             *string  `json:"source"`
	EstimatedValue     *float64 `json:"estimatedValue"`
	Probability        *int     `json:"probability"`
	EstimatedCloseDate *string  `json:"estimatedCloseDate"`
	OwnerUserID        *string  `json:"ownerUserId"`
}

type moveStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type opportunityResponse struct {
	ID                 string          `json:"id"`
	ClientID           string          `json:"clientId"`
	Client             *clientResponse `json:"client,omitempty"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	PrimaryService     string          `json:"primaryService"`
	Stage              string          `json:"stage"`
	Source             string          `json:"source"`
	EstimatedValue     *float64        `json:"estimatedValue"`
	Probability        *int            `json:"probability"`
	EstimatedCloseDate *string         `json:"estimatedCloseDate"`
	OwnerUserID        *string         `json:"ownerUserId"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type stageSummaryResponse struct {
	Stage      string  `json:"stage"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
}
