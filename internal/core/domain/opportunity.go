package domain

import (
	"slices"
	"time"
)

// Stage is the position of an opportunity in the sales pipeline. Transitions
// are free-form: any stage may be set from any other.
type Stage string

const (
	StageNew         Stage = "nuevo"
	StageQualified   Stage = "calificado"
	StageProposal    Stage = "propuesta"
	StageNegotiation Stage = "negociacion"
	StageWon         Stage = "ganado"
	StageLost        Stage = "perdido"
)

var stages = []Stage{StageNew, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost}

func (s Stage) Valid() bool {
	return slices.Contains(stages, s)
}

// Stages returns the pipeline stages in board order.
func Stages() []Stage {
	return slices.Clone(stages)
}

// Opportunity is a sales-pipeline record tied to exactly one client.
type Opportunity struct {
	ID                 string
	ClientID           string
	Client             *Client
	Title              string
	Description        string
	PrimaryService     ServiceTag
	Stage              Stage
	Source             string
	EstimatedValue     *float64
	Probability        *int
	EstimatedCloseDate *time.Time
	OwnerUserID        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OpportunityPatch struct {
	ClientID           *string
	Title              *string
	Description        *string
	PrimaryService     *ServiceTag
	Stage              *Stage
	Source             *string
	EstimatedValue     *float64
	Probability        *int
	EstimatedCloseDate *time.Time
	OwnerUserID        *string
}

type OpportunityFilter struct {
	OwnerUserID string
	Stage       Stage
	ClientID    string
}

// StageSummary aggregates the opportunities sitting in one stage.
type StageSummary struct {
	Stage      Stage
	Count      int64
	TotalValue float64
}
