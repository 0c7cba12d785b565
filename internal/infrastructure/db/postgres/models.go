package postgres

import (
	"time"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

type userModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	Active       bool   `gorm:"not null"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type clientModel struct {
	ID                 string   `gorm:"type:uuid;primaryKey"`
	Name               string   `gorm:"not null"`
	Email              string   `gorm:"not null"`
	Phone              string   `gorm:"not null"`
	Company            string   `gorm:"not null"`
	InterestedServices []string `gorm:"type:jsonb;serializer:json;not null"`
	Status             string   `gorm:"column:estado;not null"`
	Notes              string   `gorm:"not null"`
	OwnerUserID        *string  `gorm:"type:uuid"`
	CreatedAt          time.Time
}

func (clientModel) TableName() string { return "clients" }

type sessionModel struct {
	ID          string       `gorm:"type:uuid;primaryKey"`
	ClientID    string       `gorm:"type:uuid;not null"`
	Client      *clientModel `gorm:"foreignKey:ClientID"`
	Date        time.Time    `gorm:"column:session_date;type:date;not null"`
	Time        string       `gorm:"column:start_time;not null"`
	Service     string       `gorm:"not null"`
	Status      string       `gorm:"column:estado;not null"`
	Notes       string       `gorm:"not null"`
	MeetingURL  string       `gorm:"column:meeting_url;not null"`
	OwnerUserID *string      `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (sessionModel) TableName() string { return "sessions" }

type opportunityModel struct {
	ID                 string       `gorm:"type:uuid;primaryKey"`
	ClientID           string       `gorm:"type:uuid;not null"`
	Client             *clientModel `gorm:"foreignKey:ClientID"`
	Title              string       `gorm:"not null"`
	Description        string       `gorm:"not null"`
	PrimaryService     string       `gorm:"not null"`
	Stage              string       `gorm:"not null"`
	Source             string       `gorm:"not null"`
	EstimatedValue     *float64
	Probability        *int
	EstimatedCloseDate *time.Time `gorm:"type:date"`
	OwnerUserID        *string    `gorm:"type:uuid"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (opportunityModel) TableName() string { return "opportunities" }

// stageRow is the shape of the pipeline aggregation query.
type stageRow struct {
	Stage      string
	Count      int64
	TotalValue float64
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func userFromDomain(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}

func clientFromDomain(c *domain.Client) *clientModel {
	services := make([]string, 0, len(c.InterestedServices))
	for _, s := range c.InterestedServices {
		services = append(services, string(s))
	}
	return &clientModel{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		Company:            c.Company,
		InterestedServices: services,
		Status:             string(c.Status),
		Notes:              c.Notes,
		OwnerUserID:        c.OwnerUserID,
		CreatedAt:          c.CreatedAt,
	}
}

func (m *clientModel) toDomain() *domain.Client {
	if m == nil {
		return nil
	}
	services := make([]domain.ServiceTag, 0, len(m.InterestedServices))
	for _, s := range m.InterestedServices {
		services = append(services, domain.ServiceTag(s))
	}
	return &domain.Client{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Company:            m.Company,
		InterestedServices: services,
		Status:             domain.ClientStatus(m.Status),
		Notes:              m.Notes,
		OwnerUserID:        m.OwnerUserID,
		CreatedAt:          m.CreatedAt,
	}
}

func sessionFromDomain(s *domain.Session) *sessionModel {
	return &sessionModel{
		ID:          s.ID,
		ClientID:    s.ClientID,
		Date:        s.Date,
		Time:        s.Time,
		Service:     string(s.Service),
		Status:      string(s.Status),
		Notes:       s.Notes,
		MeetingURL:  s.MeetingURL,
		OwnerUserID: s.OwnerUserID,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *sessionModel) toDomain() *domain.Session {
	return &domain.Session{
		ID:          m.ID,
		ClientID:    m.ClientID,
		Client:      m.Client.toDomain(),
		Date:        m.Date,
		Time:        m.Time,
		Service:     domain.ServiceTag(m.Service),
		Status:      domain.SessionStatus(m.Status),
		Notes:       m.Notes,
		MeetingURL:  m.MeetingURL,
		OwnerUserID: m.OwnerUserID,
		CreatedAt:   m.CreatedAt,
	}
}

func opportunityFromDomain(o *domain.Opportunity) *opportunityModel {
	return &opportunityModel{
		ID:                 o.ID,
		ClientID:           o.ClientID,
		Title:              o.Title,
		Description:        o.Description,
		PrimaryService:     string(o.PrimaryService),
		Stage:              string(o.Stage),
		Source:             o.Source,
		EstimatedValue:     o.EstimatedValue,
		Probability:        o.Probability,
		EstimatedCloseDate: o.EstimatedCloseDate,
		OwnerUserID:        o.OwnerUserID,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func (m *opportunityModel) toDomain() *domain.Opportunity {
	return &domain.Opportunity{
		ID:                 m.ID,
		ClientID:           m.ClientID,
		Client:             m.Client.toDomain(),
		Title:              m.Title,
		Description:        m.Description,
		PrimaryService:     domain.ServiceTag(m.PrimaryService),
		Stage:              domain.Stage(m.Stage),
		Source:             m.Source,
		EstimatedValue:     m.EstimatedValue,
		Probability:        m.Probability,
		EstimatedCloseDate: m.EstimatedCloseDate,
		OwnerUserID:        m.OwnerUserID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ownerValue turns the patch convention (empty string clears) into a column value.
func ownerValue(owner string) any {
	if owner == "" {
		return nil
	}
	return owner
}
