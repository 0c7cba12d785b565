package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// SessionRepository implements ports.SessionRepository using PostgreSQL.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) ports.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	if !validID(s.ClientID) || (s.OwnerUserID != nil && !validID(*s.OwnerUserID)) {
		return domain.ErrReferenceNotFound
	}
	return translate(r.db.WithContext(ctx).Omit("Client").Create(sessionFromDomain(s)).Error, domain.ErrSessionNotFound)
}

func (r *SessionRepository) FindByID(ctx context.Context, id, owner string) (*domain.Session, error) {
	if !validID(id) {
		return nil, domain.ErrSessionNotFound
	}

	var m sessionModel
	err := r.db.WithContext(ctx).
		Preload("Client").
		Scopes(scopeOwner(owner)).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err, domain.ErrSessionNotFound)
	}
	return m.toDomain(), nil
}

// List returns matching sessions with their client, most recent date first.
func (r *SessionRepository) List(ctx context.Context, f domain.SessionFilter) ([]*domain.Session, error) {
	q := r.db.WithContext(ctx).Preload("Client").Scopes(scopeOwner(f.OwnerUserID))
	if f.ClientID != "" {
		if !validID(f.ClientID) {
			return []*domain.Session{}, nil
		}
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("estado = ?", string(f.Status))
	}
	if !f.From.IsZero() {
		q = q.Where("session_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("session_date <= ?", f.To)
	}

	var rows []sessionModel
	if err := q.Order("session_date DESC, start_time DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrSessionNotFound)
	}

	out := make([]*domain.Session, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *SessionRepository) Update(ctx context.Context, id, owner string, p domain.SessionPatch) (*domain.Session, error) {
	if !validID(id) {
		return nil, domain.ErrSessionNotFound
	}

	updates := map[string]any{}
	if p.ClientID != nil {
		if !validID(*p.ClientID) {
			return nil, domain.ErrReferenceNotFound
		}
		updates["client_id"] = *p.ClientID
	}
	if p.Date != nil {
		updates["session_date"] = *p.Date
	}
	if p.Time != nil {
		updates["start_time"] = *p.Time
	}
	if p.Service != nil {
		updates["service"] = string(*p.Service)
	}
	if p.Status != nil {
		updates["estado"] = string(*p.Status)
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.MeetingURL != nil {
		updates["meeting_url"] = *p.MeetingURL
	}
	if p.OwnerUserID != nil {
		if *p.OwnerUserID != "" && !validID(*p.OwnerUserID) {
			return nil, domain.ErrReferenceNotFound
		}
		updates["owner_user_id"] = ownerValue(*p.OwnerUserID)
	}

	if err := applyUpdates(ctx, r.db, &sessionModel{}, id, owner, updates, domain.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id, "")
}

func (r *SessionRepository) Delete(ctx context.Context, id, owner string) error {
	return deleteScoped(ctx, r.db, &sessionModel{}, id, owner, domain.ErrSessionNotFound)
}
