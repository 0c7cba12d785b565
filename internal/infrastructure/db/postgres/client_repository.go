package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// ClientRepository implements ports.ClientRepository using PostgreSQL.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ports.ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	if c.OwnerUserID != nil && !validID(*c.OwnerUserID) {
		return domain.ErrReferenceNotFound
	}
	return translate(r.db.WithContext(ctx).Create(clientFromDomain(c)).Error, domain.ErrClientNotFound)
}

func (r *ClientRepository) FindByID(ctx context.Context, id, owner string) (*domain.Client, error) {
	if !validID(id) {
		return nil, domain.ErrClientNotFound
	}

	var m clientModel
	err := r.db.WithContext(ctx).
		Scopes(scopeOwner(owner)).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err, domain.ErrClientNotFound)
	}
	return m.toDomain(), nil
}

// List returns matching clients, newest first. Search matches name, email
// or company case-insensitively.
func (r *ClientRepository) List(ctx context.Context, f domain.ClientFilter) ([]*domain.Client, error) {
	q := r.db.WithContext(ctx).Scopes(scopeOwner(f.OwnerUserID))
	if f.Status != "" {
		q = q.Where("estado = ?", string(f.Status))
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ?", like, like, like)
	}

	var rows []clientModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrClientNotFound)
	}

	out := make([]*domain.Client, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *ClientRepository) Update(ctx context.Context, id, owner string, p domain.ClientPatch) (*domain.Client, error) {
	if !validID(id) {
		return nil, domain.ErrClientNotFound
	}

	updates := map[string]any{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.Company != nil {
		updates["company"] = *p.Company
	}
	if p.InterestedServices != nil {
		services := make([]string, 0, len(*p.InterestedServices))
		for _, s := range *p.InterestedServices {
			services = append(services, string(s))
		}
		updates["interested_services"] = gorm.Expr("?::jsonb", mustJSON(services))
	}
	if p.Status != nil {
		updates["estado"] = string(*p.Status)
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.OwnerUserID != nil {
		if *p.OwnerUserID != "" && !validID(*p.OwnerUserID) {
			return nil, domain.ErrReferenceNotFound
		}
		updates["owner_user_id"] = ownerValue(*p.OwnerUserID)
	}

	if err := applyUpdates(ctx, r.db, &clientModel{}, id, owner, updates, domain.ErrClientNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id, "")
}

func (r *ClientRepository) Delete(ctx context.Context, id, owner string) error {
	return deleteScoped(ctx, r.db, &clientModel{}, id, owner, domain.ErrClientNotFound)
}
