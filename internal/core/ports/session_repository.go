package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// SessionRepository defines persistence operations for sessions. Returned
// sessions always carry their client.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id, owner string) (*domain.Session, error)
	// List returns matching sessions ordered by date, most recent first.
	List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
	Update(ctx context.Context, id, owner string, patch domain.SessionPatch) (*domain.Session, error)
	Delete(ctx context.Context, id, owner string) error
}
