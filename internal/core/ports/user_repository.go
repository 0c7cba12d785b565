package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// UserRepository defines the persistence needed for staff accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
