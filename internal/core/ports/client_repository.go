package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// ClientRepository defines persistence operations for clients.
// Every owner argument is an ownership scope: empty = unrestricted.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id, owner string) (*domain.Client, error)
	// List returns matching clients, newest first.
	List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, id, owner string, patch domain.ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id, owner string) error
}
