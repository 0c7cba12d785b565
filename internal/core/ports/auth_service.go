package ports

import (
	"context"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// CreateUserInput carries the fields needed to seed a staff account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}
