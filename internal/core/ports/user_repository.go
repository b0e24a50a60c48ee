package ports

import (
	"context"

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

// UserRepository defines the interface for user identity persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
