package ports

import (
	"context"

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

// OrderRepository defines persistence operations for orders, including the
// stock-reservation workflow.
type OrderRepository interface {
	// CreateWithReservation persists the order and decrements each referenced
	// product's stock in a single atomic unit. Every decrement is conditional
	// on quantity >= requested; when any item cannot be reserved the whole
	// operation is rolled back and either *domain.InsufficientStockError or
	// domain.ErrProductNotFound is returned.
	CreateWithReservation(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID resolves the order with its owner identity attached.
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// FindAll returns every order with owner identities resolved.
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}
