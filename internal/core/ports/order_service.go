package ports

import (
	"context"

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

// OrderItemInput is a single line item as submitted by the client.
type OrderItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

// CreateOrderInput carries all data for order placement. The totals are
// caller-supplied and stored as-is.
type CreateOrderInput struct {
	UserID        string
	Items         []OrderItemInput
	SubTotal      float64
	IVA           float64
	Total         float64
	TotalProducts int
	PaymentMethod string
}

// Caller identifies the authenticated actor performing an order operation.
type Caller struct {
	ID   string
	Role string
}

// OrderService defines the order lifecycle use cases.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, caller Caller, orderID, status string) (*domain.Order, error)
	// ListAll is restricted to admins.
	ListAll(ctx context.Context, caller Caller) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, caller Caller, orderID string) (*domain.Order, error)
	Delete(ctx context.Context, caller Caller, orderID string) error
}
