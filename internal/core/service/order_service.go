package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/gerasmt/productsbackend/internal/api/metrics"
	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// OrderService owns the order lifecycle and the stock-reservation workflow.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, logger: logger}
}

// Create validates every line item against the catalog, persists the order
// with status "received" and reserves stock. The reservation itself is atomic:
// either all items are decremented and the order exists, or nothing changed.
func (s *OrderService) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(input.Items))
	computedSubTotal := 0.0
	for _, item := range input.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Quantity < item.Quantity {
			metrics.StockRejectionsTotal.Inc()
			return nil, &domain.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   item.Quantity,
			}
		}
		computedSubTotal += product.Price * float64(item.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	// Totals are stored as supplied by the caller. A mismatch against the
	// catalog prices is only surfaced in the logs.
	if math.Abs(computedSubTotal-input.SubTotal) > 0.01 {
		s.logger.Debug().
			Float64("claimed_subtotal", input.SubTotal).
			Float64("computed_subtotal", computedSubTotal).
			Msg("caller-supplied subtotal disagrees with catalog prices")
	}

	order := &domain.Order{
		UserID:        input.UserID,
		Items:         items,
		SubTotal:      input.SubTotal,
		IVA:           input.IVA,
		Total:         input.Total,
		TotalProducts: input.TotalProducts,
		PaymentMethod: input.PaymentMethod,
		Status:        domain.StatusReceived,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.orders.CreateWithReservation(ctx, order)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			// Lost the race against a concurrent order since the check above.
			metrics.StockRejectionsTotal.Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create order")
		return nil, err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(input.PaymentMethod).Inc()
	s.logger.Info().
		Str("order_id", created.ID).
		Str("user_id", created.UserID).
		Int("items", len(created.Items)).
		Msg("order created")

	return created, nil
}

// UpdateStatus moves an order to a new status, enforcing ownership and the
// per-role transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, caller ports.Caller, orderID, status string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.canAccess(caller, order) {
		return nil, domain.ErrForbidden
	}

	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if !order.Status.CanTransitionTo(next, caller.Role) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	metrics.OrderStatusChangesTotal.WithLabelValues(status).Inc()
	s.logger.Info().
		Str("order_id", orderID).
		Str("from", string(order.Status)).
		Str("to", status).
		Msg("order status updated")

	return updated, nil
}

// ListAll returns every order with owner identities resolved. Admin only.
func (s *OrderService) ListAll(ctx context.Context, caller ports.Caller) ([]domain.Order, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.orders.FindAll(ctx)
}

// ListByUser returns the caller's own orders, unfiltered by status.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// Get fetches a single order for its owner or an admin.
func (s *OrderService) Get(ctx context.Context, caller ports.Caller, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(caller, order) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// Delete removes an order permanently. Non-admin owners may only delete
// cancelled orders. Stock is never restored.
func (s *OrderService) Delete(ctx context.Context, caller ports.Caller, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !s.canAccess(caller, order) {
		return domain.ErrForbidden
	}
	if caller.Role != domain.RoleAdmin && order.Status != domain.StatusCancelled {
		return domain.ErrOrderNotCancelled
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info().Str("order_id", orderID).Str("deleted_by", caller.ID).Msg("order deleted")
	return nil
}

// canAccess reports whether the caller owns the order or holds the admin role.
func (s *OrderService) canAccess(caller ports.Caller, order *domain.Order) bool {
	return order.UserID == caller.ID || caller.Role == domain.RoleAdmin
}
