package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

type stubProductRepository struct {
	byID map[string]*domain.Product
}

func newStubProductRepository(products ...*domain.Product) *stubProductRepository {
	r := &stubProductRepository{byID: make(map[string]*domain.Product)}
	for _, p := range products {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	stored := *p
	stored.ID = fmt.Sprintf("product-%d", len(r.byID)+1)
	r.byID[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *stubProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepository) List(_ context.Context, ownerID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.byID {
		if ownerID == "" || p.UserID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepository) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	stored := *p
	r.byID[p.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *stubProductRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

// stubOrderRepository reserves stock against a shared stubProductRepository
// with the same all-or-nothing contract as the real store.
type stubOrderRepository struct {
	products *stubProductRepository
	byID     map[string]*domain.Order
	nextID   int
	// createErr, when set, fails CreateWithReservation without touching stock.
	createErr error
}

func newStubOrderRepository(products *stubProductRepository) *stubOrderRepository {
	return &stubOrderRepository{products: products, byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepository) CreateWithReservation(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, item := range o.Items {
		p, ok := r.products.byID[item.ProductID]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		if p.Quantity < item.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductName: p.Name,
				Available:   p.Quantity,
				Requested:   item.Quantity,
			}
		}
	}
	for _, item := range o.Items {
		r.products.byID[item.ProductID].Quantity -= item.Quantity
	}
	r.nextID++
	stored := *o
	stored.ID = fmt.Sprintf("order-%d", r.nextID)
	r.byID[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *stubOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepository) FindByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepository) FindAll(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.byID, id)
	return nil
}

func newOrderService(products ...*domain.Product) (*OrderService, *stubOrderRepository, *stubProductRepository) {
	productRepo := newStubProductRepository(products...)
	orderRepo := newStubOrderRepository(productRepo)
	return NewOrderService(orderRepo, productRepo, zerolog.Nop()), orderRepo, productRepo
}

func TestOrderService_Create_ReservesStock(t *testing.T) {
	svc, orders, products := newOrderService(
		&domain.Product{ID: "p1", Name: "keyboard", Price: 50, Quantity: 5},
	)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		UserID:        "u1",
		Items:         []ports.OrderItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: 50, Subtotal: 100}},
		SubTotal:      100,
		IVA:           16,
		Total:         116,
		TotalProducts: 2,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.ID == "" {
		t.Error("expected created order to have an id")
	}
	if order.Status != domain.StatusReceived {
		t.Errorf("expected status %q, got %q", domain.StatusReceived, order.Status)
	}
	if got := products.byID["p1"].Quantity; got != 3 {
		t.Errorf("expected stock 3 after reservation, got %d", got)
	}
	if len(orders.byID) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(orders.byID))
	}
}

func TestOrderService_Create_KeepsCallerTotals(t *testing.T) {
	svc, _, _ := newOrderService(
		&domain.Product{ID: "p1", Name: "keyboard", Price: 50, Quantity: 5},
	)

	// Claimed totals disagree with catalog prices; they must be stored as-is.
	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		UserID:   "u1",
		Items:    []ports.OrderItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: 1, Subtotal: 1}},
		SubTotal: 1,
		Total:    1,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.SubTotal != 1 || order.Total != 1 {
		t.Errorf("expected caller totals to be kept, got subtotal=%v total=%v", order.SubTotal, order.Total)
	}
}

func TestOrderService_Create_UnknownProduct(t *testing.T) {
	svc, orders, products := newOrderService(
		&domain.Product{ID: "p1", Name: "keyboard", Price: 50, Quantity: 5},
	)

	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		UserID: "u1",
		Items: []ports.OrderItemInput{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "missing", Quantity: 1},
		},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if got := products.byID["p1"].Quantity; got != 5 {
		t.Errorf("stock must be untouched on failure, got %d", got)
	}
	if len(orders.byID) != 0 {
		t.Error("no order must be created on failure")
	}
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	svc, orders, products := newOrderService(
		&domain.Product{ID: "p1", Name: "keyboard", Price: 50, Quantity: 2},
		&domain.Product{ID: "p2", Name: "mouse", Price: 20, Quantity: 10},
	)

	// The first offending item is reported, later items are never reserved.
	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		UserID: "u1",
		Items: []ports.OrderItemInput{
			{ProductID: "p1", Quantity: 3},
			{ProductID: "p2", Quantity: 1},
		},
	})

	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductName != "keyboard" || stockErr.Available != 2 || stockErr.Requested != 3 {
		t.Errorf("unexpected error detail: %+v", stockErr)
	}
	want := "insufficient stock for keyboard. available: 2, requested: 3"
	if stockErr.Error() != want {
		t.Errorf("expected message %q, got %q", want, stockErr.Error())
	}
	if products.byID["p1"].Quantity != 2 || products.byID["p2"].Quantity != 10 {
		t.Error("stock must be untouched on failure")
	}
	if len(orders.byID) != 0 {
		t.Error("no order must be created on failure")
	}
}

func TestOrderService_Create_LostReservationRace(t *testing.T) {
	svc, orders, _ := newOrderService(
		&domain.Product{ID: "p1", Name: "keyboard", Price: 50, Quantity: 5},
	)
	// The pre-check passes but the reservation itself loses to a concurrent
	// order and reports the shortage.
	orders.createErr = &domain.InsufficientStockError{ProductName: "keyboard", Available: 1, Requested: 2}

	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		UserID: "u1",
		Items:  []ports.OrderItemInput{{ProductID: "p1", Quantity: 2}},
	})

	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 1 {
		t.Errorf("expected repository error to pass through, got %+v", stockErr)
	}
}

func seedOrder(orders *stubOrderRepository, userID string, status domain.OrderStatus) string {
	orders.nextID++
	id := fmt.Sprintf("order-%d", orders.nextID)
	orders.byID[id] = &domain.Order{ID: id, UserID: userID, Status: status}
	return id
}

func TestOrderService_UpdateStatus(t *testing.T) {
	owner := ports.Caller{ID: "u1", Role: domain.RoleUser}
	stranger := ports.Caller{ID: "u2", Role: domain.RoleUser}
	admin := ports.Caller{ID: "boss", Role: domain.RoleAdmin}

	t.Run("owner cancels own order", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusReceived)

		updated, err := svc.UpdateStatus(context.Background(), owner, id, "cancelled")
		if err != nil {
			t.Fatalf("UpdateStatus returned error: %v", err)
		}
		if updated.Status != domain.StatusCancelled {
			t.Errorf("expected cancelled, got %q", updated.Status)
		}
	})

	t.Run("stranger is rejected before validation", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusReceived)

		if _, err := svc.UpdateStatus(context.Background(), stranger, id, "cancelled"); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if orders.byID[id].Status != domain.StatusReceived {
			t.Error("status must be unchanged")
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusReceived)

		if _, err := svc.UpdateStatus(context.Background(), owner, id, "shipped"); !errors.Is(err, domain.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("owner cannot cancel delivered order", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusDelivered)

		if _, err := svc.UpdateStatus(context.Background(), owner, id, "cancelled"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if orders.byID[id].Status != domain.StatusDelivered {
			t.Error("status must be unchanged")
		}
	})

	t.Run("admin cancels delivered order", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusDelivered)

		updated, err := svc.UpdateStatus(context.Background(), admin, id, "cancelled")
		if err != nil {
			t.Fatalf("UpdateStatus returned error: %v", err)
		}
		if updated.Status != domain.StatusCancelled {
			t.Errorf("expected cancelled, got %q", updated.Status)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		svc, _, _ := newOrderService()
		if _, err := svc.UpdateStatus(context.Background(), owner, "nope", "cancelled"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderService_Get(t *testing.T) {
	svc, orders, _ := newOrderService()
	id := seedOrder(orders, "u1", domain.StatusReceived)

	if _, err := svc.Get(context.Background(), ports.Caller{ID: "u1", Role: domain.RoleUser}, id); err != nil {
		t.Errorf("owner must read own order: %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Caller{ID: "boss", Role: domain.RoleAdmin}, id); err != nil {
		t.Errorf("admin must read any order: %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Caller{ID: "u2", Role: domain.RoleUser}, id); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Caller{ID: "u1", Role: domain.RoleUser}, "nope"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListAll(t *testing.T) {
	svc, orders, _ := newOrderService()
	seedOrder(orders, "u1", domain.StatusReceived)
	seedOrder(orders, "u2", domain.StatusDelivered)

	all, err := svc.ListAll(context.Background(), ports.Caller{ID: "boss", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders, got %d", len(all))
	}

	if _, err := svc.ListAll(context.Background(), ports.Caller{ID: "u1", Role: domain.RoleUser}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestOrderService_ListByUser(t *testing.T) {
	svc, orders, _ := newOrderService()
	seedOrder(orders, "u1", domain.StatusReceived)
	seedOrder(orders, "u1", domain.StatusCancelled)
	seedOrder(orders, "u2", domain.StatusReceived)

	own, err := svc.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("expected 2 orders for u1, got %d", len(own))
	}
	for _, o := range own {
		if o.UserID != "u1" {
			t.Errorf("listing leaked order of %q", o.UserID)
		}
	}
}

func TestOrderService_Delete(t *testing.T) {
	owner := ports.Caller{ID: "u1", Role: domain.RoleUser}
	admin := ports.Caller{ID: "boss", Role: domain.RoleAdmin}

	t.Run("owner must cancel first", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusReceived)

		if err := svc.Delete(context.Background(), owner, id); !errors.Is(err, domain.ErrOrderNotCancelled) {
			t.Fatalf("expected ErrOrderNotCancelled, got %v", err)
		}
		if _, ok := orders.byID[id]; !ok {
			t.Error("order must still exist")
		}
	})

	t.Run("owner deletes cancelled order", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusCancelled)

		if err := svc.Delete(context.Background(), owner, id); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if _, err := svc.Get(context.Background(), owner, id); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Errorf("expected ErrOrderNotFound after delete, got %v", err)
		}
	})

	t.Run("admin deletes regardless of status", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusDelivered)

		if err := svc.Delete(context.Background(), admin, id); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, orders, _ := newOrderService()
		id := seedOrder(orders, "u1", domain.StatusCancelled)

		if err := svc.Delete(context.Background(), ports.Caller{ID: "u2", Role: domain.RoleUser}, id); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestOrderService_Lifecycle(t *testing.T) {
	svc, _, products := newOrderService(
		&domain.Product{ID: "p1", Name: "keyboard", Price: 50, Quantity: 5},
	)
	owner := ports.Caller{ID: "u1", Role: domain.RoleUser}
	ctx := context.Background()

	order, err := svc.Create(ctx, ports.CreateOrderInput{
		UserID:   "u1",
		Items:    []ports.OrderItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: 50, Subtotal: 100}},
		SubTotal: 100,
		Total:    116,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := products.byID["p1"].Quantity; got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}

	if _, err := svc.UpdateStatus(ctx, owner, order.ID, "cancelled"); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if err := svc.Delete(ctx, owner, order.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, owner, order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	// Deleting never restores stock.
	if got := products.byID["p1"].Quantity; got != 3 {
		t.Errorf("expected stock to remain 3, got %d", got)
	}
}
