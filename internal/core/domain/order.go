package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
	StatusDelivered OrderStatus = "delivered"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusConfirmed, StatusCancelled, StatusDelivered:
		return true
	}
	return false
}

// ownerTransitions defines the statuses a non-admin owner may set, per current
// status. Owners may move an order anywhere except cancelling one that has
// already been delivered. Admins are not restricted by this table.
var ownerTransitions = map[OrderStatus][]OrderStatus{
	StatusReceived:  {StatusReceived, StatusConfirmed, StatusCancelled, StatusDelivered},
	StatusConfirmed: {StatusReceived, StatusConfirmed, StatusCancelled, StatusDelivered},
	StatusCancelled: {StatusReceived, StatusConfirmed, StatusCancelled, StatusDelivered},
	StatusDelivered: {StatusReceived, StatusConfirmed, StatusDelivered},
}

// CanTransitionTo reports whether an actor with the given role may move an
// order from status s to next. The next status must itself be valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus, role string) bool {
	if !next.Valid() {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	for _, allowed := range ownerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderOwner is the reduced owner view attached when an order is read with
// its user resolved (admin listings and per-order fetch).
type OrderOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Order is the core aggregate root. Totals are stored exactly as supplied by
// the caller at creation time and are never recomputed.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user"`
	Items         []OrderItem `json:"items"`
	SubTotal      float64     `json:"subTotal"`
	IVA           float64     `json:"iva"`
	Total         float64     `json:"total"`
	TotalProducts int         `json:"totalProducts"`
	PaymentMethod string      `json:"paymentMethod"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	Owner         *OrderOwner `json:"owner,omitempty"`
}
