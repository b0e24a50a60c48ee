package domain

import (
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email already registered")
var ErrRoleNotConfigured = errors.New("default user role is not configured")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthorized = errors.New("authorization denied")

var ErrProductNotFound = errors.New("product not found")
var ErrOrderNotFound = errors.New("order not found")
var ErrForbidden = errors.New("access forbidden")

var ErrInvalidStatus = errors.New("invalid order status")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotCancelled = errors.New("only cancelled orders can be deleted")

// InsufficientStockError reports a stock check failure for a single product.
// It identifies the offending product and both quantities so the client can
// correct the order.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. available: %d, requested: %d",
		e.ProductName, e.Available, e.Requested)
}
