package ports

import (
	"context"

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

// ProductInput carries the mutable product fields from the transport layer.
type ProductInput struct {
	Name     string
	Price    float64
	Quantity int
}

// ProductService defines use-case operations for the catalog.
type ProductService interface {
	// List is role-scoped: admins see every product, other callers only
	// their own.
	List(ctx context.Context, callerID, role string) ([]domain.Product, error)
	// ListAll returns the whole catalog for the storefront, regardless of role.
	ListAll(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, callerID string, input ProductInput, image ImageUpload) (*domain.Product, error)
	Update(ctx context.Context, callerID, id string, input ProductInput, imageURL string) (*domain.Product, error)
	// UpdateWithImage replaces the hosted image: the previous asset is deleted
	// first and the update is aborted if that deletion fails.
	UpdateWithImage(ctx context.Context, callerID, id string, input ProductInput, image ImageUpload) (*domain.Product, error)
	// Delete removes the product and its hosted image. The product record is
	// kept when the image deletion fails.
	Delete(ctx context.Context, id string) (*domain.Product, error)
}
