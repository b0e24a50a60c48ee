package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gerasmt/productsbackend/internal/api/metrics"
	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// ProductService implements catalog management. Image bytes are handed to the
// external asset host; the catalog only keeps the returned URL.
type ProductService struct {
	repo   ports.ProductRepository
	assets ports.AssetStore
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, assets ports.AssetStore, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, assets: assets, logger: logger}
}

// List returns the catalog scoped by role: admins see everything, other
// callers only their own products.
func (s *ProductService) List(ctx context.Context, callerID, role string) ([]domain.Product, error) {
	ownerID := callerID
	if role == domain.RoleAdmin {
		ownerID = ""
	}
	return s.repo.List(ctx, ownerID)
}

// ListAll returns every product for the storefront.
func (s *ProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx, "")
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create uploads the image first; a product record is only written once the
// asset host has accepted the file.
func (s *ProductService) Create(ctx context.Context, callerID string, input ports.ProductInput, image ports.ImageUpload) (*domain.Product, error) {
	url, err := s.assets.Upload(ctx, image)
	if err != nil {
		s.logger.Error().Err(err).Msg("image upload failed")
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:      input.Name,
		Price:     input.Price,
		Quantity:  input.Quantity,
		ImageURL:  url,
		UserID:    callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreatedTotal.Inc()
	s.logger.Info().Str("product_id", created.ID).Str("user_id", callerID).Msg("product created")
	return created, nil
}

// Update rewrites the product fields without touching the hosted image. An
// explicit imageURL keeps the existing reference when empty.
func (s *ProductService) Update(ctx context.Context, callerID, id string, input ports.ProductInput, imageURL string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Quantity = input.Quantity
	if imageURL != "" {
		product.ImageURL = imageURL
	}
	product.UserID = callerID
	product.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, product)
}

// UpdateWithImage swaps the hosted image before rewriting the record. The old
// asset must be deleted first; when that fails the product stays untouched.
func (s *ProductService) UpdateWithImage(ctx context.Context, callerID, id string, input ports.ProductInput, image ports.ImageUpload) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.assets.Delete(ctx, product.ImageURL); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete previous image")
		return nil, err
	}

	url, err := s.assets.Upload(ctx, image)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Quantity = input.Quantity
	product.ImageURL = url
	product.UserID = callerID
	product.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, product)
}

// Delete removes the hosted image and then the record. Fail-closed: the
// product record survives when the asset host refuses the deletion.
func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.assets.Delete(ctx, product.ImageURL); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("image deletion failed, keeping product")
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return product, nil
}
