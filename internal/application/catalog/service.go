// Package catalog provides product management functionality.
package catalog

import (
	"context"

	"github.com/ventasync/ventasync/internal/application/ports"
	"github.com/ventasync/ventasync/internal/domain/catalog"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
)

// Service implements the business rules for the product catalog.
// Validation happens here; records that reach the repository are
// always well-formed.
type Service struct {
	products ports.ProductRepositoryPort
	logger   *logging.Logger
}

// NewService creates a new catalog service.
func NewService(products ports.ProductRepositoryPort, logger *logging.Logger) *Service {
	return &Service{
		products: products,
		logger:   logger,
	}
}

// CreateProduct validates and persists a new product.
func (s *Service) CreateProduct(ctx context.Context, name string, price float64) (*catalog.Product, error) {
	product, err := catalog.NewProduct(name, price)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// ListProducts returns all active products.
func (s *Service) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	return s.products.GetAll(ctx)
}

// ListPendingProducts returns every product record, active or
// soft-deleted, that still awaits synchronization.
func (s *Service) ListPendingProducts(ctx context.Context) ([]*catalog.Product, error) {
	return s.products.GetPending(ctx)
}

// GetProduct returns one active product.
func (s *Service) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return s.products.GetByID(ctx, id, false)
}

// UpdateProduct applies a validated patch to an active product.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ports.ProductPatch) (*catalog.Product, error) {
	if patch.Name != nil {
		if err := catalog.ValidateName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Price != nil {
		if err := catalog.ValidatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product updated", "product_id", id)
	return updated, nil
}

// DeleteProduct soft-deletes a product. Sales referencing the product
// are left in place; reads that join on the product surface it as
// absent. Deleting an already-deleted product is a no-op.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// PendingCount returns how many product records await synchronization.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.products.GetPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}
