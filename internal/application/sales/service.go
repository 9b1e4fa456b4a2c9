// Package sales provides sale recording functionality.
package sales

import (
	"context"
	"fmt"

	"github.com/ventasync/ventasync/internal/application/ports"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/sales"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
)

// Service implements the business rules for recording sales. The total
// is always derived here from the referenced product's current price;
// callers never supply it.
type Service struct {
	sales    ports.SaleRepositoryPort
	products ports.ProductRepositoryPort
	logger   *logging.Logger
}

// NewService creates a new sales service.
func NewService(saleRepo ports.SaleRepositoryPort, productRepo ports.ProductRepositoryPort, logger *logging.Logger) *Service {
	return &Service{
		sales:    saleRepo,
		products: productRepo,
		logger:   logger,
	}
}

// CreateSale validates and records a sale of an active product. The
// referenced product must exist and not be soft-deleted; its current
// price fixes the sale total.
func (s *Service) CreateSale(ctx context.Context, productID string, quantity int) (*sales.Sale, error) {
	if quantity <= 0 {
		return nil, domainErrors.NewError(domainErrors.CodeValidation,
			fmt.Sprintf("sale quantity must be greater than zero, got %d", quantity), nil)
	}

	product, err := s.products.GetByID(ctx, productID, false)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil, domainErrors.NewError(domainErrors.CodeValidation,
				fmt.Sprintf("product %s does not exist or has been deleted", productID), err)
		}
		return nil, err
	}

	sale, err := sales.NewSale(product.ID, quantity, product.Price)
	if err != nil {
		return nil, err
	}

	created, err := s.sales.Create(ctx, sale)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "sale recorded",
		"sale_id", created.ID, "product_id", product.ID, "quantity", quantity, "total", created.Total)
	return created, nil
}

// ListSales returns all active sales.
func (s *Service) ListSales(ctx context.Context) ([]*sales.Sale, error) {
	return s.sales.GetAll(ctx)
}

// ListSalesWithProduct returns active sales enriched with product name
// and price. Sales whose product was soft-deleted keep their stored
// total and carry absent product fields.
func (s *Service) ListSalesWithProduct(ctx context.Context) ([]*sales.SaleWithProduct, error) {
	return s.sales.GetAllWithProduct(ctx)
}

// ListPendingSales returns every sale record, active or soft-deleted,
// that still awaits synchronization.
func (s *Service) ListPendingSales(ctx context.Context) ([]*sales.Sale, error) {
	return s.sales.GetPending(ctx)
}

// GetSale returns one active sale.
func (s *Service) GetSale(ctx context.Context, id string) (*sales.Sale, error) {
	return s.sales.GetByID(ctx, id, false)
}

// UpdateSaleQuantity changes a sale's quantity and re-derives its total
// from the referenced product's current price. The product is looked up
// even when soft-deleted so the sale stays editable after the product
// leaves the catalog.
func (s *Service) UpdateSaleQuantity(ctx context.Context, id string, quantity int) (*sales.Sale, error) {
	if quantity <= 0 {
		return nil, domainErrors.NewError(domainErrors.CodeValidation,
			fmt.Sprintf("sale quantity must be greater than zero, got %d", quantity), nil)
	}

	sale, err := s.sales.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, sale.ProductID, true)
	if err != nil {
		return nil, err
	}

	total := sales.Total(quantity, product.Price)
	updated, err := s.sales.Update(ctx, id, ports.SalePatch{
		Quantity: &quantity,
		Total:    &total,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "sale updated", "sale_id", id, "quantity", quantity, "total", total)
	return updated, nil
}

// DeleteSale soft-deletes a sale. Deleting an already-deleted sale is
// a no-op.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	if err := s.sales.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "sale deleted", "sale_id", id)
	return nil
}

// PendingCount returns how many sale records await synchronization.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.sales.GetPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}
