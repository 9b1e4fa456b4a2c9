// Package ports defines the contracts between the application layer
// and the infrastructure adapters.
package ports

import (
	"context"

	"github.com/ventasync/ventasync/internal/domain/catalog"
	"github.com/ventasync/ventasync/internal/domain/sales"
)

// ProductPatch carries the fields Update is allowed to change on a
// product. Nil fields are left untouched. Identity, creation time and
// the deletion marker are not reachable through this path.
type ProductPatch struct {
	Name  *string
	Price *float64
}

// SalePatch carries the fields Update is allowed to change on a sale.
// Total always accompanies Quantity because it is derived by the
// business-rule layer, never set independently by callers.
type SalePatch struct {
	Quantity *int
	Total    *float64
}

// ProductRepositoryPort is the storage contract for products. Every
// operation waits for storage readiness first; a readiness failure
// propagates unchanged.
type ProductRepositoryPort interface {
	// Create persists a new product and returns the stored record as
	// re-read from storage.
	Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error)

	// GetAll returns all active (not soft-deleted) products.
	GetAll(ctx context.Context) ([]*catalog.Product, error)

	// GetByID returns one product. Unless includeDeleted is set, a
	// soft-deleted product is reported as not found.
	GetByID(ctx context.Context, id string, includeDeleted bool) (*catalog.Product, error)

	// Update merges the patch into the active record, refreshes
	// updated_at and forces the sync status back to pending.
	Update(ctx context.Context, id string, patch ProductPatch) (*catalog.Product, error)

	// SoftDelete marks the product deleted. Deleting an already
	// soft-deleted product is a no-op.
	SoftDelete(ctx context.Context, id string) error

	// HardDelete permanently removes the record. Valid only after the
	// reconciliation protocol confirmed the remote side recorded the
	// deletion; the repository does not enforce that ordering.
	HardDelete(ctx context.Context, id string) error

	// GetPending returns every record, active or soft-deleted, whose
	// sync status is pending.
	GetPending(ctx context.Context) ([]*catalog.Product, error)

	// MarkSynced flips the sync status to synced without touching
	// updated_at.
	MarkSynced(ctx context.Context, id string) error

	// ApplyRemote overwrites the local record with the server's copy,
	// all fields included. Reserved for the reconciliation engine.
	ApplyRemote(ctx context.Context, p *catalog.Product) error
}

// SaleRepositoryPort is the storage contract for sales. Semantics of
// the shared operations match ProductRepositoryPort.
type SaleRepositoryPort interface {
	Create(ctx context.Context, s *sales.Sale) (*sales.Sale, error)
	GetAll(ctx context.Context) ([]*sales.Sale, error)
	GetByID(ctx context.Context, id string, includeDeleted bool) (*sales.Sale, error)
	Update(ctx context.Context, id string, patch SalePatch) (*sales.Sale, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	GetPending(ctx context.Context) ([]*sales.Sale, error)
	MarkSynced(ctx context.Context, id string) error
	ApplyRemote(ctx context.Context, s *sales.Sale) error

	// GetAllWithProduct returns active sales enriched with the
	// referenced product's name and price. Product fields are absent
	// when the product has been soft-deleted.
	GetAllWithProduct(ctx context.Context) ([]*sales.SaleWithProduct, error)

	// GetByProductID returns the active sales recorded for one product.
	GetByProductID(ctx context.Context, productID string) ([]*sales.Sale, error)
}
