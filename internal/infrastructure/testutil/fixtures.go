// Package testutil provides test fixtures and helpers for testing.
package testutil

import (
	"time"

	"github.com/ventasync/ventasync/internal/domain/catalog"
	"github.com/ventasync/ventasync/internal/domain/record"
	"github.com/ventasync/ventasync/internal/domain/sales"
)

// NewTestProduct creates a product for testing.
func NewTestProduct() *catalog.Product {
	p, _ := catalog.NewProduct("Test Product", 9.99)
	return p
}

// NewTestProductNamed creates a product with the given name and price.
func NewTestProductNamed(name string, price float64) *catalog.Product {
	p, _ := catalog.NewProduct(name, price)
	return p
}

// NewSyncedProduct creates a product already marked as synced.
func NewSyncedProduct(name string, price float64) *catalog.Product {
	p, _ := catalog.NewProduct(name, price)
	p.SyncStatus = record.SyncSynced
	return p
}

// NewDeletedProduct creates a soft-deleted product pending sync.
func NewDeletedProduct(name string, price float64) *catalog.Product {
	p, _ := catalog.NewProduct(name, price)
	p.MarkDeleted()
	return p
}

// NewTestSale creates a sale for the given product.
func NewTestSale(productID string, quantity int, unitPrice float64) *sales.Sale {
	s, _ := sales.NewSale(productID, quantity, unitPrice)
	return s
}

// BackdateMeta shifts a record's timestamps into the past.
// Useful for constructing deterministic last-writer-wins scenarios.
func BackdateMeta(m *record.Meta, by time.Duration) {
	m.CreatedAt = m.CreatedAt.Add(-by)
	m.UpdatedAt = m.UpdatedAt.Add(-by)
	if m.DeletedAt != nil {
		shifted := m.DeletedAt.Add(-by)
		m.DeletedAt = &shifted
	}
}
