package storage

import (
	"context"
	"testing"

	"github.com/ventasync/ventasync/internal/application/ports"
	"github.com/ventasync/ventasync/internal/domain/catalog"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/record"
	"github.com/ventasync/ventasync/internal/domain/sales"
)

// saleFixture wires product and sale repositories over one engine.
type saleFixture struct {
	products *ProductRepository
	sales    *SaleRepository
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	e := newTestEngine(t)
	return &saleFixture{
		products: NewProductRepository(e),
		sales:    NewSaleRepository(e),
	}
}

func (f *saleFixture) createSale(t *testing.T, product *catalog.Product, quantity int) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(product.ID, quantity, product.Price)
	if err != nil {
		t.Fatalf("NewSale() error = %v", err)
	}
	stored, err := f.sales.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return stored
}

func TestSaleRepository_Create(t *testing.T) {
	f := newSaleFixture(t)
	p := mustCreateProduct(t, f.products, "Widget", 9.99)

	s := f.createSale(t, p, 5)

	if s.Total != 49.95 {
		t.Errorf("Total = %v, want 49.95", s.Total)
	}
	if s.SyncStatus != record.SyncPending {
		t.Errorf("SyncStatus = %q, want %q", s.SyncStatus, record.SyncPending)
	}
	if s.DeletedAt != nil {
		t.Errorf("DeletedAt = %v, want nil", s.DeletedAt)
	}
}

func TestSaleRepository_Create_UnknownProduct(t *testing.T) {
	f := newSaleFixture(t)

	s, err := sales.NewSale("missing", 1, 10)
	if err != nil {
		t.Fatalf("NewSale() error = %v", err)
	}
	_, err = f.sales.Create(context.Background(), s)
	if err == nil {
		t.Fatal("Create() with unknown product error = nil, want FK violation")
	}
	if !domainErrors.IsValidation(err) {
		t.Errorf("error code = %q, want %q", domainErrors.CodeOf(err), domainErrors.CodeValidation)
	}
}

func TestSaleRepository_Update_RecomputedTotal(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	p := mustCreateProduct(t, f.products, "Widget", 10.00)
	s := f.createSale(t, p, 3)

	quantity := 7
	total := sales.Total(quantity, p.Price)
	got, err := f.sales.Update(ctx, s.ID, ports.SalePatch{Quantity: &quantity, Total: &total})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.Quantity != 7 || got.Total != 70.00 {
		t.Errorf("Update() = quantity %d total %v, want 7 / 70.00", got.Quantity, got.Total)
	}
	if got.SyncStatus != record.SyncPending {
		t.Errorf("SyncStatus = %q, want %q", got.SyncStatus, record.SyncPending)
	}
}

func TestSaleRepository_SoftDelete_Lifecycle(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	p := mustCreateProduct(t, f.products, "Widget", 10.00)
	s := f.createSale(t, p, 3)

	if err := f.sales.SoftDelete(ctx, s.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	// Excluded from active reads.
	all, err := f.sales.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll() returned %d sales after soft delete, want 0", len(all))
	}

	// Still pending so the deletion propagates upstream.
	pending, err := f.sales.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].DeletedAt == nil {
		t.Fatalf("GetPending() = %v, want the soft-deleted sale", pending)
	}
}

func TestSaleRepository_GetAllWithProduct(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	p := mustCreateProduct(t, f.products, "Widget", 9.99)
	s := f.createSale(t, p, 2)

	list, err := f.sales.GetAllWithProduct(ctx)
	if err != nil {
		t.Fatalf("GetAllWithProduct() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("GetAllWithProduct() returned %d rows, want 1", len(list))
	}

	got := list[0]
	if got.ID != s.ID {
		t.Errorf("sale ID = %s, want %s", got.ID, s.ID)
	}
	if got.ProductName == nil || *got.ProductName != "Widget" {
		t.Errorf("ProductName = %v, want Widget", got.ProductName)
	}
	if got.ProductPrice == nil || *got.ProductPrice != 9.99 {
		t.Errorf("ProductPrice = %v, want 9.99", got.ProductPrice)
	}
}

func TestSaleRepository_GetAllWithProduct_OrphanedSale(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	p := mustCreateProduct(t, f.products, "Widget", 9.99)
	s := f.createSale(t, p, 2)

	// Soft-deleting the product orphans the sale but keeps it listed.
	if err := f.products.SoftDelete(ctx, p.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	list, err := f.sales.GetAllWithProduct(ctx)
	if err != nil {
		t.Fatalf("GetAllWithProduct() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("GetAllWithProduct() returned %d rows, want 1", len(list))
	}
	if list[0].ID != s.ID {
		t.Errorf("sale ID = %s, want %s", list[0].ID, s.ID)
	}
	if list[0].ProductName != nil || list[0].ProductPrice != nil {
		t.Errorf("orphaned sale carries product fields: name=%v price=%v",
			list[0].ProductName, list[0].ProductPrice)
	}
}

func TestSaleRepository_GetByProductID(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	widget := mustCreateProduct(t, f.products, "Widget", 9.99)
	gadget := mustCreateProduct(t, f.products, "Gadget", 5.00)

	f.createSale(t, widget, 1)
	f.createSale(t, widget, 2)
	deleted := f.createSale(t, widget, 3)
	f.createSale(t, gadget, 4)

	if err := f.sales.SoftDelete(ctx, deleted.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	got, err := f.sales.GetByProductID(ctx, widget.ID)
	if err != nil {
		t.Fatalf("GetByProductID() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetByProductID() returned %d sales, want 2", len(got))
	}
	for _, s := range got {
		if s.ProductID != widget.ID {
			t.Errorf("sale %s references %s, want %s", s.ID, s.ProductID, widget.ID)
		}
	}
}

func TestSaleRepository_ApplyRemote_SoftDeletedCopy(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	p := mustCreateProduct(t, f.products, "Widget", 9.99)
	s := f.createSale(t, p, 2)

	// Server says the sale was deleted elsewhere.
	server := *s
	server.MarkDeleted()
	server.SyncStatus = record.SyncSynced

	if err := f.sales.ApplyRemote(ctx, &server); err != nil {
		t.Fatalf("ApplyRemote() error = %v", err)
	}

	got, err := f.sales.GetByID(ctx, s.ID, true)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("DeletedAt = nil after applying deleted server copy")
	}
	if got.SyncStatus != record.SyncSynced {
		t.Errorf("SyncStatus = %q, want %q", got.SyncStatus, record.SyncSynced)
	}
}

func TestSaleRepository_MarkSynced_ThenPendingExcluded(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	p := mustCreateProduct(t, f.products, "Widget", 9.99)
	s := f.createSale(t, p, 2)

	if err := f.sales.MarkSynced(ctx, s.ID); err != nil {
		t.Fatalf("MarkSynced() error = %v", err)
	}

	pending, err := f.sales.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("GetPending() returned %d sales after MarkSynced, want 0", len(pending))
	}
}
