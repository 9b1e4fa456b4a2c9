package sales

import (
	"context"
	"testing"

	"github.com/ventasync/ventasync/internal/domain/catalog"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
	"github.com/ventasync/ventasync/internal/infrastructure/storage"
)

type fixture struct {
	svc      *Service
	products *storage.ProductRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logging.New(logging.Config{Level: logging.LevelError})
	engine := storage.NewEngine(":memory:", logger)
	if err := engine.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	products := storage.NewProductRepository(engine)
	return &fixture{
		svc:      NewService(storage.NewSaleRepository(engine), products, logger),
		products: products,
	}
}

func (f *fixture) createProduct(t *testing.T, name string, price float64) string {
	t.Helper()

	p, err := catalog.NewProduct(name, price)
	if err != nil {
		t.Fatalf("NewProduct() error = %v", err)
	}
	created, err := f.products.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return created.ID
}

func TestCreateSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)

	sale, err := f.svc.CreateSale(ctx, productID, 5)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	if sale.ProductID != productID {
		t.Errorf("ProductID = %q, want %q", sale.ProductID, productID)
	}
	if sale.Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", sale.Quantity)
	}
	if sale.Total != 49.95 {
		t.Errorf("Total = %v, want 49.95", sale.Total)
	}
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)

	t.Run("zero quantity", func(t *testing.T) {
		if _, err := f.svc.CreateSale(ctx, productID, 0); !domainErrors.IsValidation(err) {
			t.Errorf("CreateSale() error = %v, want validation error", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		if _, err := f.svc.CreateSale(ctx, productID, -2); !domainErrors.IsValidation(err) {
			t.Errorf("CreateSale() error = %v, want validation error", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		if _, err := f.svc.CreateSale(ctx, "no-such-product", 1); !domainErrors.IsValidation(err) {
			t.Errorf("CreateSale() error = %v, want validation error", err)
		}
	})

	t.Run("deleted product", func(t *testing.T) {
		if err := f.products.SoftDelete(ctx, productID); err != nil {
			t.Fatalf("SoftDelete() error = %v", err)
		}
		if _, err := f.svc.CreateSale(ctx, productID, 1); !domainErrors.IsValidation(err) {
			t.Errorf("CreateSale() error = %v, want validation error", err)
		}
	})
}

func TestUpdateSaleQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)
	sale, err := f.svc.CreateSale(ctx, productID, 2)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	updated, err := f.svc.UpdateSaleQuantity(ctx, sale.ID, 4)
	if err != nil {
		t.Fatalf("UpdateSaleQuantity() error = %v", err)
	}

	if updated.Quantity != 4 {
		t.Errorf("Quantity = %d, want 4", updated.Quantity)
	}
	if updated.Total != 39.96 {
		t.Errorf("Total = %v, want 39.96", updated.Total)
	}
}

func TestUpdateSaleQuantity_DeletedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)
	sale, err := f.svc.CreateSale(ctx, productID, 2)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	// The sale stays editable after the product leaves the catalog;
	// the deleted product's price still drives the total.
	if err := f.products.SoftDelete(ctx, productID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	updated, err := f.svc.UpdateSaleQuantity(ctx, sale.ID, 3)
	if err != nil {
		t.Fatalf("UpdateSaleQuantity() error = %v", err)
	}
	if updated.Total != 29.97 {
		t.Errorf("Total = %v, want 29.97", updated.Total)
	}
}

func TestUpdateSaleQuantity_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)
	sale, err := f.svc.CreateSale(ctx, productID, 2)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	if _, err := f.svc.UpdateSaleQuantity(ctx, sale.ID, 0); !domainErrors.IsValidation(err) {
		t.Errorf("UpdateSaleQuantity(0) error = %v, want validation error", err)
	}
	if _, err := f.svc.UpdateSaleQuantity(ctx, "no-such-sale", 1); !domainErrors.IsNotFound(err) {
		t.Errorf("UpdateSaleQuantity(unknown) error = %v, want not found", err)
	}
}

func TestDeleteSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)
	sale, err := f.svc.CreateSale(ctx, productID, 1)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	if err := f.svc.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("DeleteSale() error = %v", err)
	}
	if _, err := f.svc.GetSale(ctx, sale.ID); !domainErrors.IsNotFound(err) {
		t.Errorf("GetSale() after delete error = %v, want not found", err)
	}

	// Idempotent
	if err := f.svc.DeleteSale(ctx, sale.ID); err != nil {
		t.Errorf("second DeleteSale() error = %v, want nil", err)
	}
}

func TestListSalesWithProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.createProduct(t, "Coffee", 9.99)
	if _, err := f.svc.CreateSale(ctx, productID, 2); err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	list, err := f.svc.ListSalesWithProduct(ctx)
	if err != nil {
		t.Fatalf("ListSalesWithProduct() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d sales, want 1", len(list))
	}
	if list[0].ProductName == nil || *list[0].ProductName != "Coffee" {
		t.Errorf("ProductName = %v, want Coffee", list[0].ProductName)
	}

	// After the product is soft-deleted the sale row survives with
	// absent product fields and its stored total intact.
	if err := f.products.SoftDelete(ctx, productID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	list, err = f.svc.ListSalesWithProduct(ctx)
	if err != nil {
		t.Fatalf("ListSalesWithProduct() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d sales, want 1", len(list))
	}
	if list[0].ProductName != nil {
		t.Errorf("ProductName = %v, want nil", *list[0].ProductName)
	}
	if list[0].Total != 19.98 {
		t.Errorf("Total = %v, want 19.98", list[0].Total)
	}
}
