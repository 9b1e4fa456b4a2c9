package application

import (
	"context"
	"testing"

	"github.com/ventasync/ventasync/internal/infrastructure/config"
)

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Tracing.Enabled = false
	return cfg
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(), false)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if c.CatalogService() == nil {
		t.Error("catalog service not wired")
	}
	if c.SalesService() == nil {
		t.Error("sales service not wired")
	}
	if c.SyncEngine() == nil {
		t.Error("sync engine not wired")
	}
	if c.SyncScheduler() == nil {
		t.Error("sync scheduler not wired")
	}
	if c.EndpointRegistry().Get(LocalEndpointName) == nil {
		t.Error("local endpoint not registered")
	}
	primary, err := c.EndpointRegistry().Primary(context.Background())
	if err != nil {
		t.Fatalf("Primary() error = %v", err)
	}
	if primary != c.EndpointRegistry().Get(LocalEndpointName) {
		t.Error("local endpoint should be the reachable primary")
	}
}

func TestContainer_NilConfigUsesDefaults(t *testing.T) {
	c, err := NewContainer(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if c.Config() == nil {
		t.Fatal("Config() = nil")
	}
	if c.Config().Sync.Interval != config.DefaultSyncInterval {
		t.Errorf("interval = %v, want default", c.Config().Sync.Interval)
	}
}

func TestContainer_EndToEnd(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(ctx, testConfig(), false)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.InitStorage(ctx); err != nil {
		t.Fatalf("InitStorage() error = %v", err)
	}

	product, err := c.CatalogService().CreateProduct(ctx, "Widget", 10.00)
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	sale, err := c.SalesService().CreateSale(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}
	if sale.Total != 30.00 {
		t.Errorf("sale total = %v, want 30.00", sale.Total)
	}

	reports, err := c.SyncEngine().SyncAll(ctx)
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d cycle reports, want 2", len(reports))
	}
	for _, report := range reports {
		if report.Accepted == 0 {
			t.Errorf("%s cycle accepted nothing", report.Entity)
		}
	}

	pending, err := c.CatalogService().PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if pending != 0 {
		t.Errorf("pending products after sync = %d, want 0", pending)
	}
}

func TestContainer_CloseIsIdempotent(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(), false)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
