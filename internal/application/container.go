// Package application provides application-level services and dependency injection.
package application

import (
	"context"
	"fmt"

	"github.com/ventasync/ventasync/internal/adapters/remote"
	appCatalog "github.com/ventasync/ventasync/internal/application/catalog"
	"github.com/ventasync/ventasync/internal/application/ports"
	appSales "github.com/ventasync/ventasync/internal/application/sales"
	appSync "github.com/ventasync/ventasync/internal/application/sync"
	"github.com/ventasync/ventasync/internal/infrastructure/config"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
	"github.com/ventasync/ventasync/internal/infrastructure/storage"
	"github.com/ventasync/ventasync/internal/infrastructure/tracing"
)

// LocalEndpointName is the registry name of the built-in in-process
// endpoint used when no remote endpoint is configured.
const LocalEndpointName = "local"

// Container holds all application dependencies and provides a central
// point for dependency injection. It manages the lifecycle of services
// and ensures proper initialization order.
type Container struct {
	config  *config.Config
	verbose bool // Override log level to debug when true

	logger *logging.Logger
	tracer *tracing.Tracer

	engine      *storage.Engine
	productRepo ports.ProductRepositoryPort
	saleRepo    ports.SaleRepositoryPort

	catalogService *appCatalog.Service
	salesService   *appSales.Service

	registry      *remote.Registry
	syncEngine    *appSync.Engine
	syncScheduler *appSync.Scheduler
}

// NewContainer creates a new dependency injection container with all
// services wired based on the provided configuration. The storage
// engine is constructed but not initialized; call InitStorage before
// using the repositories or services.
func NewContainer(ctx context.Context, cfg *config.Config, verbose bool) (*Container, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	c := &Container{
		config:  cfg,
		verbose: verbose,
	}

	c.initObservability(ctx)
	if err := c.initStorage(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initSync(ctx)

	return c, nil
}

// initObservability sets up the logger and tracer from configuration.
func (c *Container) initObservability(ctx context.Context) {
	level := logging.Level(c.config.Logging.Level)
	if c.verbose {
		level = logging.LevelDebug
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = logging.Format(c.config.Logging.Format)
	c.logger = logging.Init(logCfg)

	tracer, err := tracing.Init(ctx, tracing.Config{
		Enabled:      c.config.Tracing.Enabled,
		ExporterType: tracing.ExporterType(c.config.Tracing.ExporterType),
		OTLPEndpoint: c.config.Tracing.OTLPEndpoint,
		ServiceName:  c.config.Tracing.ServiceName,
		SampleRate:   c.config.Tracing.SampleRate,
	})
	if err != nil {
		// Tracing is optional; fall back to a noop tracer.
		c.logger.Warn("tracing disabled", "error", err.Error())
		tracer, _ = tracing.New(ctx, tracing.Config{Enabled: false})
	}
	c.tracer = tracer
}

// initStorage constructs the storage engine and repositories.
func (c *Container) initStorage() error {
	dbPath, err := config.ExpandPath(c.config.Database.Path)
	if err != nil {
		return fmt.Errorf("could not resolve database path: %w", err)
	}

	c.engine = storage.NewEngine(dbPath, c.logger)
	c.productRepo = storage.NewProductRepository(c.engine)
	c.saleRepo = storage.NewSaleRepository(c.engine)
	return nil
}

// initServices constructs the business-rule services.
func (c *Container) initServices() {
	c.catalogService = appCatalog.NewService(c.productRepo, c.logger)
	c.salesService = appSales.NewService(c.saleRepo, c.productRepo, c.logger)
}

// initSync constructs the reconciliation engine, the endpoint registry
// and the periodic scheduler. The built-in in-process endpoint is
// always registered so development setups work without a server; the
// active endpoint is whichever registered one is reachable first.
func (c *Container) initSync(ctx context.Context) {
	c.registry = remote.NewRegistry()
	_ = c.registry.Register(LocalEndpointName, remote.NewMemoryEndpoint())

	targets := []appSync.Target{
		appSync.NewProductTarget(c.productRepo),
		appSync.NewSaleTarget(c.saleRepo),
	}
	c.syncEngine = appSync.NewEngine(targets, c.logger, c.tracer)

	endpoint, err := c.registry.Primary(ctx)
	if err != nil {
		c.logger.Warn("no reachable sync endpoint", "error", err.Error())
		endpoint = c.registry.Get(LocalEndpointName)
	}
	c.syncEngine.SetEndpoint(endpoint)

	c.syncScheduler = appSync.NewScheduler(c.syncEngine, c.config.Sync.Interval, c.config.Sync.MaxRetries, c.logger)
}

// InitStorage opens the database and applies migrations. Idempotent.
func (c *Container) InitStorage(ctx context.Context) error {
	return c.engine.Initialize(ctx)
}

// Config returns the active configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger.
func (c *Container) Logger() *logging.Logger {
	return c.logger
}

// Tracer returns the application tracer.
func (c *Container) Tracer() *tracing.Tracer {
	return c.tracer
}

// StorageEngine returns the storage engine.
func (c *Container) StorageEngine() *storage.Engine {
	return c.engine
}

// CatalogService returns the product service.
func (c *Container) CatalogService() *appCatalog.Service {
	return c.catalogService
}

// SalesService returns the sale service.
func (c *Container) SalesService() *appSales.Service {
	return c.salesService
}

// SyncEngine returns the reconciliation engine.
func (c *Container) SyncEngine() *appSync.Engine {
	return c.syncEngine
}

// SyncScheduler returns the periodic sync scheduler.
func (c *Container) SyncScheduler() *appSync.Scheduler {
	return c.syncScheduler
}

// EndpointRegistry returns the remote endpoint registry.
func (c *Container) EndpointRegistry() *remote.Registry {
	return c.registry
}

// Close releases all resources held by the container.
func (c *Container) Close() error {
	var firstErr error

	if c.syncScheduler != nil {
		c.syncScheduler.Stop()
	}
	if c.engine != nil {
		if err := c.engine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.tracer != nil {
		if err := c.tracer.Shutdown(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
