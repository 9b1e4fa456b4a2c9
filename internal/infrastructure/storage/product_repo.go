package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ventasync/ventasync/internal/application/ports"
	"github.com/ventasync/ventasync/internal/domain/catalog"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/record"
)

// Compile-time check that ProductRepository implements ProductRepositoryPort.
var _ ports.ProductRepositoryPort = (*ProductRepository)(nil)

const productColumns = "id, name, price, created_at, updated_at, deleted_at, sync_status"

// ProductRepository implements ProductRepositoryPort using SQLite.
// It is the only component permitted to issue product queries.
type ProductRepository struct {
	engine *Engine
}

// NewProductRepository creates a new product repository backed by the
// given storage engine.
func NewProductRepository(engine *Engine) *ProductRepository {
	return &ProductRepository{engine: engine}
}

// ready waits for the storage engine and returns its connection. A
// readiness failure propagates unchanged.
func (r *ProductRepository) ready(ctx context.Context) (*sql.DB, error) {
	if err := r.engine.WaitUntilReady(ctx); err != nil {
		return nil, err
	}
	return r.engine.DB()
}

// Create persists a new product and returns the stored record as
// re-read from storage, so storage-layer defaults are reflected.
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	if p.ID == "" {
		return nil, domainErrors.NewError(domainErrors.CodeValidation, "product ID is required", nil)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Price,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		nullableTime(p.DeletedAt),
		string(p.SyncStatus),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, domainErrors.NewError(domainErrors.CodeValidation, "product already exists", err)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return r.GetByID(ctx, p.ID, false)
}

// GetAll returns all active products.
func (r *ProductRepository) GetAll(ctx context.Context) ([]*catalog.Product, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`
	return r.queryProducts(ctx, db, query)
}

// GetByID returns one product. Unless includeDeleted is set, a
// soft-deleted product is reported as not found.
func (r *ProductRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*catalog.Product, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	p, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("product not found: %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// Update merges the patch into the active record, refreshes updated_at
// and forces the sync status back to pending. Identity, creation time
// and the deletion marker are not reachable through this path.
func (r *ProductRepository) Update(ctx context.Context, id string, patch ports.ProductPatch) (*catalog.Product, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	current, err := r.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Price != nil {
		current.Price = *patch.Price
	}
	current.Touch()

	query := `
		UPDATE products
		SET name = ?, price = ?, updated_at = ?, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query,
		current.Name,
		current.Price,
		formatTime(current.UpdatedAt),
		string(record.SyncPending),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return nil, domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("product not found: %s", id), nil)
	}

	return r.GetByID(ctx, id, false)
}

// SoftDelete marks the product deleted and pending. Deleting an
// already soft-deleted product is a no-op.
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	now := formatTime(time.Now())
	query := `
		UPDATE products
		SET deleted_at = ?, updated_at = ?, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query, now, now, string(record.SyncPending), id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		// Already soft-deleted records are a no-op; unknown ids are not.
		if _, err := r.GetByID(ctx, id, true); err != nil {
			return err
		}
	}

	return nil
}

// HardDelete permanently removes the record. The reconciliation
// protocol is responsible for only calling this after the remote side
// durably recorded the deletion.
func (r *ProductRepository) HardDelete(ctx context.Context, id string) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to hard-delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("product not found: %s", id), nil)
	}

	return nil
}

// GetPending returns every product, active or soft-deleted, whose sync
// status is pending. This is the only read path that includes
// soft-deleted records, because deletions must be propagated upstream.
func (r *ProductRepository) GetPending(ctx context.Context) ([]*catalog.Product, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE sync_status = ?`
	return r.queryProducts(ctx, db, query, string(record.SyncPending))
}

// MarkSynced flips the sync status to synced without touching updated_at.
func (r *ProductRepository) MarkSynced(ctx context.Context, id string) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE products SET sync_status = ? WHERE id = ?`, string(record.SyncSynced), id)
	if err != nil {
		return fmt.Errorf("failed to mark product synced: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("product not found: %s", id), nil)
	}

	return nil
}

// ApplyRemote overwrites the local record with the server's copy, all
// fields included. Reserved for the reconciliation engine.
func (r *ProductRepository) ApplyRemote(ctx context.Context, p *catalog.Product) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			sync_status = excluded.sync_status
	`

	_, err = db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Price,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		nullableTime(p.DeletedAt),
		string(p.SyncStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to apply remote product: %w", err)
	}

	return nil
}

// queryProducts executes a query and returns multiple products.
func (r *ProductRepository) queryProducts(ctx context.Context, db *sql.DB, query string, args ...any) ([]*catalog.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// scanProduct scans one row into a product entity.
func scanProduct(row rowScanner) (*catalog.Product, error) {
	var (
		p          catalog.Product
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		syncStatus string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Price, &createdAt, &updatedAt, &deletedAt, &syncStatus)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if p.DeletedAt, err = scanNullableTime(deletedAt); err != nil {
		return nil, err
	}
	p.SyncStatus = record.SyncStatus(syncStatus)

	return &p, nil
}
