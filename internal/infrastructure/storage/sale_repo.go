package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ventasync/ventasync/internal/application/ports"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/record"
	"github.com/ventasync/ventasync/internal/domain/sales"
)

// Compile-time check that SaleRepository implements SaleRepositoryPort.
var _ ports.SaleRepositoryPort = (*SaleRepository)(nil)

const saleColumns = "id, product_id, quantity, total, created_at, updated_at, deleted_at, sync_status"

// SaleRepository implements SaleRepositoryPort using SQLite.
type SaleRepository struct {
	engine *Engine
}

// NewSaleRepository creates a new sale repository backed by the given
// storage engine.
func NewSaleRepository(engine *Engine) *SaleRepository {
	return &SaleRepository{engine: engine}
}

func (r *SaleRepository) ready(ctx context.Context) (*sql.DB, error) {
	if err := r.engine.WaitUntilReady(ctx); err != nil {
		return nil, err
	}
	return r.engine.DB()
}

// Create persists a new sale and returns the stored record as re-read
// from storage.
func (r *SaleRepository) Create(ctx context.Context, s *sales.Sale) (*sales.Sale, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	if s.ID == "" {
		return nil, domainErrors.NewError(domainErrors.CodeValidation, "sale ID is required", nil)
	}

	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		s.ID,
		s.ProductID,
		s.Quantity,
		s.Total,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
		nullableTime(s.DeletedAt),
		string(s.SyncStatus),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, domainErrors.NewError(domainErrors.CodeValidation, "sale already exists", err)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint") {
			return nil, domainErrors.NewError(domainErrors.CodeValidation,
				fmt.Sprintf("sale references unknown product: %s", s.ProductID), err)
		}
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	return r.GetByID(ctx, s.ID, false)
}

// GetAll returns all active sales.
func (r *SaleRepository) GetAll(ctx context.Context) ([]*sales.Sale, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE deleted_at IS NULL`
	return r.querySales(ctx, db, query)
}

// GetByID returns one sale. Unless includeDeleted is set, a
// soft-deleted sale is reported as not found.
func (r *SaleRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*sales.Sale, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	s, err := scanSale(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("sale not found: %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	return s, nil
}

// Update merges the patch into the active record, refreshes updated_at
// and forces the sync status back to pending.
func (r *SaleRepository) Update(ctx context.Context, id string, patch ports.SalePatch) (*sales.Sale, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	current, err := r.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if patch.Quantity != nil {
		current.Quantity = *patch.Quantity
	}
	if patch.Total != nil {
		current.Total = *patch.Total
	}
	current.Touch()

	query := `
		UPDATE sales
		SET quantity = ?, total = ?, updated_at = ?, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query,
		current.Quantity,
		current.Total,
		formatTime(current.UpdatedAt),
		string(record.SyncPending),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return nil, domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("sale not found: %s", id), nil)
	}

	return r.GetByID(ctx, id, false)
}

// SoftDelete marks the sale deleted and pending. Deleting an already
// soft-deleted sale is a no-op.
func (r *SaleRepository) SoftDelete(ctx context.Context, id string) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	now := formatTime(time.Now())
	query := `
		UPDATE sales
		SET deleted_at = ?, updated_at = ?, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query, now, now, string(record.SyncPending), id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete sale: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, id, true); err != nil {
			return err
		}
	}

	return nil
}

// HardDelete permanently removes the record.
func (r *SaleRepository) HardDelete(ctx context.Context, id string) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to hard-delete sale: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("sale not found: %s", id), nil)
	}

	return nil
}

// GetPending returns every sale, active or soft-deleted, whose sync
// status is pending.
func (r *SaleRepository) GetPending(ctx context.Context) ([]*sales.Sale, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE sync_status = ?`
	return r.querySales(ctx, db, query, string(record.SyncPending))
}

// MarkSynced flips the sync status to synced without touching updated_at.
func (r *SaleRepository) MarkSynced(ctx context.Context, id string) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE sales SET sync_status = ? WHERE id = ?`, string(record.SyncSynced), id)
	if err != nil {
		return fmt.Errorf("failed to mark sale synced: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domainErrors.NewError(domainErrors.CodeNotFound, fmt.Sprintf("sale not found: %s", id), nil)
	}

	return nil
}

// ApplyRemote overwrites the local record with the server's copy, all
// fields included. Reserved for the reconciliation engine.
func (r *SaleRepository) ApplyRemote(ctx context.Context, s *sales.Sale) error {
	db, err := r.ready(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			quantity = excluded.quantity,
			total = excluded.total,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			sync_status = excluded.sync_status
	`

	_, err = db.ExecContext(ctx, query,
		s.ID,
		s.ProductID,
		s.Quantity,
		s.Total,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
		nullableTime(s.DeletedAt),
		string(s.SyncStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to apply remote sale: %w", err)
	}

	return nil
}

// GetAllWithProduct returns active sales enriched with the referenced
// product's name and price. The product side of the join is filtered
// to active records, so a sale whose product was soft-deleted carries
// no product fields.
func (r *SaleRepository) GetAllWithProduct(ctx context.Context) ([]*sales.SaleWithProduct, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.product_id, s.quantity, s.total, s.created_at, s.updated_at, s.deleted_at, s.sync_status,
		       p.name, p.price
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id AND p.deleted_at IS NULL
		WHERE s.deleted_at IS NULL
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales with products: %w", err)
	}
	defer rows.Close()

	var result []*sales.SaleWithProduct
	for rows.Next() {
		var (
			s            sales.Sale
			createdAt    string
			updatedAt    string
			deletedAt    sql.NullString
			syncStatus   string
			productName  sql.NullString
			productPrice sql.NullFloat64
		)

		err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.Total,
			&createdAt, &updatedAt, &deletedAt, &syncStatus,
			&productName, &productPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale with product: %w", err)
		}

		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		if s.DeletedAt, err = scanNullableTime(deletedAt); err != nil {
			return nil, err
		}
		s.SyncStatus = record.SyncStatus(syncStatus)

		swp := &sales.SaleWithProduct{Sale: s}
		if productName.Valid {
			swp.ProductName = &productName.String
		}
		if productPrice.Valid {
			swp.ProductPrice = &productPrice.Float64
		}
		result = append(result, swp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales with products: %w", err)
	}

	return result, nil
}

// GetByProductID returns the active sales recorded for one product.
func (r *SaleRepository) GetByProductID(ctx context.Context, productID string) ([]*sales.Sale, error) {
	db, err := r.ready(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE product_id = ? AND deleted_at IS NULL`
	return r.querySales(ctx, db, query, productID)
}

// querySales executes a query and returns multiple sales.
func (r *SaleRepository) querySales(ctx context.Context, db *sql.DB, query string, args ...any) ([]*sales.Sale, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var result []*sales.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return result, nil
}

// scanSale scans one row into a sale entity.
func scanSale(row rowScanner) (*sales.Sale, error) {
	var (
		s          sales.Sale
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		syncStatus string
	)

	err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.Total, &createdAt, &updatedAt, &deletedAt, &syncStatus)
	if err != nil {
		return nil, err
	}

	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if s.DeletedAt, err = scanNullableTime(deletedAt); err != nil {
		return nil, err
	}
	s.SyncStatus = record.SyncStatus(syncStatus)

	return &s, nil
}
