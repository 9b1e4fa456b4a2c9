package sync

import (
	"context"
	"fmt"

	"github.com/ventasync/ventasync/internal/application/ports"
	"github.com/ventasync/ventasync/internal/domain/catalog"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/record"
	"github.com/ventasync/ventasync/internal/domain/sales"
)

// ProductTarget adapts the product repository to the sync engine.
type ProductTarget struct {
	repo ports.ProductRepositoryPort
}

// NewProductTarget creates a sync target over the product repository.
func NewProductTarget(repo ports.ProductRepositoryPort) *ProductTarget {
	return &ProductTarget{repo: repo}
}

func (t *ProductTarget) Entity() ports.EntityType { return ports.EntityProducts }

func (t *ProductTarget) Pending(ctx context.Context) ([]ports.PushRecord, error) {
	products, err := t.repo.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]ports.PushRecord, 0, len(products))
	for _, p := range products {
		records = append(records, ports.PushRecord{
			ID:        p.ID,
			UpdatedAt: p.UpdatedAt,
			DeletedAt: p.DeletedAt,
			Fields: map[string]any{
				"name":  p.Name,
				"price": p.Price,
			},
		})
	}
	return records, nil
}

func (t *ProductTarget) ApplyServer(ctx context.Context, rec ports.PushRecord) error {
	name, err := fieldString(rec.Fields, "name")
	if err != nil {
		return err
	}
	price, err := fieldFloat(rec.Fields, "price")
	if err != nil {
		return err
	}

	// Keep the local creation timestamp when the record exists; a
	// record the server holds but we never saw keeps its server
	// updated_at as creation time.
	createdAt := rec.UpdatedAt
	if local, err := t.repo.GetByID(ctx, rec.ID, true); err == nil {
		createdAt = local.CreatedAt
	} else if !domainErrors.IsNotFound(err) {
		return err
	}

	product := &catalog.Product{
		Meta: record.Meta{
			ID:         rec.ID,
			CreatedAt:  createdAt,
			UpdatedAt:  rec.UpdatedAt,
			DeletedAt:  rec.DeletedAt,
			SyncStatus: record.SyncSynced,
		},
		Name:  name,
		Price: price,
	}
	return t.repo.ApplyRemote(ctx, product)
}

func (t *ProductTarget) MarkSynced(ctx context.Context, id string) error {
	return t.repo.MarkSynced(ctx, id)
}

func (t *ProductTarget) HardDelete(ctx context.Context, id string) error {
	return t.repo.HardDelete(ctx, id)
}

// SaleTarget adapts the sale repository to the sync engine.
type SaleTarget struct {
	repo ports.SaleRepositoryPort
}

// NewSaleTarget creates a sync target over the sale repository.
func NewSaleTarget(repo ports.SaleRepositoryPort) *SaleTarget {
	return &SaleTarget{repo: repo}
}

func (t *SaleTarget) Entity() ports.EntityType { return ports.EntitySales }

func (t *SaleTarget) Pending(ctx context.Context) ([]ports.PushRecord, error) {
	pending, err := t.repo.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]ports.PushRecord, 0, len(pending))
	for _, s := range pending {
		records = append(records, ports.PushRecord{
			ID:        s.ID,
			UpdatedAt: s.UpdatedAt,
			DeletedAt: s.DeletedAt,
			Fields: map[string]any{
				"product_id": s.ProductID,
				"quantity":   s.Quantity,
				"total":      s.Total,
			},
		})
	}
	return records, nil
}

func (t *SaleTarget) ApplyServer(ctx context.Context, rec ports.PushRecord) error {
	productID, err := fieldString(rec.Fields, "product_id")
	if err != nil {
		return err
	}
	quantity, err := fieldInt(rec.Fields, "quantity")
	if err != nil {
		return err
	}
	total, err := fieldFloat(rec.Fields, "total")
	if err != nil {
		return err
	}

	createdAt := rec.UpdatedAt
	if local, err := t.repo.GetByID(ctx, rec.ID, true); err == nil {
		createdAt = local.CreatedAt
	} else if !domainErrors.IsNotFound(err) {
		return err
	}

	sale := &sales.Sale{
		Meta: record.Meta{
			ID:         rec.ID,
			CreatedAt:  createdAt,
			UpdatedAt:  rec.UpdatedAt,
			DeletedAt:  rec.DeletedAt,
			SyncStatus: record.SyncSynced,
		},
		ProductID: productID,
		Quantity:  quantity,
		Total:     total,
	}
	return t.repo.ApplyRemote(ctx, sale)
}

func (t *SaleTarget) MarkSynced(ctx context.Context, id string) error {
	return t.repo.MarkSynced(ctx, id)
}

func (t *SaleTarget) HardDelete(ctx context.Context, id string) error {
	return t.repo.HardDelete(ctx, id)
}

// Field accessors tolerate the numeric widening JSON decoding applies
// to wire payloads.

func fieldString(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("server record missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("server record field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func fieldFloat(fields map[string]any, key string) (float64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("server record missing field %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("server record field %q: expected number, got %T", key, v)
	}
}

func fieldInt(fields map[string]any, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("server record missing field %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("server record field %q: expected integer, got %T", key, v)
	}
}

// Compile-time interface checks.
var (
	_ Target = (*ProductTarget)(nil)
	_ Target = (*SaleTarget)(nil)
)
