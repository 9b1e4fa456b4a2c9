// Package sales defines the Sale entity and its business rules.
package sales

import (
	"fmt"

	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/record"
)

// Sale is a recorded sale of a catalog product. Total is derived from
// the quantity and the product's price as of the last write; it is
// never independently settable.
type Sale struct {
	record.Meta
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// SaleWithProduct is a sale enriched with the referenced product's
// name and price. The product fields are nil when the product has been
// soft-deleted since the sale was recorded.
type SaleWithProduct struct {
	Sale
	ProductName  *string  `json:"product_name,omitempty"`
	ProductPrice *float64 `json:"product_price,omitempty"`
}

// NewSale creates a sale with fresh sync metadata, deriving the total
// from the quantity and the unit price of the referenced product.
func NewSale(productID string, quantity int, unitPrice float64) (*Sale, error) {
	if productID == "" {
		return nil, domainErrors.NewError(domainErrors.CodeValidation, "product ID is required", nil)
	}
	if quantity <= 0 {
		return nil, domainErrors.NewError(domainErrors.CodeValidation,
			fmt.Sprintf("sale quantity must be greater than zero, got %d", quantity), nil)
	}

	return &Sale{
		Meta:      record.NewMeta(),
		ProductID: productID,
		Quantity:  quantity,
		Total:     Total(quantity, unitPrice),
	}, nil
}

// Total derives a sale total from a quantity and a unit price.
func Total(quantity int, unitPrice float64) float64 {
	return float64(quantity) * unitPrice
}
