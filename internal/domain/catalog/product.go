// Package catalog defines the Product entity and its business rules.
package catalog

import (
	"fmt"
	"strings"

	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/domain/record"
)

// Product is a sellable item in the local catalog.
type Product struct {
	record.Meta
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// NewProduct creates a product with fresh sync metadata. It validates
// the business rules before any storage write is attempted.
func NewProduct(name string, price float64) (*Product, error) {
	p := &Product{
		Meta:  record.NewMeta(),
		Name:  strings.TrimSpace(name),
		Price: price,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product's business rules.
func (p *Product) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	return ValidatePrice(p.Price)
}

// ValidateName checks that a product name is non-empty after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domainErrors.NewError(domainErrors.CodeValidation, "product name is required", nil)
	}
	return nil
}

// ValidatePrice checks that a product price is strictly positive.
func ValidatePrice(price float64) error {
	if price <= 0 {
		return domainErrors.NewError(domainErrors.CodeValidation,
			fmt.Sprintf("product price must be greater than zero, got %v", price), nil)
	}
	return nil
}
