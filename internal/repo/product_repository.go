package repo

import (
	"context"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	GetByName(ctx context.Context, name string) (models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)

	// Sell takes quantity units out of the named product's stock, only when
	// at least that many are available. The check and the decrement are a
	// single statement. A quantity below one returns ErrInvalidQuantity.
	Sell(ctx context.Context, name string, quantity int) (models.Product, error)

	// Import upserts every patch by name inside one transaction. A failing
	// patch does not stop the others; the returned slice holds one entry per
	// patch, nil when it was applied.
	Import(ctx context.Context, patches []ProductPatch) ([]error, error)
}

// ProductPatch is a sparse update keyed by product name. Nil fields were
// not provided and leave the stored value untouched.
type ProductPatch struct {
	Name          string
	Quantity      *int
	StockMinimum  *int
	CostPrice     *decimal.Decimal
	MarkupPercent *decimal.Decimal
	Supplier      *string
}

// Empty reports whether the patch carries no field besides the name.
func (p ProductPatch) Empty() bool {
	return p.Quantity == nil && p.StockMinimum == nil && p.CostPrice == nil &&
		p.MarkupPercent == nil && p.Supplier == nil
}

// Apply returns base with every provided field of the patch written over it.
func (p ProductPatch) Apply(base models.Product) models.Product {
	if p.Quantity != nil {
		base.Quantity = *p.Quantity
	}
	if p.StockMinimum != nil {
		base.StockMinimum = *p.StockMinimum
	}
	if p.CostPrice != nil {
		base.CostPrice = *p.CostPrice
	}
	if p.MarkupPercent != nil {
		base.MarkupPercent = *p.MarkupPercent
	}
	if p.Supplier != nil {
		base.Supplier = *p.Supplier
	}
	return base
}

// NewProduct is the record inserted for a patch whose name is not stored yet:
// unprovided fields default to zero or empty.
func (p ProductPatch) NewProduct() models.Product {
	return p.Apply(models.Product{
		Name:          p.Name,
		CostPrice:     decimal.Zero,
		MarkupPercent: decimal.Zero,
	})
}
