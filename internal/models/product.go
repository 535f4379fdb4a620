package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Product represents a product entity in the inventory system.
type Product struct {
	ID            int             `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Quantity      int             `json:"quantity" db:"quantity"`
	StockMinimum  int             `json:"stock_minimum" db:"stock_minimum"`
	CostPrice     decimal.Decimal `json:"cost_price" db:"cost_price"`
	Supplier      string          `json:"supplier" db:"supplier"`
	MarkupPercent decimal.Decimal `json:"markup_percent" db:"markup_percent"`
}

// SalePrice is cost_price * (1 + markup_percent/100). It is never stored.
func (p Product) SalePrice() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(1).Add(p.MarkupPercent.Div(hundred)))
}

// Shortfall is how many units are missing to reach the minimum stock.
// It is zero when the product is at or above its minimum.
func (p Product) Shortfall() int {
	if s := p.StockMinimum - p.Quantity; s > 0 {
		return s
	}
	return 0
}
