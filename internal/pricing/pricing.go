// Package pricing derives sale prices and stock valuation totals.
package pricing

import (
	"strings"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/shopspring/decimal"
)

// Match selects which product fields a search query is compared against.
type Match int

const (
	MatchName Match = 1 << iota
	MatchSupplier

	MatchAny = MatchName | MatchSupplier
)

type PricedProduct struct {
	models.Product
	SalePrice decimal.Decimal `json:"sale_price"`
}

type Totals struct {
	TotalCost decimal.Decimal `json:"total_cost"`
	TotalSale decimal.Decimal `json:"total_sale"`
	Margin    decimal.Decimal `json:"margin"`
}

type Summary struct {
	Products []PricedProduct `json:"products"`
	Totals   Totals          `json:"totals"`
}

// Filter keeps the products whose selected fields contain query,
// case-insensitively. An empty query keeps everything.
func Filter(products []models.Product, query string, match Match) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if match&MatchName != 0 && strings.Contains(strings.ToLower(p.Name), q) {
			filtered = append(filtered, p)
			continue
		}
		if match&MatchSupplier != 0 && strings.Contains(strings.ToLower(p.Supplier), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Summarize filters products and then prices and totals what is left.
func Summarize(products []models.Product, query string, match Match) Summary {
	filtered := Filter(products, query, match)

	s := Summary{
		Products: make([]PricedProduct, len(filtered)),
		Totals:   Totals{TotalCost: decimal.Zero, TotalSale: decimal.Zero, Margin: decimal.Zero},
	}
	for i, p := range filtered {
		sale := p.SalePrice()
		qty := decimal.NewFromInt(int64(p.Quantity))

		s.Products[i] = PricedProduct{Product: p, SalePrice: sale}
		s.Totals.TotalCost = s.Totals.TotalCost.Add(qty.Mul(p.CostPrice))
		s.Totals.TotalSale = s.Totals.TotalSale.Add(qty.Mul(sale))
	}
	s.Totals.Margin = s.Totals.TotalSale.Sub(s.Totals.TotalCost)
	return s
}
