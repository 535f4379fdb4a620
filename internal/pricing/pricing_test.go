package pricing

import (
	"testing"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Cable HDMI", Quantity: 3, CostPrice: dec("100"), MarkupPercent: dec("20"), Supplier: "Distribuidora Norte"},
		{ID: 2, Name: "Mouse", Quantity: 10, CostPrice: dec("12.50"), MarkupPercent: dec("50"), Supplier: "Tecno Sur"},
		{ID: 3, Name: "Teclado", Quantity: 0, CostPrice: dec("40"), MarkupPercent: decimal.Zero, Supplier: "Tecno Sur"},
	}
}

func TestSalePrice(t *testing.T) {
	p := models.Product{CostPrice: dec("100"), MarkupPercent: dec("20")}
	assert.True(t, p.SalePrice().Equal(dec("120")), "got %s", p.SalePrice())

	noMarkup := models.Product{CostPrice: dec("47473.63")}
	assert.True(t, noMarkup.SalePrice().Equal(dec("47473.63")))
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize(sampleProducts(), "", MatchAny)
	require.Len(t, s.Products, 3)

	var cost, sale decimal.Decimal
	for _, p := range s.Products {
		q := decimal.NewFromInt(int64(p.Quantity))
		cost = cost.Add(q.Mul(p.CostPrice))
		sale = sale.Add(q.Mul(p.SalePrice))
	}

	assert.True(t, s.Totals.TotalCost.Equal(cost))
	assert.True(t, s.Totals.TotalSale.Equal(sale))
	assert.True(t, s.Totals.TotalCost.Equal(dec("425")), "got %s", s.Totals.TotalCost)
	assert.True(t, s.Totals.TotalSale.Equal(dec("547.5")), "got %s", s.Totals.TotalSale)
	assert.True(t, s.Totals.Margin.Equal(dec("122.5")), "got %s", s.Totals.Margin)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, "", MatchAny)
	assert.Empty(t, s.Products)
	assert.True(t, s.Totals.TotalCost.IsZero())
	assert.True(t, s.Totals.TotalSale.IsZero())
	assert.True(t, s.Totals.Margin.IsZero())
}

func TestSummarizeFiltersBeforeTotals(t *testing.T) {
	s := Summarize(sampleProducts(), "tecno", MatchAny)
	require.Len(t, s.Products, 2)
	assert.True(t, s.Totals.TotalCost.Equal(dec("125")), "got %s", s.Totals.TotalCost)
	assert.True(t, s.Totals.TotalSale.Equal(dec("187.5")), "got %s", s.Totals.TotalSale)
}

func TestFilterMatch(t *testing.T) {
	products := sampleProducts()

	assert.Len(t, Filter(products, "MOUSE", MatchName), 1)
	assert.Empty(t, Filter(products, "tecno", MatchName))
	assert.Len(t, Filter(products, "tecno", MatchSupplier), 2)
	assert.Len(t, Filter(products, "  ", MatchName), 3)
}
