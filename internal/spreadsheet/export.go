package spreadsheet

import (
	"context"
	"io"
	"time"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
)

const (
	priceListSheet = "Price List"
	productsSheet  = "Products"
)

func PriceListFileName(format Format) string {
	return "price_list" + format.Ext()
}

func ExportFileName(now time.Time, format Format) string {
	return "products_export_" + now.Format("20060102") + format.Ext()
}

type Exporter struct {
	products repo.ProductRepository
}

func NewExporter(products repo.ProductRepository) *Exporter {
	return &Exporter{products: products}
}

// PriceList writes every product with its computed sale price.
func (e *Exporter) PriceList(ctx context.Context, w io.Writer, format Format) error {
	products, err := e.products.GetAll(ctx)
	if err != nil {
		return err
	}

	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = []any{p.Name, p.CostPrice, p.MarkupPercent, p.SalePrice().Round(2), p.Supplier}
	}
	return writeRows(w, format, priceListSheet, titles(priceListColumns), rows)
}

// Products writes every product using the import column layout, so the
// file can be edited and imported back.
func (e *Exporter) Products(ctx context.Context, w io.Writer, format Format) error {
	products, err := e.products.GetAll(ctx)
	if err != nil {
		return err
	}

	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = productRow(p)
	}
	return writeRows(w, format, productsSheet, titles(importColumns), rows)
}

func productRow(p models.Product) []any {
	return []any{p.Name, p.CostPrice, p.MarkupPercent, p.Quantity, p.StockMinimum, p.Supplier}
}
