package spreadsheet

import "strings"

type column int

const (
	colName column = iota
	colCostPrice
	colMarkup
	colQuantity
	colStockMinimum
	colSupplier
	colSalePrice
)

var columnTitles = map[column]string{
	colName:         "Name",
	colCostPrice:    "Cost Price",
	colMarkup:       "% Markup",
	colQuantity:     "Quantity",
	colStockMinimum: "Minimum Stock",
	colSupplier:     "Supplier",
	colSalePrice:    "Sale Price",
}

// Headers written by older installs are still accepted on import.
var columnAliases = map[string]column{
	"nombre":         colName,
	"precio costo":   colCostPrice,
	"% ganancia":     colMarkup,
	"cantidad":       colQuantity,
	"stock mínimo":   colStockMinimum,
	"stock minimo":   colStockMinimum,
	"proveedor":      colSupplier,
	"precio venta":   colSalePrice,
	"stock minimum":  colStockMinimum,
	"markup":         colMarkup,
	"markup percent": colMarkup,
}

// importColumns are the columns an import reads, in export order.
var importColumns = []column{colName, colCostPrice, colMarkup, colQuantity, colStockMinimum, colSupplier}

var priceListColumns = []column{colName, colCostPrice, colMarkup, colSalePrice, colSupplier}

func titles(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = columnTitles[c]
	}
	return out
}

func lookupColumn(header string) (column, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	for c, title := range columnTitles {
		if strings.ToLower(title) == key {
			return c, true
		}
	}
	c, ok := columnAliases[key]
	return c, ok
}

// columnIndex maps each recognised header to its position. The first
// occurrence of a duplicated header wins.
func columnIndex(header []string) map[column]int {
	index := make(map[column]int, len(header))
	for i, h := range header {
		c, ok := lookupColumn(h)
		if !ok {
			continue
		}
		if _, seen := index[c]; !seen {
			index[c] = i
		}
	}
	return index
}
