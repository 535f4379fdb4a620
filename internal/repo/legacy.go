package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/shopspring/decimal"
)

type legacyProduct struct {
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	StockMinimum int             `json:"stock_minimum"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Supplier     string          `json:"supplier"`
}

// LoadLegacyProducts seeds an empty product table from the JSON product list
// kept by older installs. It returns the number of products inserted; a
// missing file or a non-empty table loads nothing.
func LoadLegacyProducts(ctx context.Context, products ProductRepository, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read legacy products: %w", err)
	}

	count, err := products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	var entries []legacyProduct
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse legacy products: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		_, err := products.Create(ctx, models.Product{
			Name:          e.Name,
			Quantity:      e.Quantity,
			StockMinimum:  e.StockMinimum,
			CostPrice:     e.CostPrice,
			Supplier:      e.Supplier,
			MarkupPercent: decimal.Zero,
		})
		if errors.Is(err, ErrDuplicatedValueUnique) {
			continue
		}
		if err != nil {
			return loaded, fmt.Errorf("failed to load legacy product %q: %w", e.Name, err)
		}
		loaded++
	}
	return loaded, nil
}
