package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/shop-inventory/internal/repo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Result reports how an import went. Errors carry one message per failed row.
type Result struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

type Importer struct {
	products repo.ProductRepository
	log      zerolog.Logger
}

func NewImporter(products repo.ProductRepository, log zerolog.Logger) *Importer {
	return &Importer{products: products, log: log}
}

// Import reads a sheet and upserts its rows by name. Existing products get
// only the provided cells; new products take zero defaults for the rest.
// Row failures are counted and do not stop the batch.
func (im *Importer) Import(ctx context.Context, r io.Reader, format Format) (Result, error) {
	rows, err := readRows(r, format)
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{}, ErrMissingNameColumn
	}

	index := columnIndex(rows[0])
	if _, ok := index[colName]; !ok {
		return Result{}, ErrMissingNameColumn
	}

	var (
		result     Result
		patches    []repo.ProductPatch
		patchLines []int
	)
	fail := func(line int, err error) {
		msg := fmt.Sprintf("row %d: %v", line, err)
		result.Failed++
		result.Errors = append(result.Errors, msg)
		im.log.Warn().Int("row", line).Err(err).Msg("import row rejected")
	}

	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		patch, err := parseRow(row, index)
		if err != nil {
			fail(line, err)
			continue
		}
		patches = append(patches, patch)
		patchLines = append(patchLines, line)
	}

	if len(patches) > 0 {
		rowErrs, err := im.products.Import(ctx, patches)
		if err != nil {
			return Result{}, err
		}
		for i, rowErr := range rowErrs {
			if rowErr != nil {
				if errors.Is(rowErr, repo.ErrDuplicatedValueUnique) {
					rowErr = fmt.Errorf("product %q already exists", patches[i].Name)
				}
				fail(patchLines[i], rowErr)
				continue
			}
			result.Succeeded++
		}
	}

	im.log.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("import finished")
	return result, nil
}

func parseRow(row []string, index map[column]int) (repo.ProductPatch, error) {
	var patch repo.ProductPatch

	name, ok := cell(row, index, colName)
	if !ok {
		return patch, errors.New("name is required")
	}
	patch.Name = name

	var err error
	if patch.Quantity, err = intCell(row, index, colQuantity); err != nil {
		return patch, err
	}
	if patch.StockMinimum, err = intCell(row, index, colStockMinimum); err != nil {
		return patch, err
	}
	if patch.CostPrice, err = decimalCell(row, index, colCostPrice); err != nil {
		return patch, err
	}
	if patch.MarkupPercent, err = decimalCell(row, index, colMarkup); err != nil {
		return patch, err
	}
	if supplier, ok := cell(row, index, colSupplier); ok {
		patch.Supplier = &supplier
	}
	return patch, nil
}

// cell returns the trimmed value of col. A missing column or a blank cell
// reports false.
func cell(row []string, index map[column]int, col column) (string, bool) {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[i])
	return v, v != ""
}

var (
	maxInt = decimal.NewFromInt(math.MaxInt)
	minInt = decimal.NewFromInt(math.MinInt)
)

func intCell(row []string, index map[column]int, col column) (*int, error) {
	v, ok := cell(row, index, col)
	if !ok {
		return nil, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n, nil
	}
	// Spreadsheet tools often store whole numbers as "12.0".
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil || !d.IsInteger() {
		return nil, fmt.Errorf("%s: %q is not a whole number", columnTitles[col], v)
	}
	if d.GreaterThan(maxInt) || d.LessThan(minInt) {
		return nil, fmt.Errorf("%s: %q is out of range", columnTitles[col], v)
	}
	n := int(d.IntPart())
	return &n, nil
}

func decimalCell(row []string, index map[column]int, col column) (*decimal.Decimal, error) {
	v, ok := cell(row, index, col)
	if !ok {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", columnTitles[col], v)
	}
	return &d, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
