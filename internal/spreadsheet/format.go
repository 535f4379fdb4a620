// Package spreadsheet reads and writes product sheets as xlsx or csv.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format, use .xlsx or .csv")
	ErrMissingNameColumn = errors.New("the sheet must contain at least the 'Name' column")
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FormatOf picks the format from a file name's extension.
func FormatOf(filename string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ParseFormat parses a format name. An empty name means xlsx.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", ErrUnsupportedFormat
}

// readRows returns every row of the first sheet. Rows may be ragged.
func readRows(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
		}
		return rows, nil

	case FormatCSV:
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		return rows, nil
	}
	return nil, ErrUnsupportedFormat
}

// writeRows writes header and rows to a single sheet named sheet.
func writeRows(w io.Writer, format Format, sheet string, header []string, rows [][]any) error {
	switch format {
	case FormatXLSX:
		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}

		headerRow := make([]any, len(header))
		for i, h := range header {
			headerRow[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			values := xlsxValues(row)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
		return f.Write(w)

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		record := make([]string, len(header))
		for _, row := range rows {
			for i, v := range row {
				record[i] = fmt.Sprint(v)
			}
			if err := cw.Write(record[:len(row)]); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return ErrUnsupportedFormat
}

// xlsxValues stores decimals as numeric cells.
func xlsxValues(row []any) []any {
	values := make([]any, len(row))
	for i, v := range row {
		if d, ok := v.(decimal.Decimal); ok {
			values[i] = d.InexactFloat64()
			continue
		}
		values[i] = v
	}
	return values
}
