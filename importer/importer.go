// Package importer reads purchase invoice spreadsheets into invoice lines.
//
// XLSX workbooks are read with excelize (first sheet only); CSV files are
// loaded through an in-memory DuckDB with read_csv, which handles delimiter
// and quoting detection. Both formats need a header row naming the date,
// description and amount columns; category is optional.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/satheeshds/fintrack/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")
	ErrNoRows            = errors.New("file contains no invoice lines")
)

// RowError reports an invalid line. Row is the 1-based row number in the
// file, header included.
type RowError struct {
	Row int
	Msg string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Msg)
}

// Parse reads the invoice in r. The format is chosen by the extension of
// filename.
func Parse(ctx context.Context, filename string, r io.Reader) ([]models.InvoiceLine, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(ctx, r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

type columns struct {
	date, description, amount, category int
}

var headerAliases = map[string]string{
	"date":        "date",
	"data":        "date",
	"description": "description",
	"descricao":   "description",
	"descrição":   "description",
	"amount":      "amount",
	"valor":       "amount",
	"value":       "amount",
	"category":    "category",
	"categoria":   "category",
}

func mapHeader(header []string) (columns, error) {
	cols := columns{date: -1, description: -1, amount: -1, category: -1}
	for i, h := range header {
		switch headerAliases[strings.ToLower(strings.TrimSpace(h))] {
		case "date":
			cols.date = i
		case "description":
			cols.description = i
		case "amount":
			cols.amount = i
		case "category":
			cols.category = i
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, "date")
	}
	if cols.description < 0 {
		missing = append(missing, "description")
	}
	if cols.amount < 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return cols, &RowError{Row: 1, Msg: "missing column(s): " + strings.Join(missing, ", ")}
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseRows converts a header row plus data rows into invoice lines. Blank
// rows are skipped; the first invalid row aborts the parse.
func parseRows(rows [][]string) ([]models.InvoiceLine, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	lines := []models.InvoiceLine{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}

		date, err := parseDate(cell(row, cols.date))
		if err != nil {
			return nil, &RowError{Row: rowNum, Msg: err.Error()}
		}
		amount, err := ParseAmount(cell(row, cols.amount))
		if err != nil {
			return nil, &RowError{Row: rowNum, Msg: err.Error()}
		}
		description := cell(row, cols.description)
		if description == "" {
			return nil, &RowError{Row: rowNum, Msg: "description is required"}
		}

		f, _ := amount.Float64()
		lines = append(lines, models.InvoiceLine{
			Row:         rowNum,
			Date:        date,
			Description: description,
			Amount:      f,
			Category:    cell(row, cols.category),
		})
	}

	if len(lines) == 0 {
		return nil, ErrNoRows
	}
	return lines, nil
}
