package importer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/satheeshds/fintrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"$12", "12"},
		{"12,9", "12.9"},
		{"1,234", "1234"},
		{"1.234", "1234"},
		{"R$ 1.234", "1234"},
		{"R$ 12.500", "12500"},
		{"1234.567", "1234.57"},
		{"0,005", "0.01"},
		{"1,2345", "1.23"},
		{"1.234.567", "1234567"},
		{"0.005", "0.01"},
		{" 7 ", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	for _, bad := range []string{"", "abc", "-5", "1,2,3.4.5"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseAmount(bad)
			assert.Error(t, err)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := models.NewDate(2024, time.May, 2)
	for _, in := range []string{"2024-05-02", "02/05/2024", "2024/05/02", "2024-05-02 10:30:00", "45414"} {
		got, err := parseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDate("")
	assert.Error(t, err)
	_, err = parseDate("yesterday")
	assert.Error(t, err)
}

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"Date", " Description ", "Amount", "Category"},
		{"2024-05-02", "Bakery", "12,30", "Food"},
		{"", "", "", ""},
		{"2024-05-03", "Fuel", "200"},
	}

	lines, err := parseRows(rows)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, models.InvoiceLine{
		Row: 2, Date: models.NewDate(2024, time.May, 2), Description: "Bakery", Amount: 12.3, Category: "Food",
	}, lines[0])
	assert.Equal(t, 4, lines[1].Row)
	assert.Equal(t, "", lines[1].Category)
}

func TestParseRows_PortugueseHeader(t *testing.T) {
	lines, err := parseRows([][]string{
		{"Data", "Descrição", "Valor"},
		{"02/05/2024", "Padaria", "R$ 1.234,56"},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1234.56, lines[0].Amount)
}

func TestParseRows_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantRow int
		wantMsg string
	}{
		{"missing columns", [][]string{{"date", "memo"}}, 1, "description, amount"},
		{"bad amount", [][]string{{"date", "description", "amount"}, {"2024-01-01", "a", "1"}, {"2024-01-02", "b", "lots"}}, 3, "invalid amount"},
		{"negative amount", [][]string{{"date", "description", "amount"}, {"2024-01-01", "a", "-1"}}, 2, "non-negative"},
		{"bad date", [][]string{{"date", "description", "amount"}, {"soon", "a", "1"}}, 2, "invalid date"},
		{"no description", [][]string{{"date", "description", "amount"}, {"2024-01-01", "", "1"}}, 2, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRows(tt.rows)
			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr), "got %v", err)
			assert.Equal(t, tt.wantRow, rowErr.Row)
			assert.Contains(t, rowErr.Msg, tt.wantMsg)
		})
	}

	_, err := parseRows(nil)
	assert.ErrorIs(t, err, ErrNoRows)
	_, err = parseRows([][]string{{"date", "description", "amount"}, {"", ""}})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse(context.Background(), "invoice.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Description", "Amount", "Category"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), "Bakery", 12.3, "Food"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"2024-05-03", "Fuel", "1.234,50"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	lines, err := Parse(context.Background(), "Invoice.XLSX", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, models.NewDate(2024, time.May, 2), lines[0].Date)
	assert.Equal(t, 12.3, lines[0].Amount)
	assert.Equal(t, "Food", lines[0].Category)
	assert.Equal(t, 4, lines[1].Row)
	assert.Equal(t, 1234.5, lines[1].Amount)
}

func TestParse_XLSXCorrupt(t *testing.T) {
	_, err := Parse(context.Background(), "invoice.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestParse_CSV(t *testing.T) {
	csv := "date,description,amount,category\n" +
		"2024-05-02,Bakery,\"1,234.56\",Food\n" +
		"2024-05-03,\"Fuel, premium\",200,\n"

	lines, err := Parse(context.Background(), "invoice.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, 1234.56, lines[0].Amount)
	assert.Equal(t, "Fuel, premium", lines[1].Description)
	assert.Equal(t, 3, lines[1].Row)
	assert.Equal(t, "", lines[1].Category)
}

func TestParse_CSVInvalidRow(t *testing.T) {
	csv := "date,description,amount\n2024-05-02,Bakery,12\n2024-05-03,Fuel,twelve\n"

	_, err := Parse(context.Background(), "invoice.csv", strings.NewReader(csv))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Row)
}
