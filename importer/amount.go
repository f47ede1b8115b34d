package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/satheeshds/fintrack/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ParseAmount reads a non-negative money amount rounded to cents. It accepts
// plain decimals ("1234.56"), thousands separators in either convention
// ("1,234.56", "1.234,56") and a leading currency symbol ("R$ 12,90").
// A lone separator followed by exactly three digits after a non-zero group of
// at most three digits is a thousands separator: "1.234" and "1,234" are both
// 1234.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "R$€£¥ ")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Whichever separator comes last is the decimal point.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 || thousandsGroup(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || thousandsGroup(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must be non-negative, got %q", raw)
	}
	return d.Round(2), nil
}

// thousandsGroup reports whether the single sep in s splits a 1-3 digit
// leading group from a 3 digit group, as in "1.234" or "12,500".
func thousandsGroup(s, sep string) bool {
	head, tail, _ := strings.Cut(s, sep)
	head = strings.TrimPrefix(head, "-")
	return len(tail) == 3 && digits(tail) &&
		len(head) >= 1 && len(head) <= 3 && head[0] != '0' && digits(head)
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate accepts ISO and day-first dates, and spreadsheet date serials as
// stored in raw XLSX cells.
func parseDate(s string) (models.Date, error) {
	if s == "" {
		return models.Date{}, fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return models.NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return models.Date{}, fmt.Errorf("invalid date %q", s)
}
