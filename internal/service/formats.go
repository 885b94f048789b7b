package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/patogeno/family-budget-app/internal/config"
)

// NormalizedRecord is one statement row after bank-specific parsing. Amount
// and balance stay as cleaned decimal strings until persistence; Balance is
// nil for formats that do not report it.
type NormalizedRecord struct {
	Date        string // YYYY-MM-DD
	Description string
	Amount      string
	Balance     *string
}

// ParseStatement converts raw CSV rows into normalized records using the
// given bank format's column layout. Dates arrive as day/month/year and are
// re-emitted as year-month-day; amount and balance fields are stripped of
// currency symbols and thousands separators but not converted to numbers.
func ParseStatement(rows [][]string, f config.BankFormat) ([]NormalizedRecord, error) {
	if f.SkipRows > 0 && len(rows) > 0 {
		skip := f.SkipRows
		if skip > len(rows) {
			skip = len(rows)
		}
		rows = rows[skip:]
	}

	minCols := f.DateCol
	for _, c := range []int{f.DescCol, f.AmountCol, f.BalanceCol} {
		if c > minCols {
			minCols = c
		}
	}
	minCols++

	out := make([]NormalizedRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < minCols {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", i+1, minCols, len(row))
		}
		date, err := normalizeDate(row[f.DateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rec := NormalizedRecord{
			Date:        date,
			Description: row[f.DescCol],
			Amount:      cleanMoney(row[f.AmountCol]),
		}
		if f.BalanceCol >= 0 {
			b := cleanMoney(row[f.BalanceCol])
			rec.Balance = &b
		}
		out = append(out, rec)
	}
	return out, nil
}

// normalizeDate parses day/month/year (single-digit day and month tolerated)
// and re-emits year-month-day.
func normalizeDate(s string) (string, error) {
	t, err := time.Parse("2/1/2006", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.Format(time.DateOnly), nil
}

// cleanMoney strips currency symbols and thousands separators, leaving a
// plain signed decimal string.
func cleanMoney(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
