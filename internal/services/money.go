package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseMoney parses a decimal amount from request or import text. Thousands
// separators are tolerated because CSV exports from spreadsheets carry them.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
