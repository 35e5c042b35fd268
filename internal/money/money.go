// Package money validates currency codes and renders prices for display.
package money

import (
	"math"
	"strings"

	"pricehunt/internal/model"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when a feed or request omits a currency.
const DefaultCurrency = "USD"

// ParseCurrency validates an ISO 4217 code and returns it upper-cased.
// An empty code yields DefaultCurrency.
func ParseCurrency(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultCurrency, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", model.ErrInvalidCurrency
	}
	return unit.String(), nil
}

// Format renders amount in the given currency using the conventions of lang,
// e.g. "USD 1,299.00" for English.
func Format(amount float64, code string, lang language.Tag) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", model.ErrInvalidCurrency
	}
	p := message.NewPrinter(lang)
	return p.Sprint(currency.ISO(unit.Amount(amount))), nil
}

// Round rounds amount to whole cents.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
