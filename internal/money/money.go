// Package money formats amounts for display.
package money

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "RWF"

// Formatter renders amounts as "<CODE> <grouped number>", e.g. "RWF 5,000,000".
type Formatter struct {
	currency string
	printer  *message.Printer
}

// NewFormatter creates a Formatter for the given currency code using English
// digit grouping.
func NewFormatter(currency string) *Formatter {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Formatter{
		currency: currency,
		printer:  message.NewPrinter(language.English),
	}
}

// Currency returns the configured currency code.
func (f *Formatter) Currency() string {
	return f.currency
}

// Format renders amount with at most two fraction digits.
func (f *Formatter) Format(amount float64) string {
	return f.currency + " " + f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}
