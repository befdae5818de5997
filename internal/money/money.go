// Package money renders prices for display.
package money

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "es-AR"
	DefaultCurrency = "ARS"
)

// Formatter formats amounts for one locale. The zero value is not usable; use New.
type Formatter struct {
	tag      language.Tag
	currency string
	printer  *message.Printer
}

// New returns a Formatter for locale and the default currency code. An
// unparseable locale falls back to DefaultLocale.
func New(locale, code string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	if code == "" {
		code = DefaultCurrency
	}
	return Formatter{
		tag:      tag,
		currency: code,
		printer:  message.NewPrinter(tag),
	}
}

var defaultFormatter = New(DefaultLocale, DefaultCurrency)

// Format renders amount with the process-wide locale and currency.
func Format(amount float64) string {
	return defaultFormatter.Format(amount)
}

func (f Formatter) Currency() string {
	return f.currency
}

func (f Formatter) Locale() string {
	return f.tag.String()
}

// Format renders amount in the formatter's currency.
func (f Formatter) Format(amount float64) string {
	return f.FormatIn(amount, f.currency)
}

// FormatIn renders amount in the currency identified by code. When code is not
// a recognized ISO 4217 currency, the amount is rendered as a plain localized
// number followed by the code.
func (f Formatter) FormatIn(amount float64, code string) string {
	amount = Sanitize(amount)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return f.printer.Sprintf("%v", number.Decimal(amount)) + " " + code
	}
	return f.printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// Sanitize maps values with no numeric meaning (NaN, ±Inf) to zero.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
