// Package format renders prices and daily changes for display.
package format

import (
	"log/slog"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formats numbers using a locale's separators.
type Formatter struct {
	printer *message.Printer
	symbol  string
	logger  *slog.Logger
}

// New creates a Formatter for tag. Prices are prefixed with "$".
func New(tag language.Tag, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  "$",
		logger:  logger,
	}
}

var english = New(language.English, nil)

// Price formats v with the default English formatter.
func Price(v float64) string {
	return english.Price(v)
}

// Percent formats v with the default English formatter.
func Percent(v float64) string {
	return english.Percent(v)
}

// Price formats a USD price. Fraction digits grow as the price shrinks so
// sub-cent coins stay readable. Negative prices render empty and the
// largest float renders as "∞".
func (f *Formatter) Price(v float64) string {
	switch {
	case v < 0 || math.IsNaN(v):
		f.logger.Error("cannot format negative price", "value", v)
		return ""
	case v == math.MaxFloat64 || math.IsInf(v, 1):
		f.logger.Error("cannot format unbounded price", "value", v)
		return "∞"
	}

	digits := priceDigits(v)
	return f.symbol + f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits)))
}

// Percent formats a relative change (0.1234 = 12.34%) with two decimals.
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprint(number.Percent(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

func priceDigits(v float64) int {
	switch {
	case v == 0 || v == math.SmallestNonzeroFloat64:
		return 2
	case v < 0.0001:
		return 8
	case v < 1:
		return 4
	default:
		return 2
	}
}
