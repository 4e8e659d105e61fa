package common

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders money and dates for display using a fixed locale.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter builds a formatter for the given BCP 47 locale and fallback
// currency code. Unparseable locales fall back to English.
func NewFormatter(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Money renders an amount with locale-aware grouping and two decimals,
// prefixed with the currency code. An empty code uses the fallback currency.
func (f *Formatter) Money(amount float64, code string) string {
	if code == "" {
		code = f.currency
	}
	return f.printer.Sprintf("%s %v", code,
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Percent renders a ratio in [0,100] with one decimal.
func (f *Formatter) Percent(pct float64) string {
	return f.printer.Sprintf("%v%%", number.Decimal(pct, number.MaxFractionDigits(1)))
}

// Date renders a calendar date for display.
func (f *Formatter) Date(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// DateTime renders a timestamp for display.
func (f *Formatter) DateTime(t time.Time) string {
	return t.Format("02 Jan 2006 15:04")
}
