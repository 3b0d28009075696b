// Package formatter converts raw cell strings into display strings.
//
// Every function here is pure. Malformed input never produces an error; it
// is returned unchanged.
package formatter

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Kind selects a formatting rule.
type Kind string

// Supported kinds. An empty or unknown kind passes the value through.
const (
	KindNumber     Kind = "number"
	KindPercentage Kind = "percentage"
	KindYear       Kind = "year"
	KindCurrency   Kind = "currency"
	KindText       Kind = "text"
)

// Placeholder is shown for empty values.
const Placeholder = "-"

// Defaults for locale aware output.
const (
	DefaultLocale   = "zh-TW"
	DefaultCurrency = "TWD"
)

const (
	million  = 1_000_000
	thousand = 1_000
)

// Formatter renders values for one locale and currency.
type Formatter struct {
	locale   language.Tag
	currency currency.Unit
	printer  *message.Printer
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLocale sets the BCP 47 locale used for grouping. Invalid tags are ignored.
func WithLocale(tag string) Option {
	return func(f *Formatter) {
		if t, err := language.Parse(tag); err == nil {
			f.locale = t
		}
	}
}

// WithCurrency sets the ISO 4217 currency code. Invalid codes are ignored.
func WithCurrency(code string) Option {
	return func(f *Formatter) {
		if u, err := currency.ParseISO(code); err == nil {
			f.currency = u
		}
	}
}

// New builds a Formatter, defaulting to zh-TW and TWD.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		locale:   language.MustParse(DefaultLocale),
		currency: currency.MustParseISO(DefaultCurrency),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.printer = message.NewPrinter(f.locale)
	return f
}

// Locale returns the configured locale tag.
func (f *Formatter) Locale() string { return f.locale.String() }

// Currency returns the configured ISO currency code.
func (f *Formatter) Currency() string { return f.currency.String() }

// Format renders raw according to kind.
func (f *Formatter) Format(raw string, kind Kind) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Placeholder
	}

	switch kind {
	case KindNumber:
		return f.formatNumber(v)
	case KindPercentage:
		return formatPercentage(v)
	case KindCurrency:
		return f.formatCurrency(v, f.printer, f.currency)
	default:
		// year, text and unknown kinds are shown as-is
		return v
	}
}

// FormatCurrency renders raw as money for a caller supplied locale and
// currency code, falling back to the formatter defaults for invalid ones.
func (f *Formatter) FormatCurrency(raw, locale, code string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Placeholder
	}
	p := f.printer
	if t, err := language.Parse(locale); err == nil {
		p = message.NewPrinter(t)
	}
	unit := f.currency
	if u, err := currency.ParseISO(code); err == nil {
		unit = u
	}
	return f.formatCurrency(v, p, unit)
}

func (f *Formatter) formatNumber(v string) string {
	n, ok := parseInteger(v)
	if !ok {
		return v
	}
	switch abs := absInt(n); {
	case abs >= million:
		return fixed1(float64(n)/million) + "M"
	case abs >= thousand:
		return fixed1(float64(n)/thousand) + "K"
	}
	return f.Integer(n)
}

func formatPercentage(v string) string {
	x, ok := parseFloat(strings.TrimSuffix(v, "%"))
	if !ok {
		return v
	}
	return fixed1(x) + "%"
}

func (f *Formatter) formatCurrency(v string, p *message.Printer, unit currency.Unit) string {
	x, ok := parseFloat(v)
	if !ok {
		return v
	}
	return p.Sprint(currency.Symbol(unit.Amount(x)))
}

// Integer renders n with locale digit grouping.
func (f *Formatter) Integer(n int64) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Decimal renders x grouped with exactly digits fraction digits.
func (f *Formatter) Decimal(x float64, digits int) string {
	return f.printer.Sprint(number.Decimal(x, number.Scale(digits)))
}

// Compact renders x grouped with at most digits fraction digits.
func (f *Formatter) Compact(x float64, digits int) string {
	return f.printer.Sprint(number.Decimal(x, number.MaxFractionDigits(digits)))
}

// Abbreviate renders x with the K/M suffix rule used for numbers.
func (f *Formatter) Abbreviate(x float64) string {
	switch abs := math.Abs(x); {
	case abs >= million:
		return fixed1(x/million) + "M"
	case abs >= thousand:
		return fixed1(x/thousand) + "K"
	}
	return f.Compact(x, 2)
}

// RoundHalfAway rounds x to digits decimals, halves away from zero.
func RoundHalfAway(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

// fixed1 renders x with one decimal using round-half-away-from-zero.
func fixed1(x float64) string {
	return strconv.FormatFloat(RoundHalfAway(x, 1), 'f', 1, 64)
}

// parseInteger accepts a base-10 integer; decimal literals are truncated
// toward zero. Anything else is not a number.
func parseInteger(v string) (int64, bool) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, true
	}
	x, ok := parseFloat(v)
	if !ok || math.Abs(x) > math.MaxInt64 {
		return 0, false
	}
	return int64(x), true
}

func parseFloat(v string) (float64, bool) {
	x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// ParseFloat exposes the numeric rule used by percentage and currency
// formatting so chart series accept exactly the same cells.
func ParseFloat(v string) (float64, bool) {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"))
}

func absInt(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
