package i18n

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Date and time styles accepted by {n,date,style} and {n,time,style}.
const (
	StyleShort  = "short"
	StyleMedium = "medium"
	StyleLong   = "long"
	StyleFull   = "full"
)

// LocaleFormat holds the separators, currency placement and date/time layouts of a locale.
// It is immutable after creation and safe for concurrent use.
type LocaleFormat struct {
	decimalSeparator  string
	thousandSeparator string
	currencySymbol    string
	percentSymbol     string
	dateLayout        string
	longDateLayout    string
	timeLayout        string
	longTimeLayout    string
	currencyAfter     bool
}

// LocaleFormatOption configures a LocaleFormat during construction.
type LocaleFormatOption func(*LocaleFormat)

// NewLocaleFormat creates a LocaleFormat. Without options it formats like en-US.
func NewLocaleFormat(opts ...LocaleFormatOption) *LocaleFormat {
	lf := &LocaleFormat{
		decimalSeparator:  ".",
		thousandSeparator: ",",
		currencySymbol:    "$",
		percentSymbol:     "%",
		dateLayout:        "01/02/2006",
		timeLayout:        "3:04 PM",
	}

	for _, opt := range opts {
		opt(lf)
	}

	if lf.longDateLayout == "" {
		lf.longDateLayout = lf.dateLayout
	}
	if lf.longTimeLayout == "" {
		lf.longTimeLayout = lf.timeLayout
	}

	return lf
}

// WithDecimalSeparator sets the decimal separator.
func WithDecimalSeparator(sep string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.decimalSeparator = sep }
}

// WithThousandSeparator sets the grouping separator.
func WithThousandSeparator(sep string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.thousandSeparator = sep }
}

// WithCurrencySymbol sets the currency symbol.
func WithCurrencySymbol(symbol string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.currencySymbol = symbol }
}

// WithCurrencyAfter places the currency symbol after the amount, separated by a space.
func WithCurrencyAfter() LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.currencyAfter = true }
}

// WithPercentSymbol sets the percent symbol.
func WithPercentSymbol(symbol string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.percentSymbol = symbol }
}

// WithDateLayout sets the short/medium date layout (Go time layout).
func WithDateLayout(layout string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.dateLayout = layout }
}

// WithLongDateLayout sets the layout used for the long and full date styles.
func WithLongDateLayout(layout string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.longDateLayout = layout }
}

// WithTimeLayout sets the short/medium time layout (Go time layout).
func WithTimeLayout(layout string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.timeLayout = layout }
}

// WithLongTimeLayout sets the layout used for the long and full time styles.
func WithLongTimeLayout(layout string) LocaleFormatOption {
	return func(lf *LocaleFormat) { lf.longTimeLayout = layout }
}

// FormatNumber formats n with up to two fraction digits.
func (lf *LocaleFormat) FormatNumber(n float64) string {
	return lf.formatDecimal(n, 0, 2)
}

// FormatCurrency formats an amount with exactly two fraction digits and the currency symbol.
func (lf *LocaleFormat) FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	num := lf.formatDecimal(amount, 2, 2)
	if lf.currencyAfter {
		return sign + num + " " + lf.currencySymbol
	}
	return sign + lf.currencySymbol + num
}

// FormatPercent formats a ratio (0.5 is 50%) with up to one fraction digit.
func (lf *LocaleFormat) FormatPercent(n float64) string {
	return lf.formatDecimal(n*100, 0, 1) + lf.percentSymbol
}

// FormatDate formats t with the short date layout.
func (lf *LocaleFormat) FormatDate(t time.Time) string {
	return t.Format(lf.dateLayout)
}

// FormatTime formats t with the short time layout.
func (lf *LocaleFormat) FormatTime(t time.Time) string {
	return t.Format(lf.timeLayout)
}

// FormatDateTime formats t as date followed by time.
func (lf *LocaleFormat) FormatDateTime(t time.Time) string {
	return t.Format(lf.dateLayout + " " + lf.timeLayout)
}

// FormatDateStyle formats the date part of t. style is one of the Style constants;
// any other non-empty value is used as a Go time layout.
func (lf *LocaleFormat) FormatDateStyle(t time.Time, style string) string {
	switch style {
	case "", StyleShort, StyleMedium:
		return t.Format(lf.dateLayout)
	case StyleLong, StyleFull:
		return t.Format(lf.longDateLayout)
	}
	return t.Format(style)
}

// FormatTimeStyle formats the time part of t. See FormatDateStyle.
func (lf *LocaleFormat) FormatTimeStyle(t time.Time, style string) string {
	switch style {
	case "", StyleShort, StyleMedium:
		return t.Format(lf.timeLayout)
	case StyleLong, StyleFull:
		return t.Format(lf.longTimeLayout)
	}
	return t.Format(style)
}

// formatDecimal rounds n to maxFrac digits and keeps at least minFrac of them.
func (lf *LocaleFormat) formatDecimal(n float64, minFrac, maxFrac int) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatFloat(n, 'f', maxFrac, 64)
	intPart, frac, _ := strings.Cut(digits, ".")

	for len(frac) > minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}

	out := groupDigits(intPart, lf.thousandSeparator)
	if frac != "" {
		out += lf.decimalSeparator + frac
	}
	if out == "0" {
		sign = ""
	}
	return sign + out
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
