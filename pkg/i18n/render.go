package i18n

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type renderer struct {
	cat     *Catalog
	printer *message.Printer
	args    []any
	lang    Lang
	depth   int
}

func (r *renderer) run(t Template) string {
	if len(t.nodes) == 1 {
		if s, ok := t.nodes[0].(textNode); ok {
			return string(s)
		}
	}

	var b strings.Builder
	b.Grow(len(t.raw))
	r.write(t, &b)
	return b.String()
}

func (r *renderer) write(t Template, b *strings.Builder) {
	for _, n := range t.nodes {
		n.render(r, b)
	}
}

func (r *renderer) print() *message.Printer {
	if r.printer == nil {
		r.printer = message.NewPrinter(r.lang.Tag())
	}
	return r.printer
}

func (r *renderer) localeFormat() *LocaleFormat {
	return r.cat.locales.format(r.lang)
}

func (t textNode) render(_ *renderer, b *strings.Builder) {
	b.WriteString(string(t))
}

func (n *refNode) render(r *renderer, b *strings.Builder) {
	if r.cat == nil || r.depth >= maxRefDepth {
		b.WriteString(n.raw)
		return
	}

	tpl, ok := r.cat.Resolve(r.lang, n.key)
	if !ok {
		b.WriteString(n.raw)
		return
	}

	r.depth++
	r.write(tpl, b)
	r.depth--
}

func (n *argNode) render(r *renderer, b *strings.Builder) {
	if n.index >= len(r.args) {
		b.WriteString(n.raw)
		return
	}

	v := r.args[n.index]
	switch n.kind {
	case ArgNumber:
		if s, ok := r.formatNumber(v, n.style); ok {
			b.WriteString(s)
			return
		}
	case ArgDate:
		if t, ok := asTime(v); ok {
			b.WriteString(r.localeFormat().FormatDateStyle(t, n.style))
			return
		}
	case ArgTime:
		if t, ok := asTime(v); ok {
			b.WriteString(r.localeFormat().FormatTimeStyle(t, n.style))
			return
		}
	case ArgChoice:
		if f, _, ok := asNumber(v); ok {
			r.write(selectChoice(n.options, f), b)
			return
		}
	case ArgPlural:
		if f, _, ok := asNumber(v); ok {
			if sub, found := r.selectPlural(n.options, f); found {
				r.write(sub, b)
				return
			}
		}
	}

	b.WriteString(r.display(v))
}

// display renders a value with no explicit argument type.
func (r *renderer) display(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return r.localeFormat().FormatDateTime(val)
	case *time.Time:
		if val != nil {
			return r.localeFormat().FormatDateTime(*val)
		}
		return ""
	}

	if _, _, ok := asNumber(v); ok {
		return r.print().Sprint(v)
	}
	// fmt recovers panics of String and Error on nil receivers.
	return fmt.Sprint(v)
}

func (r *renderer) formatNumber(v any, style string) (string, bool) {
	f, isInt, ok := asNumber(v)
	if !ok {
		return "", false
	}

	switch style {
	case "":
		if isInt {
			return r.print().Sprint(v), true
		}
		return r.print().Sprint(number.Decimal(f, number.MaxFractionDigits(3))), true
	case "integer":
		return r.print().Sprint(number.Decimal(math.Round(f), number.MaxFractionDigits(0))), true
	case "percent":
		return r.localeFormat().FormatPercent(f), true
	case "currency":
		return r.localeFormat().FormatCurrency(f), true
	}

	minFrac, maxFrac := patternFractionDigits(style)
	return r.print().Sprint(number.Decimal(f,
		number.MinFractionDigits(minFrac),
		number.MaxFractionDigits(maxFrac),
	)), true
}

// patternFractionDigits reads a DecimalFormat-like pattern such as "#,##0.00#":
// '0' after the point is a required digit, '#' an optional one.
func patternFractionDigits(pattern string) (minFrac, maxFrac int) {
	_, frac, ok := strings.Cut(pattern, ".")
	if !ok {
		return 0, 0
	}
	for _, c := range frac {
		switch c {
		case '0':
			minFrac++
			maxFrac++
		case '#':
			maxFrac++
		default:
			return minFrac, maxFrac
		}
	}
	return minFrac, maxFrac
}

// selectChoice picks the last option whose limit the value reaches.
// Values below the first limit select the first option.
func selectChoice(opts []option, f float64) Template {
	sel := 0
	for i, o := range opts {
		if o.open && f > o.limit || !o.open && f >= o.limit {
			sel = i
			continue
		}
		break
	}
	return opts[sel].sub
}

func (r *renderer) selectPlural(opts []option, f float64) (Template, bool) {
	n := int(f)
	whole := float64(n) == f

	if whole {
		exact := "=" + strconv.Itoa(n)
		for _, o := range opts {
			if o.selector == exact {
				return o.sub, true
			}
		}
	}

	form := PluralOther
	if whole {
		form = r.cat.locales.plural(r.lang)(n)
	}

	for _, want := range append([]string{form}, pluralFallbacks(form)...) {
		for _, o := range opts {
			if o.selector == want {
				return o.sub, true
			}
		}
	}
	return Template{}, false
}

func asNumber(v any) (f float64, isInt bool, ok bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true, true
	case int8:
		return float64(n), true, true
	case int16:
		return float64(n), true, true
	case int32:
		return float64(n), true, true
	case int64:
		return float64(n), true, true
	case uint:
		return float64(n), true, true
	case uint8:
		return float64(n), true, true
	case uint16:
		return float64(n), true, true
	case uint32:
		return float64(n), true, true
	case uint64:
		return float64(n), true, true
	case float32:
		return float64(n), false, true
	case float64:
		return n, false, true
	}
	return 0, false, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
