package money

import (
	"strings"
)

// FormatFlag selects optional parts of Format output.
type FormatFlag uint8

const (
	// FormatWithCurrency appends the currency code.
	FormatWithCurrency FormatFlag = 1 << iota
	// FormatNoFraction drops the fractional part, truncating toward zero.
	FormatNoFraction
	// FormatHTML wraps the appended currency code in a span.
	FormatHTML
)

// Format renders m as symbol followed by the amount, e.g. "$1.00".
//
// A zero amount renders as the zero display string when the context has one.
// Currencies missing from the symbol table render without a symbol.
func (m Money) Format(flags FormatFlag) string {
	c := m.context()
	if m.IsZero() {
		if s, ok := c.ZeroDisplay(); ok {
			return s
		}
	}

	var b strings.Builder
	symbol, _ := c.Symbol(m.currency)
	b.WriteString(symbol)
	if flags&FormatNoFraction != 0 {
		b.WriteString(m.StringPrecision(0))
	} else {
		b.WriteString(m.String())
	}

	if flags&FormatWithCurrency != 0 {
		b.WriteByte(' ')
		if flags&FormatHTML != 0 {
			b.WriteString(`<span class="currency">`)
			b.WriteString(m.currency)
			b.WriteString(`</span>`)
		} else {
			b.WriteString(m.currency)
		}
	}
	return b.String()
}

// String renders the value with the precision of m, without symbol or code.
func (m Money) String() string {
	return m.StringPrecision(m.precision)
}

// StringPrecision renders the value with digits fractional digits. Extra
// digits are zero padded and fewer digits round half away from zero. With
// digits <= 0 the whole part is rendered, truncated toward zero.
func (m Money) StringPrecision(digits int) string {
	if digits <= 0 {
		return m.Decimal().Truncate(0).String()
	}
	return m.Decimal().StringFixed(int32(digits))
}
