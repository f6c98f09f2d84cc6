package money

import (
	"fmt"
	"math"

	"github.com/infigaming-com/go-money/errors"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of implied fractional digits used when none is given.
const DefaultPrecision = 2

// Money is an immutable fixed-point amount in a currency. The represented
// value is amount / 10^precision. The zero value is 0 with no currency at
// precision 0.
type Money struct {
	amount    int64
	currency  string
	precision int
	ctx       *Context
}

func checkPrecision(precision int) {
	if precision < 0 {
		panic(fmt.Sprintf("money: precision must not be negative, got %d", precision))
	}
}

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// toAmount rounds d half away from zero and reports whether the result fits
// in an int64.
func toAmount(d decimal.Decimal) (int64, bool) {
	r := d.Round(0)
	if r.GreaterThan(maxAmount) || r.LessThan(minAmount) {
		return 0, false
	}
	return r.IntPart(), true
}

func outOfRange(v any) *errors.Error {
	return ErrInvalidOperation.WithDetails(fmt.Sprintf("amount out of range: %v", v))
}

func newMoney(ctx *Context, amount decimal.Decimal, currency string, precision int) Money {
	m, err := tryNewMoney(ctx, amount, currency, precision)
	if err != nil {
		panic(err)
	}
	return m
}

func tryNewMoney(ctx *Context, amount decimal.Decimal, currency string, precision int) (Money, error) {
	checkPrecision(precision)
	a, ok := toAmount(amount)
	if !ok {
		return Money{}, outOfRange(amount)
	}
	return Money{amount: a, currency: currency, precision: precision, ctx: ctx}, nil
}

// New returns amount minor units of currency at DefaultPrecision.
func New(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency, precision: DefaultPrecision}
}

// NewDefault returns amount minor units in the default currency of the
// process wide context.
func NewDefault(amount int64) Money {
	return New(amount, DefaultContext().DefaultCurrency())
}

// NewWithPrecision rounds amount half away from zero to a whole number of
// minor units. It panics if precision is negative or the rounded amount does
// not fit in an int64.
func NewWithPrecision(amount decimal.Decimal, currency string, precision int) Money {
	return newMoney(nil, amount, currency, precision)
}

// NewFromFloat is like NewWithPrecision for a float64 amount.
func NewFromFloat(amount float64, currency string, precision int) Money {
	return newMoney(nil, decimal.NewFromFloat(amount), currency, precision)
}

// New returns a Money bound to c.
func (c *Context) New(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency, precision: DefaultPrecision, ctx: c}
}

// NewDefault returns a Money in the default currency of c.
func (c *Context) NewDefault(amount int64) Money {
	return c.New(amount, c.defaultCurrency)
}

func (c *Context) NewWithPrecision(amount decimal.Decimal, currency string, precision int) Money {
	return newMoney(c, amount, currency, precision)
}

func (m Money) context() *Context {
	if m.ctx != nil {
		return m.ctx
	}
	return DefaultContext()
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Precision() int {
	return m.precision
}

// Context returns the context m resolves its bank and symbols from.
func (m Money) Context() *Context {
	return m.context()
}

// Decimal returns the represented value, amount / 10^precision.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -int32(m.precision))
}

// Exchanged returns amount minor units of currency, keeping the precision and
// context of m. Bank implementations use it to build their results.
func (m Money) Exchanged(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency, precision: m.precision, ctx: m.ctx}
}

func (m Money) withAmount(amount int64, precision int) Money {
	return Money{amount: amount, currency: m.currency, precision: precision, ctx: m.ctx}
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

func (m Money) IsNeg() bool {
	return m.amount < 0
}

func (m Money) IsPos() bool {
	return m.amount > 0
}

// Equal reports whether m and other have the same amount, currency and
// precision. No exchange or rescaling takes place, so 1.00 USD at precision
// 2 is not equal to 1.000 USD at precision 3; use Cmp for value comparison.
//
// Precision is part of the identity on purpose: 100 at precision 2 and 1000
// at precision 3 print differently and serialize differently, so treating
// them as equal would let two distinct stored values compare the same.
func (m Money) Equal(other Money) bool {
	return m.amount == other.amount &&
		m.currency == other.currency &&
		m.precision == other.precision
}

// Rescale returns m expressed with precision implied digits. Scaling up is
// exact; scaling down rounds half away from zero. It panics if precision is
// negative or the scaled amount does not fit in an int64.
func (m Money) Rescale(precision int) Money {
	r, err := m.rescale(precision)
	if err != nil {
		panic(err)
	}
	return r
}

func (m Money) rescale(precision int) (Money, error) {
	checkPrecision(precision)
	if precision == m.precision {
		return m, nil
	}
	shifted := decimal.NewFromInt(m.amount).Shift(int32(precision - m.precision))
	amount, ok := toAmount(shifted)
	if !ok {
		return Money{}, outOfRange(shifted)
	}
	return m.withAmount(amount, precision), nil
}

func align(a, b Money) (Money, Money, error) {
	p := max(a.precision, b.precision)
	ra, err := a.rescale(p)
	if err != nil {
		return Money{}, Money{}, err
	}
	rb, err := b.rescale(p)
	if err != nil {
		return Money{}, Money{}, err
	}
	return ra, rb, nil
}

// inCurrency exchanges other into the currency of m when they differ.
func (m Money) inCurrency(other Money) (Money, error) {
	if other.currency == m.currency {
		return other, nil
	}
	return m.context().Bank().Exchange(other, m.currency)
}

// Cmp compares the values of m and other and returns -1, 0 or +1. A
// different currency is first exchanged into the currency of m through the
// bank. Both sides are rescaled to the larger precision before comparing.
func (m Money) Cmp(other Money) (int, error) {
	other, err := m.inCurrency(other)
	if err != nil {
		return 0, err
	}
	a, b, err := align(m, other)
	if err != nil {
		return 0, err
	}
	switch {
	case a.amount < b.amount:
		return -1, nil
	case a.amount > b.amount:
		return 1, nil
	}
	return 0, nil
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c < 0, err
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c > 0, err
}

// Add returns m + other in the currency of m at the larger of the two
// precisions.
func (m Money) Add(other Money) (Money, error) {
	other, err := m.inCurrency(other)
	if err != nil {
		return Money{}, err
	}
	a, b, err := align(m, other)
	if err != nil {
		return Money{}, err
	}
	if (b.amount > 0 && a.amount > math.MaxInt64-b.amount) ||
		(b.amount < 0 && a.amount < math.MinInt64-b.amount) {
		return Money{}, outOfRange(fmt.Sprintf("%d + %d", a.amount, b.amount))
	}
	return a.withAmount(a.amount+b.amount, a.precision), nil
}

// Sub returns m - other in the currency of m at the larger of the two
// precisions.
func (m Money) Sub(other Money) (Money, error) {
	other, err := m.inCurrency(other)
	if err != nil {
		return Money{}, err
	}
	a, b, err := align(m, other)
	if err != nil {
		return Money{}, err
	}
	if (b.amount < 0 && a.amount > math.MaxInt64+b.amount) ||
		(b.amount > 0 && a.amount < math.MinInt64+b.amount) {
		return Money{}, outOfRange(fmt.Sprintf("%d - %d", a.amount, b.amount))
	}
	return a.withAmount(a.amount-b.amount, a.precision), nil
}

// Neg panics for the smallest representable amount, which has no positive
// counterpart. Abs panics likewise.
func (m Money) Neg() Money {
	if m.amount == math.MinInt64 {
		panic(outOfRange(fmt.Sprintf("-(%d)", m.amount)))
	}
	return m.withAmount(-m.amount, m.precision)
}

func (m Money) Abs() Money {
	if m.amount < 0 {
		return m.Neg()
	}
	return m
}

// Mul panics if the product does not fit in an int64.
func (m Money) Mul(scalar int64) Money {
	product := decimal.NewFromInt(m.amount).Mul(decimal.NewFromInt(scalar))
	amount, ok := toAmount(product)
	if !ok {
		panic(outOfRange(product))
	}
	return m.withAmount(amount, m.precision)
}

// Div divides the amount by scalar, truncating toward zero: -7 / 2 is -3.
func (m Money) Div(scalar int64) (Money, error) {
	if scalar == 0 {
		return Money{}, ErrInvalidOperation.WithDetails("division by zero")
	}
	if m.amount == math.MinInt64 && scalar == -1 {
		return Money{}, outOfRange(fmt.Sprintf("%d / -1", m.amount))
	}
	return m.withAmount(m.amount/scalar, m.precision), nil
}

// ExchangeTo converts m into currency with the bank of its context.
func (m Money) ExchangeTo(currency string) (Money, error) {
	return m.context().Bank().Exchange(m, currency)
}
