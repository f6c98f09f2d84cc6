package money

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Bank converts Money from one currency to another.
type Bank interface {
	Exchange(m Money, currency string) (Money, error)
}

// Exchanger is an external rate source used by DelegatedBank. It receives the
// amount in minor units and returns the converted amount in minor units of
// the target currency, before rounding.
type Exchanger interface {
	Exchange(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(amount decimal.Decimal, from, to string) (decimal.Decimal, error)

func (f ExchangerFunc) Exchange(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	return f(amount, from, to)
}

type bankOptions struct {
	metrics MetricsHook
}

type BankOption func(*bankOptions)

// WithMetrics sets the hook notified on every conversion.
func WithMetrics(m MetricsHook) BankOption {
	return func(o *bankOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

func newBankOptions(opts []BankOption) *bankOptions {
	o := &bankOptions{metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NoExchangeBank refuses every exchange. It is the default bank so that
// cross-currency operations fail until an application configures one.
type NoExchangeBank struct{}

func (NoExchangeBank) Exchange(m Money, currency string) (Money, error) {
	return Money{}, ErrUnsupportedExchange.WithDetails(ExchangePair{From: m.currency, To: currency})
}

// shortCircuit handles the conversions that need no rate.
func shortCircuit(m Money, currency string) (Money, bool) {
	if m.currency == currency {
		return m, true
	}
	if m.IsZero() {
		return m.Exchanged(0, currency), true
	}
	return Money{}, false
}

// StaticBank converts with an in-memory table of rates. Rates are directed:
// adding USD->CAD does not make CAD->USD available.
type StaticBank struct {
	lg      *zap.Logger
	metrics MetricsHook

	mu    sync.RWMutex
	rates map[ExchangePair]decimal.Decimal
}

func NewStaticBank(lg *zap.Logger, opts ...BankOption) *StaticBank {
	if lg == nil {
		lg = zap.NewNop()
	}
	o := newBankOptions(opts)
	return &StaticBank{
		lg:      lg,
		metrics: o.metrics,
		rates:   make(map[ExchangePair]decimal.Decimal),
	}
}

// AddRate registers or overwrites the from->to rate.
func (b *StaticBank) AddRate(from, to string, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ErrInvalidOperation.WithDetails("exchange rate must be finite")
	}
	return b.AddRateDecimal(from, to, decimal.NewFromFloat(rate))
}

// AddRateDecimal is like AddRate for a decimal rate.
func (b *StaticBank) AddRateDecimal(from, to string, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return ErrInvalidOperation.WithDetails("exchange rate must be positive")
	}
	pair := ExchangePair{From: from, To: to}

	b.mu.Lock()
	b.rates[pair] = rate
	b.mu.Unlock()

	b.lg.Debug("exchange rate added", zap.Stringer("pair", pair), zap.Stringer("rate", rate))
	return nil
}

// Rate returns the registered from->to rate.
func (b *StaticBank) Rate(from, to string) (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rate, ok := b.rates[ExchangePair{From: from, To: to}]
	return rate, ok
}

// Exchange converts m with the registered rate, rounding toward negative
// infinity. Same-currency and zero amounts never consult the table.
func (b *StaticBank) Exchange(m Money, currency string) (Money, error) {
	if r, ok := shortCircuit(m, currency); ok {
		return r, nil
	}
	pair := ExchangePair{From: m.currency, To: currency}
	rate, ok := b.Rate(pair.From, pair.To)
	if !ok {
		err := ErrUnknownRate.WithDetails(pair)
		b.metrics.OnExchange("static", pair.From, pair.To, err)
		return Money{}, err
	}
	exchanged := decimal.NewFromInt(m.amount).Mul(rate).Floor()
	amount, ok := toAmount(exchanged)
	if !ok {
		err := outOfRange(exchanged)
		b.metrics.OnExchange("static", pair.From, pair.To, err)
		return Money{}, err
	}
	b.metrics.OnExchange("static", pair.From, pair.To, nil)
	return m.Exchanged(amount, currency), nil
}

// DelegatedBank hands conversions to an external Exchanger and floors the
// result. Errors from the Exchanger are returned untouched. Without an
// Exchanger it behaves like NoExchangeBank.
type DelegatedBank struct {
	lg        *zap.Logger
	metrics   MetricsHook
	exchanger Exchanger
}

func NewDelegatedBank(lg *zap.Logger, exchanger Exchanger, opts ...BankOption) *DelegatedBank {
	if lg == nil {
		lg = zap.NewNop()
	}
	o := newBankOptions(opts)
	return &DelegatedBank{
		lg:        lg,
		metrics:   o.metrics,
		exchanger: exchanger,
	}
}

func (b *DelegatedBank) Exchange(m Money, currency string) (Money, error) {
	if r, ok := shortCircuit(m, currency); ok {
		return r, nil
	}
	if b.exchanger == nil {
		_, err := NoExchangeBank{}.Exchange(m, currency)
		b.metrics.OnExchange("delegated", m.currency, currency, err)
		return Money{}, err
	}
	result, err := b.exchanger.Exchange(decimal.NewFromInt(m.amount), m.currency, currency)
	b.metrics.OnExchange("delegated", m.currency, currency, err)
	if err != nil {
		b.lg.Warn("delegated exchange failed",
			zap.String("from", m.currency),
			zap.String("to", currency),
			zap.Int64("amount", m.amount),
			zap.Error(err),
		)
		return Money{}, err
	}
	amount, ok := toAmount(result.Floor())
	if !ok {
		return Money{}, outOfRange(result)
	}
	return m.Exchanged(amount, currency), nil
}
