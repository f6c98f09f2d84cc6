package money

import (
	"maps"
	"slices"
	"sync/atomic"

	"github.com/samber/lo"
)

// DefaultCurrency is used by contexts that were not given a default currency.
const DefaultCurrency = "EUR"

var defaultSymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"NZD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"BRL": "R$",
}

// Context bundles the configuration Money operations depend on: the bank used
// for cross-currency operations, the default currency, the symbol table and
// the zero display string. A Context is immutable once built; use With to
// derive a modified copy.
type Context struct {
	bank            Bank
	defaultCurrency string
	symbols         map[string]string
	zeroDisplay     string
	hasZeroDisplay  bool
}

type Option func(*Context)

// WithBank sets the bank. A nil bank resets to NoExchangeBank.
func WithBank(bank Bank) Option {
	return func(c *Context) {
		if bank == nil {
			bank = NoExchangeBank{}
		}
		c.bank = bank
	}
}

func WithDefaultCurrency(currency string) Option {
	return func(c *Context) {
		if currency != "" {
			c.defaultCurrency = currency
		}
	}
}

// WithSymbol maps a currency code to its display symbol.
func WithSymbol(currency, symbol string) Option {
	return func(c *Context) {
		c.symbols[currency] = symbol
	}
}

// WithSymbols merges symbols over the current table.
func WithSymbols(symbols map[string]string) Option {
	return func(c *Context) {
		maps.Copy(c.symbols, symbols)
	}
}

// WithZeroDisplay makes Format return s for every zero amount.
func WithZeroDisplay(s string) Option {
	return func(c *Context) {
		c.zeroDisplay = s
		c.hasZeroDisplay = true
	}
}

// WithoutZeroDisplay clears a previously configured zero display string.
func WithoutZeroDisplay() Option {
	return func(c *Context) {
		c.zeroDisplay = ""
		c.hasZeroDisplay = false
	}
}

func NewContext(opts ...Option) *Context {
	c := &Context{
		bank:            NoExchangeBank{},
		defaultCurrency: DefaultCurrency,
		symbols:         maps.Clone(defaultSymbols),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c with opts applied.
func (c *Context) With(opts ...Option) *Context {
	n := &Context{
		bank:            c.bank,
		defaultCurrency: c.defaultCurrency,
		symbols:         maps.Clone(c.symbols),
		zeroDisplay:     c.zeroDisplay,
		hasZeroDisplay:  c.hasZeroDisplay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (c *Context) Bank() Bank {
	return c.bank
}

func (c *Context) DefaultCurrency() string {
	return c.defaultCurrency
}

// Symbol returns the display symbol for currency.
func (c *Context) Symbol(currency string) (string, bool) {
	s, ok := c.symbols[currency]
	return s, ok
}

// Currencies returns the currency codes that have a symbol, sorted.
func (c *Context) Currencies() []string {
	codes := lo.Keys(c.symbols)
	slices.Sort(codes)
	return codes
}

func (c *Context) ZeroDisplay() (string, bool) {
	return c.zeroDisplay, c.hasZeroDisplay
}

var defaultContext atomic.Pointer[Context]

func init() {
	defaultContext.Store(NewContext())
}

// DefaultContext returns the process wide context used by Money values that
// were not built from an explicit Context.
func DefaultContext() *Context {
	return defaultContext.Load()
}

// SetDefaultContext replaces the process wide context. Passing nil restores
// a fresh NewContext().
func SetDefaultContext(c *Context) {
	if c == nil {
		c = NewContext()
	}
	defaultContext.Store(c)
}

// SetBank replaces the bank of the process wide context. Reconfiguration is
// expected to happen during startup; concurrent calls race on which bank wins.
func SetBank(bank Bank) {
	SetDefaultContext(DefaultContext().With(WithBank(bank)))
}

// GetBank returns the bank of the process wide context.
func GetBank() Bank {
	return DefaultContext().Bank()
}
