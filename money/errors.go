package money

import (
	"fmt"

	"github.com/infigaming-com/go-money/errors"
)

const (
	ErrCodeUnsupportedExchange = 20000 + iota
	ErrCodeUnknownRate
	ErrCodeInvalidOperation
	ErrCodeInvalidAmount
)

var (
	// ErrUnsupportedExchange is returned by NoExchangeBank for every exchange attempt.
	ErrUnsupportedExchange = errors.NewError(ErrCodeUnsupportedExchange, "money: currency exchange is not configured", nil)

	// ErrUnknownRate is returned by StaticBank when no rate is registered for a pair.
	ErrUnknownRate = errors.NewError(ErrCodeUnknownRate, "money: unknown exchange rate", nil)

	ErrInvalidOperation = errors.NewError(ErrCodeInvalidOperation, "money: invalid operation", nil)
	ErrInvalidAmount    = errors.NewError(ErrCodeInvalidAmount, "money: invalid amount", nil)
)

// ExchangePair identifies a directed currency conversion.
type ExchangePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (p ExchangePair) String() string {
	return fmt.Sprintf("%s/%s", p.From, p.To)
}
