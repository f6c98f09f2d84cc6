package rate

import (
	"context"

	"github.com/shopspring/decimal"
)

// Rate is how many units of Quote one unit of Base buys.
type Rate struct {
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp int64           `json:"timestamp"`
}

// RateProvider looks up exchange rates. A zero timestamp asks for the latest
// rate.
type RateProvider interface {
	GetRate(ctx context.Context, base, quote string, timestamp int64) (*Rate, error)
	GetRates(ctx context.Context, base string, quotes []string, timestamp int64) ([]Rate, error)
	GetRatesMap(ctx context.Context, base string, quotes []string, timestamp int64) (map[string]Rate, error)
}
