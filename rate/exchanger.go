package rate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Exchanger converts amounts with the latest rate from a RateProvider. It
// satisfies money.Exchanger, so it can back a money.DelegatedBank.
type Exchanger struct {
	lg       *zap.Logger
	provider RateProvider
	timeout  time.Duration
}

// NewExchanger bounds every lookup by timeout.
func NewExchanger(lg *zap.Logger, provider RateProvider, timeout time.Duration) *Exchanger {
	if lg == nil {
		lg = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Exchanger{
		lg:       lg,
		provider: provider,
		timeout:  timeout,
	}
}

func (e *Exchanger) Exchange(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	r, err := e.provider.GetRate(ctx, from, to, 0)
	if err != nil {
		return decimal.Zero, err
	}
	e.lg.Debug("exchange rate resolved",
		zap.String("from", from),
		zap.String("to", to),
		zap.Stringer("rate", r.Rate),
	)
	return amount.Mul(r.Rate), nil
}
