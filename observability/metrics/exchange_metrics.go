package metrics

import (
	"context"

	"github.com/infigaming-com/go-money/money"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ExchangeCounterName = "money.exchanges"

	resultOK    = "ok"
	resultError = "error"
)

var _ money.MetricsHook = (*ExchangeMetrics)(nil)

// ExchangeMetrics counts bank conversions by bank, currency pair and result.
type ExchangeMetrics struct {
	exchanges metric.Int64Counter
}

func NewExchangeMetrics(meter metric.Meter) (*ExchangeMetrics, error) {
	exchanges, err := meter.Int64Counter(ExchangeCounterName,
		metric.WithDescription("Currency conversions performed by a money bank"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, err
	}
	return &ExchangeMetrics{exchanges: exchanges}, nil
}

func (m *ExchangeMetrics) OnExchange(bank, from, to string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.exchanges.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("bank", bank),
		attribute.String("from", from),
		attribute.String("to", to),
		attribute.String("result", result),
	))
}
