package money

// MetricsHook lets services bridge exchange metrics to their observability
// stack without adding a direct dependency.
type MetricsHook interface {
	// OnExchange is called after a bank performed, or failed, a conversion.
	// Same-currency and zero-amount short-circuits are not reported.
	OnExchange(bank, from, to string, err error)
}

type noopMetrics struct{}

func (noopMetrics) OnExchange(string, string, string, error) {}
