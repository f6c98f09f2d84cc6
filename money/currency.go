package money

func USD(amount int64) Money {
	return New(amount, "USD")
}

func CAD(amount int64) Money {
	return New(amount, "CAD")
}

func EUR(amount int64) Money {
	return New(amount, "EUR")
}

func GBP(amount int64) Money {
	return New(amount, "GBP")
}

// Empty returns zero in currency.
func Empty(currency string) Money {
	return New(0, currency)
}

func (m Money) AsUSD() (Money, error) {
	return m.ExchangeTo("USD")
}

func (m Money) AsCAD() (Money, error) {
	return m.ExchangeTo("CAD")
}

func (m Money) AsEUR() (Money, error) {
	return m.ExchangeTo("EUR")
}
