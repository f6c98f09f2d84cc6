package money

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type exchangeRecord struct {
	bank string
	from string
	to   string
	err  error
}

type recordingMetrics struct {
	records []exchangeRecord
}

func (r *recordingMetrics) OnExchange(bank, from, to string, err error) {
	r.records = append(r.records, exchangeRecord{bank: bank, from: from, to: to, err: err})
}

func TestNoExchangeBank(t *testing.T) {
	_, err := NoExchangeBank{}.Exchange(USD(100), "CAD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedExchange)
	assert.Contains(t, err.Error(), "USD/CAD")

	// the default context uses it
	assert.IsType(t, NoExchangeBank{}, NewContext().Bank())
	assert.IsType(t, NoExchangeBank{}, NewContext(WithBank(nil)).Bank())
}

func TestStaticBank_Exchange(t *testing.T) {
	bank := NewStaticBank(zap.NewNop())
	require.NoError(t, bank.AddRate("USD", "CAD", 1.5))
	require.NoError(t, bank.AddRate("EUR", "CAD", 1.499))
	require.NoError(t, bank.AddRate("GBP", "CAD", 1.24515))
	require.NoError(t, bank.AddRate("JPY", "CAD", 1.15))

	tcs := []struct {
		name            string
		money           Money
		to              string
		expectAmount    int64
		expectPrecision int
	}{
		{name: "exact", money: USD(100), to: "CAD", expectAmount: 150, expectPrecision: 2},
		{name: "floors", money: EUR(101), to: "CAD", expectAmount: 151, expectPrecision: 2},
		{name: "floors long rate", money: GBP(100), to: "CAD", expectAmount: 124, expectPrecision: 2},
		{name: "no float artifacts", money: New(100, "JPY"), to: "CAD", expectAmount: 115, expectPrecision: 2},
		{name: "negative floors toward negative infinity", money: USD(-101), to: "CAD", expectAmount: -152, expectPrecision: 2},
		{
			name:            "precision is preserved",
			money:           NewWithPrecision(decimal.NewFromInt(1001), "USD", 3),
			to:              "CAD",
			expectAmount:    1501,
			expectPrecision: 3,
		},
		{name: "same currency", money: USD(123), to: "USD", expectAmount: 123, expectPrecision: 2},
		{name: "zero without rate", money: Empty("CHF"), to: "SEK", expectAmount: 0, expectPrecision: 2},
		{
			name:            "zero keeps precision",
			money:           NewWithPrecision(decimal.Zero, "CHF", 4),
			to:              "SEK",
			expectAmount:    0,
			expectPrecision: 4,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r, err := bank.Exchange(tc.money, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.expectAmount, r.Amount())
			assert.Equal(t, tc.to, r.Currency())
			assert.Equal(t, tc.expectPrecision, r.Precision())
		})
	}
}

func TestStaticBank_UnknownRate(t *testing.T) {
	bank := NewStaticBank(nil)
	require.NoError(t, bank.AddRate("USD", "CAD", 1.24515))

	_, err := bank.Exchange(CAD(100), "USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRate)
	assert.Contains(t, err.Error(), "CAD/USD")

	var coded interface{ GetDetails() any }
	require.True(t, stderrors.As(err, &coded))
	assert.Equal(t, ExchangePair{From: "CAD", To: "USD"}, coded.GetDetails())
}

func TestStaticBank_RatesAreDirected(t *testing.T) {
	bank := NewStaticBank(nil)
	require.NoError(t, bank.AddRate("USD", "CAD", 1.25))

	rate, ok := bank.Rate("USD", "CAD")
	assert.True(t, ok)
	assert.Equal(t, "1.25", rate.String())

	_, ok = bank.Rate("CAD", "USD")
	assert.False(t, ok)

	require.NoError(t, bank.AddRate("CAD", "USD", 0.8))
	r, err := bank.Exchange(CAD(125), "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(100), r.Amount())

	r, err = bank.Exchange(USD(100), "CAD")
	require.NoError(t, err)
	assert.Equal(t, int64(125), r.Amount())
}

func TestStaticBank_AddRate(t *testing.T) {
	bank := NewStaticBank(nil)

	t.Run("overwrites", func(t *testing.T) {
		require.NoError(t, bank.AddRate("USD", "CAD", 1.2))
		require.NoError(t, bank.AddRate("USD", "CAD", 1.3))
		r, err := bank.Exchange(USD(100), "CAD")
		require.NoError(t, err)
		assert.Equal(t, int64(130), r.Amount())
	})

	tcs := []struct {
		name string
		rate float64
	}{
		{name: "zero", rate: 0},
		{name: "negative", rate: -1.2},
		{name: "nan", rate: math.NaN()},
		{name: "inf", rate: math.Inf(1)},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := bank.AddRate("USD", "EUR", tc.rate)
			assert.ErrorIs(t, err, ErrInvalidOperation)
			_, ok := bank.Rate("USD", "EUR")
			assert.False(t, ok)
		})
	}

	t.Run("decimal", func(t *testing.T) {
		require.NoError(t, bank.AddRateDecimal("USD", "JPY", decimal.RequireFromString("149.123")))
		r, err := bank.Exchange(USD(100), "JPY")
		require.NoError(t, err)
		assert.Equal(t, int64(14912), r.Amount())
	})
}

func TestStaticBank_Metrics(t *testing.T) {
	m := &recordingMetrics{}
	bank := NewStaticBank(nil, WithMetrics(m))
	require.NoError(t, bank.AddRate("USD", "CAD", 1.5))

	_, err := bank.Exchange(USD(100), "CAD")
	require.NoError(t, err)
	_, err = bank.Exchange(USD(0), "CAD")
	require.NoError(t, err)
	_, err = bank.Exchange(USD(100), "USD")
	require.NoError(t, err)
	_, err = bank.Exchange(USD(100), "EUR")
	require.Error(t, err)

	require.Len(t, m.records, 2)
	assert.Equal(t, exchangeRecord{bank: "static", from: "USD", to: "CAD"}, m.records[0])
	assert.Equal(t, "EUR", m.records[1].to)
	assert.ErrorIs(t, m.records[1].err, ErrUnknownRate)
}

func TestDelegatedBank_Exchange(t *testing.T) {
	calls := 0
	exchanger := ExchangerFunc(func(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
		calls++
		assert.Equal(t, "USD", from)
		assert.Equal(t, "CAD", to)
		return amount.Mul(decimal.RequireFromString("1.24515")), nil
	})
	m := &recordingMetrics{}
	bank := NewDelegatedBank(zap.NewNop(), exchanger, WithMetrics(m))

	r, err := bank.Exchange(USD(100), "CAD")
	require.NoError(t, err)
	assert.Equal(t, int64(124), r.Amount())
	assert.Equal(t, "CAD", r.Currency())
	assert.Equal(t, 1, calls)

	r, err = bank.Exchange(NewWithPrecision(decimal.NewFromInt(1000), "USD", 3), "CAD")
	require.NoError(t, err)
	assert.Equal(t, int64(1245), r.Amount())
	assert.Equal(t, 3, r.Precision())
	assert.Equal(t, 2, calls)

	t.Run("short circuits skip the exchanger", func(t *testing.T) {
		r, err := bank.Exchange(Empty("USD"), "CAD")
		require.NoError(t, err)
		assert.True(t, r.IsZero())
		assert.Equal(t, "CAD", r.Currency())

		r, err = bank.Exchange(USD(100), "USD")
		require.NoError(t, err)
		assert.True(t, r.Equal(USD(100)))

		assert.Equal(t, 2, calls)
		assert.Len(t, m.records, 2)
	})
}

func TestDelegatedBank_ErrorsPassThrough(t *testing.T) {
	upstream := stderrors.New("rate service unavailable")
	bank := NewDelegatedBank(nil, ExchangerFunc(func(decimal.Decimal, string, string) (decimal.Decimal, error) {
		return decimal.Zero, upstream
	}))

	_, err := bank.Exchange(USD(100), "CAD")
	assert.Same(t, upstream, err)
}

func TestDelegatedBank_FloorsNegative(t *testing.T) {
	bank := NewDelegatedBank(nil, ExchangerFunc(func(amount decimal.Decimal, _, _ string) (decimal.Decimal, error) {
		return amount.Mul(decimal.RequireFromString("1.5")), nil
	}))

	r, err := bank.Exchange(USD(-101), "CAD")
	require.NoError(t, err)
	assert.Equal(t, int64(-152), r.Amount())
}

func TestDelegatedBank_NilExchanger(t *testing.T) {
	m := &recordingMetrics{}
	bank := NewDelegatedBank(zap.NewNop(), nil, WithMetrics(m))

	_, err := bank.Exchange(USD(100), "CAD")
	assert.ErrorIs(t, err, ErrUnsupportedExchange)
	require.Len(t, m.records, 1)
	assert.ErrorIs(t, m.records[0].err, ErrUnsupportedExchange)

	r, err := bank.Exchange(USD(100), "USD")
	require.NoError(t, err)
	assert.True(t, r.Equal(USD(100)))

	r, err = bank.Exchange(Empty("USD"), "CAD")
	require.NoError(t, err)
	assert.Equal(t, "CAD", r.Currency())
}

func TestBank_ExchangeOutOfRange(t *testing.T) {
	static := NewStaticBank(nil)
	require.NoError(t, static.AddRate("USD", "IDR", 16000))
	delegated := NewDelegatedBank(nil, ExchangerFunc(func(amount decimal.Decimal, _, _ string) (decimal.Decimal, error) {
		return amount.Mul(decimal.NewFromInt(16000)), nil
	}))

	tcs := []struct {
		name string
		bank Bank
	}{
		{name: "static", bank: static},
		{name: "delegated", bank: delegated},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.bank.Exchange(New(math.MaxInt64/1000, "USD"), "IDR")
			assert.ErrorIs(t, err, ErrInvalidOperation)

			r, err := tc.bank.Exchange(USD(100), "IDR")
			require.NoError(t, err)
			assert.Equal(t, int64(1_600_000), r.Amount())
		})
	}
}
