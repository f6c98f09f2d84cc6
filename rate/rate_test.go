package rate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/infigaming-com/go-money/cache"
	"github.com/infigaming-com/go-money/locker"
	"github.com/infigaming-com/go-money/money"
	"github.com/infigaming-com/go-money/request"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ money.Exchanger = (*Exchanger)(nil)

const (
	testApiKey    = "key"
	testApiSecret = "secret"
)

var testRates = map[string]map[string]string{
	"USD": {"CAD": "1.24515", "EUR": "0.92"},
	"CAD": {"USD": "0.803115"},
}

// newRateServer serves testRates, rejecting unsigned requests.
func newRateServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if r.Header.Get("X-API-KEY") != testApiKey ||
			r.Header.Get("X-SIGNATURE") != request.CalculateHmacSha256Hash(body, testApiSecret) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req getRatesRequest
		require.NoError(t, json.Unmarshal(body, &req))
		rates := []Rate{}
		for _, q := range req.Quotes {
			if r, ok := testRates[req.Base][q]; ok {
				rates = append(rates, Rate{
					Base:      req.Base,
					Quote:     q,
					Rate:      decimal.RequireFromString(r),
					Timestamp: req.Timestamp,
				})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(rates))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPRateProvider_GetRate(t *testing.T) {
	srv := newRateServer(t, nil)
	p := NewHTTPRateProvider(zap.NewNop(), srv.URL, testApiKey, testApiSecret, time.Second)
	ctx := context.Background()

	tcs := []struct {
		name      string
		base      string
		quote     string
		timestamp int64
		expect    string
		expectErr error
	}{
		{name: "latest", base: "USD", quote: "CAD", expect: "1.24515"},
		{name: "at timestamp", base: "CAD", quote: "USD", timestamp: 1700000000, expect: "0.803115"},
		{name: "unknown pair", base: "USD", quote: "JPY", expectErr: ErrRateNotFound},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r, err := p.GetRate(ctx, tc.base, tc.quote, tc.timestamp)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.base, r.Base)
			assert.Equal(t, tc.quote, r.Quote)
			assert.True(t, decimal.RequireFromString(tc.expect).Equal(r.Rate))
			if tc.timestamp != 0 {
				assert.Equal(t, tc.timestamp, r.Timestamp)
			} else {
				assert.NotZero(t, r.Timestamp)
			}
		})
	}
}

func TestHTTPRateProvider_GetRatesMap(t *testing.T) {
	srv := newRateServer(t, nil)
	p := NewHTTPRateProvider(nil, srv.URL, testApiKey, testApiSecret, 0)

	rates, err := p.GetRatesMap(context.Background(), "USD", []string{"CAD", "EUR", "JPY"}, 0)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
	assert.Equal(t, "0.92", rates["EUR"].Rate.String())
	assert.Equal(t, "1.24515", rates["CAD"].Rate.String())
}

func TestHTTPRateProvider_Errors(t *testing.T) {
	t.Run("bad signature", func(t *testing.T) {
		srv := newRateServer(t, nil)
		p := NewHTTPRateProvider(zap.NewNop(), srv.URL, testApiKey, "wrong", time.Second)
		_, err := p.GetRates(context.Background(), "USD", []string{"CAD"}, 0)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("invalid body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()
		p := NewHTTPRateProvider(zap.NewNop(), srv.URL, testApiKey, testApiSecret, time.Second)
		_, err := p.GetRates(context.Background(), "USD", []string{"CAD"}, 0)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

type stubProvider struct {
	calls  atomic.Int32
	mu     sync.Mutex
	quotes [][]string
	err    error
}

func (p *stubProvider) GetRates(ctx context.Context, base string, quotes []string, timestamp int64) ([]Rate, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.quotes = append(p.quotes, quotes)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	var rates []Rate
	for _, q := range quotes {
		if r, ok := testRates[base][q]; ok {
			rates = append(rates, Rate{Base: base, Quote: q, Rate: decimal.RequireFromString(r), Timestamp: timestamp})
		}
	}
	return rates, nil
}

func (p *stubProvider) GetRate(ctx context.Context, base, quote string, timestamp int64) (*Rate, error) {
	rates, err := p.GetRates(ctx, base, []string{quote}, timestamp)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ErrRateNotFound
	}
	return &rates[0], nil
}

func (p *stubProvider) GetRatesMap(ctx context.Context, base string, quotes []string, timestamp int64) (map[string]Rate, error) {
	rates, err := p.GetRates(ctx, base, quotes, timestamp)
	if err != nil {
		return nil, err
	}
	return ratesByQuote(rates), nil
}

func TestCachedRateProvider(t *testing.T) {
	ctx := context.Background()
	stub := &stubProvider{}
	p := NewCachedRateProvider(zap.NewNop(), stub, cache.NewFreeCache(1024*1024), time.Minute)

	r, err := p.GetRate(ctx, "USD", "CAD", 0)
	require.NoError(t, err)
	assert.Equal(t, "1.24515", r.Rate.String())
	assert.Equal(t, int32(1), stub.calls.Load())

	r, err = p.GetRate(ctx, "USD", "CAD", 0)
	require.NoError(t, err)
	assert.Equal(t, "1.24515", r.Rate.String())
	assert.Equal(t, int32(1), stub.calls.Load())

	rates, err := p.GetRatesMap(ctx, "USD", []string{"CAD", "EUR"}, 0)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
	assert.Equal(t, int32(2), stub.calls.Load())
	assert.Equal(t, []string{"EUR"}, stub.quotes[1])

	_, err = p.GetRate(ctx, "USD", "CAD", 1700000000)
	require.NoError(t, err)
	assert.Equal(t, int32(3), stub.calls.Load())

	_, err = p.GetRate(ctx, "USD", "JPY", 0)
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestCachedRateProvider_ProviderError(t *testing.T) {
	stub := &stubProvider{err: ErrUnexpectedStatus}
	p := NewCachedRateProvider(nil, stub, cache.NewFreeCache(1024*1024), time.Minute)

	_, err := p.GetRates(context.Background(), "USD", []string{"CAD"}, 0)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestCachedRateProvider_RefreshLock(t *testing.T) {
	mr := miniredis.RunT(t)
	c, closeCache, err := cache.NewRedisCache(zap.NewNop(), &cache.RedisCacheConfig{Addr: mr.Addr(), Prefix: "money:"})
	require.NoError(t, err)
	defer closeCache()
	l, closeLocker, err := locker.NewRedisLocker(zap.NewNop(), &locker.RedisLockerConfig{Addr: mr.Addr(), Prefix: "money:lock:"})
	require.NoError(t, err)
	defer closeLocker()

	stub := &stubProvider{}
	p := NewCachedRateProvider(zap.NewNop(), stub, c, time.Minute, WithRefreshLocker(l))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.GetRate(context.Background(), "USD", "CAD", 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, int32(1), stub.calls.Load())
	assert.True(t, mr.Exists("money:rate:USD:CAD:latest"))
}

func TestExchanger(t *testing.T) {
	var calls atomic.Int32
	srv := newRateServer(t, &calls)
	provider := NewCachedRateProvider(
		zap.NewNop(),
		NewHTTPRateProvider(zap.NewNop(), srv.URL, testApiKey, testApiSecret, time.Second),
		cache.NewFreeCache(1024*1024),
		time.Minute,
	)
	ex := NewExchanger(zap.NewNop(), provider, time.Second)

	got, err := ex.Exchange(decimal.NewFromInt(100), "USD", "CAD")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("124.515").Equal(got))

	_, err = ex.Exchange(decimal.NewFromInt(100), "USD", "JPY")
	assert.ErrorIs(t, err, ErrRateNotFound)

	t.Run("backs a delegated bank", func(t *testing.T) {
		ctx := money.NewContext(money.WithBank(money.NewDelegatedBank(zap.NewNop(), ex)))

		cad, err := ctx.New(100, "USD").ExchangeTo("CAD")
		require.NoError(t, err)
		assert.Equal(t, int64(124), cad.Amount())
		assert.Equal(t, "CAD", cad.Currency())

		sum, err := ctx.New(100, "CAD").Add(ctx.New(100, "USD"))
		require.NoError(t, err)
		assert.Equal(t, int64(224), sum.Amount())

		_, err = ctx.New(100, "USD").ExchangeTo("JPY")
		assert.ErrorIs(t, err, ErrRateNotFound)
	})

	assert.Equal(t, int32(3), calls.Load())
}
