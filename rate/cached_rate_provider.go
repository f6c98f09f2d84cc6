package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infigaming-com/go-money/cache"
	"github.com/infigaming-com/go-money/locker"
	"go.uber.org/zap"
)

type cachedRateProvider struct {
	lg       *zap.Logger
	provider RateProvider
	cache    cache.Cache
	ttl      time.Duration
	locker   locker.Locker
}

type CachedOption func(*cachedRateProvider)

// WithRefreshLocker serialises refreshes of the same base currency across
// processes sharing the cache. If the lock cannot be taken the provider is
// queried anyway.
func WithRefreshLocker(l locker.Locker) CachedOption {
	return func(p *cachedRateProvider) {
		p.locker = l
	}
}

// NewCachedRateProvider reads rates through c, keeping each pair for ttl.
// Cache failures are logged and fall back to provider.
func NewCachedRateProvider(lg *zap.Logger, provider RateProvider, c cache.Cache, ttl time.Duration, opts ...CachedOption) RateProvider {
	if lg == nil {
		lg = zap.NewNop()
	}
	p := &cachedRateProvider{
		lg:       lg,
		provider: provider,
		cache:    c,
		ttl:      ttl,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func rateKey(base, quote string, timestamp int64) string {
	if timestamp == 0 {
		return fmt.Sprintf("rate:%s:%s:latest", base, quote)
	}
	return fmt.Sprintf("rate:%s:%s:%d", base, quote, timestamp)
}

func (p *cachedRateProvider) GetRate(ctx context.Context, base, quote string, timestamp int64) (*Rate, error) {
	rates, err := p.GetRates(ctx, base, []string{quote}, timestamp)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ErrRateNotFound.WithDetails(base + "/" + quote)
	}
	return &rates[0], nil
}

// lookup fills found from the cache and returns the quotes it could not.
func (p *cachedRateProvider) lookup(ctx context.Context, base string, quotes []string, timestamp int64, found map[string]Rate) []string {
	var missing []string
	for _, quote := range quotes {
		key := rateKey(base, quote, timestamp)
		r, err := cache.GetTyped[Rate](ctx, p.cache, key)
		if err == nil {
			found[quote] = r
			continue
		}
		if !errors.Is(err, cache.ErrKeyNotFound) {
			p.lg.Warn("failed to read rate from cache", zap.String("key", key), zap.Error(err))
		}
		missing = append(missing, quote)
	}
	return missing
}

func (p *cachedRateProvider) lock(ctx context.Context, base string, timestamp int64) func() {
	if p.locker == nil {
		return func() {}
	}
	key := fmt.Sprintf("rate-refresh:%s:%d", base, timestamp)
	unlock, err := p.locker.Lock(ctx, key)
	if err != nil {
		p.lg.Warn("refreshing rates without lock", zap.String("key", key), zap.Error(err))
		return func() {}
	}
	return func() {
		if err := unlock(context.Background()); err != nil {
			p.lg.Warn("failed to release rate refresh lock", zap.String("key", key), zap.Error(err))
		}
	}
}

func (p *cachedRateProvider) GetRates(ctx context.Context, base string, quotes []string, timestamp int64) ([]Rate, error) {
	found := make(map[string]Rate, len(quotes))
	missing := p.lookup(ctx, base, quotes, timestamp, found)

	if len(missing) > 0 && p.locker != nil {
		unlock := p.lock(ctx, base, timestamp)
		defer unlock()
		// Another holder may have refreshed while we waited.
		missing = p.lookup(ctx, base, missing, timestamp, found)
	}

	if len(missing) > 0 {
		fetched, err := p.provider.GetRates(ctx, base, missing, timestamp)
		if err != nil {
			return nil, err
		}
		kvs := make(map[string]Rate, len(fetched))
		for _, r := range fetched {
			found[r.Quote] = r
			kvs[rateKey(base, r.Quote, timestamp)] = r
		}
		if err := cache.SetsTyped(ctx, p.cache, kvs, p.ttl); err != nil {
			p.lg.Warn("failed to write rates to cache", zap.String("base", base), zap.Error(err))
		}
	}

	rates := make([]Rate, 0, len(found))
	for _, quote := range quotes {
		if r, ok := found[quote]; ok {
			rates = append(rates, r)
		}
	}
	return rates, nil
}

func (p *cachedRateProvider) GetRatesMap(ctx context.Context, base string, quotes []string, timestamp int64) (map[string]Rate, error) {
	rates, err := p.GetRates(ctx, base, quotes, timestamp)
	if err != nil {
		return nil, err
	}
	return ratesByQuote(rates), nil
}
