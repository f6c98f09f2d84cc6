package config

import (
	"github.com/infigaming-com/go-money/cache"
	"github.com/infigaming-com/go-money/locker"
	"github.com/infigaming-com/go-money/money"
	"github.com/infigaming-com/go-money/rate"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix  = "money:"
	redisLockPrefix = "money:lock:"
)

// NewContext builds the money.Context described by cfg. bankOpts are passed to
// the static or delegated bank, e.g. money.WithMetrics. The returned func
// releases the rate cache connection, if any.
func NewContext(lg *zap.Logger, cfg *Config, bankOpts ...money.BankOption) (*money.Context, func(), error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	bank, cleanup, err := newBank(lg, cfg, bankOpts)
	if err != nil {
		return nil, nil, err
	}

	opts := []money.Option{
		money.WithBank(bank),
		money.WithDefaultCurrency(cfg.DefaultCurrency),
	}
	if cfg.ZeroDisplay != "" {
		opts = append(opts, money.WithZeroDisplay(cfg.ZeroDisplay))
	}

	lg.Info("money context configured",
		zap.String("bank", cfg.Bank),
		zap.String("defaultCurrency", cfg.DefaultCurrency),
	)
	return money.NewContext(opts...), cleanup, nil
}

func newBank(lg *zap.Logger, cfg *Config, bankOpts []money.BankOption) (money.Bank, func(), error) {
	noop := func() {}

	switch cfg.Bank {
	case BankStatic:
		rates, err := ParseStaticRates(cfg.StaticRates)
		if err != nil {
			return nil, nil, err
		}
		bank := money.NewStaticBank(lg, bankOpts...)
		for _, r := range rates {
			if err := bank.AddRateDecimal(r.From, r.To, r.Rate); err != nil {
				return nil, nil, ErrInvalidConfig.WithCause(err)
			}
		}
		return bank, noop, nil

	case BankDelegated:
		provider, cleanup, err := newRateProvider(lg, cfg)
		if err != nil {
			return nil, nil, err
		}
		exchanger := rate.NewExchanger(lg, provider, cfg.RateTimeout)
		return money.NewDelegatedBank(lg, exchanger, bankOpts...), cleanup, nil

	default:
		return money.NoExchangeBank{}, noop, nil
	}
}

// newRateProvider returns the HTTP provider, read through redis when
// MONEY_REDIS_ADDR is set and an in-process cache otherwise. With redis,
// refreshes are serialised across processes. A zero cache TTL disables
// caching.
func newRateProvider(lg *zap.Logger, cfg *Config) (rate.RateProvider, func(), error) {
	provider := rate.NewHTTPRateProvider(lg, cfg.RateURL, cfg.RateAPIKey, cfg.RateAPISecret, cfg.RateTimeout)
	if cfg.RateCacheTTL == 0 {
		return provider, func() {}, nil
	}

	if cfg.RedisAddr == "" {
		c := cache.NewFreeCache(cfg.RateCacheSize)
		return rate.NewCachedRateProvider(lg, provider, c, cfg.RateCacheTTL), func() {}, nil
	}

	c, closeCache, err := cache.NewRedisCache(lg, &cache.RedisCacheConfig{
		Addr:           cfg.RedisAddr,
		DB:             cfg.RedisDB,
		ConnectTimeout: cfg.RateTimeout,
		Prefix:         redisKeyPrefix,
	})
	if err != nil {
		return nil, nil, err
	}
	l, closeLocker, err := locker.NewRedisLocker(lg, &locker.RedisLockerConfig{
		Addr:           cfg.RedisAddr,
		DB:             cfg.RedisDB,
		ConnectTimeout: cfg.RateTimeout,
		Prefix:         redisLockPrefix,
	})
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	cleanup := func() {
		closeLocker()
		closeCache()
	}
	return rate.NewCachedRateProvider(lg, provider, c, cfg.RateCacheTTL, rate.WithRefreshLocker(l)), cleanup, nil
}
