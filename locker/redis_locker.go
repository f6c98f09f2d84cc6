package locker

import (
	"context"
	"errors"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisLockerConfig struct {
	Addr           string        `mapstructure:"ADDR"`
	DB             int           `mapstructure:"DB"`
	ConnectTimeout time.Duration `mapstructure:"CONNECT_TIMEOUT"`
	Prefix         string        `mapstructure:"PREFIX"`
}

type redisLocker struct {
	lg      *zap.Logger
	rs      *redsync.Redsync
	prefix  string
	options LockerOptions
}

func defaultOptions() LockerOptions {
	return LockerOptions{
		expiry:     10 * time.Second,
		retryDelay: 50 * time.Millisecond,
		retries:    20,
	}
}

func NewRedisLocker(lg *zap.Logger, cfg *RedisLockerConfig) (Locker, func(), error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "locker:"
	}

	client := goredislib.NewClient(&goredislib.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, ErrLockerBackend.WithDetails(cfg.Addr).WithCause(err)
	}
	lg.Info("connected to redis for locker", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return &redisLocker{
			lg:      lg,
			rs:      redsync.New(goredis.NewPool(client)),
			prefix:  prefix,
			options: defaultOptions(),
		}, func() {
			if err := client.Close(); err != nil {
				lg.Warn("failed to close redis connection for locker", zap.Error(err))
				return
			}
			lg.Info("closed redis connection for locker", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
		}, nil
}

func createUnlocker(mutex *redsync.Mutex, lg *zap.Logger, key string) Unlocker {
	return func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			var taken *redsync.ErrTaken
			if errors.Is(err, redsync.ErrLockAlreadyExpired) || errors.As(err, &taken) {
				lg.Debug("lock already released", zap.String("key", key))
				return nil
			}
			lg.Error("failed to unlock", zap.String("key", key), zap.Error(err))
			return ErrLockerBackend.WithDetails(key).WithCause(err)
		}
		if !ok {
			lg.Debug("lock already released", zap.String("key", key))
			return nil
		}
		lg.Debug("lock released", zap.String("key", key))
		return nil
	}
}

func (l *redisLocker) acquire(ctx context.Context, key string, tries int, options LockerOptions) (Unlocker, error) {
	if key == "" {
		return nil, ErrInvalidLockerKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mutex := l.rs.NewMutex(l.prefix+key,
		redsync.WithExpiry(options.expiry),
		redsync.WithRetryDelay(options.retryDelay),
		redsync.WithTries(tries),
	)
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			l.lg.Debug("failed to acquire lock", zap.String("key", key), zap.Int("tries", tries))
			return nil, ErrLockNotAcquired.WithDetails(key)
		}
		l.lg.Error("error acquiring lock", zap.String("key", key), zap.Error(err))
		return nil, ErrLockerBackend.WithDetails(key).WithCause(err)
	}

	l.lg.Debug("lock acquired", zap.String("key", key))
	return createUnlocker(mutex, l.lg, key), nil
}

func (l *redisLocker) applyOptions(opts []LockerOption) LockerOptions {
	options := l.options
	for _, opt := range opts {
		opt(&options)
	}
	if options.retries < 1 {
		options.retries = 1
	}
	return options
}

func (l *redisLocker) Lock(ctx context.Context, key string, opts ...LockerOption) (Unlocker, error) {
	options := l.applyOptions(opts)
	return l.acquire(ctx, key, options.retries, options)
}

func (l *redisLocker) TryLock(ctx context.Context, key string, opts ...LockerOption) (Unlocker, error) {
	return l.acquire(ctx, key, 1, l.applyOptions(opts))
}
