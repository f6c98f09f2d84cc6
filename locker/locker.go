package locker

import (
	"context"
	"time"

	"github.com/infigaming-com/go-money/errors"
)

const (
	ErrCodeInvalidLockerKey = 24000 + iota
	ErrCodeLockNotAcquired
	ErrCodeLockerBackend
)

var (
	ErrInvalidLockerKey = errors.NewError(ErrCodeInvalidLockerKey, "locker: invalid key", nil)
	ErrLockNotAcquired  = errors.NewError(ErrCodeLockNotAcquired, "locker: lock not acquired", nil)
	ErrLockerBackend    = errors.NewError(ErrCodeLockerBackend, "locker: backend failure", nil)
)

// Unlocker releases a held lock. Releasing an expired lock is not an error.
type Unlocker func(ctx context.Context) error

// Locker hands out mutexes shared by every process using the same backend.
type Locker interface {
	// Lock retries until the lock is held or the attempts run out.
	Lock(ctx context.Context, key string, opts ...LockerOption) (Unlocker, error)
	// TryLock makes a single attempt.
	TryLock(ctx context.Context, key string, opts ...LockerOption) (Unlocker, error)
}

type LockerOptions struct {
	expiry     time.Duration
	retryDelay time.Duration
	retries    int
}

type LockerOption func(*LockerOptions)

// WithExpiry bounds how long the lock is held if never released.
func WithExpiry(expiry time.Duration) LockerOption {
	return func(o *LockerOptions) {
		o.expiry = expiry
	}
}

func WithRetryDelay(retryDelay time.Duration) LockerOption {
	return func(o *LockerOptions) {
		o.retryDelay = retryDelay
	}
}

func WithRetries(retries int) LockerOption {
	return func(o *LockerOptions) {
		o.retries = retries
	}
}
