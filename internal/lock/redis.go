package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/riteshkumar/account-ledger/internal/errors"
)

const lockKeyPrefix = "lock:account:"

// Options configures lock acquisition behaviour.
type Options struct {
	// Expiry is the lease time: how long a lock is held before it
	// auto-expires, so a crashed holder cannot block an account forever.
	Expiry time.Duration
	// Tries is the number of acquisition attempts before giving up.
	Tries int
	// RetryDelay is the wait between attempts. Tries x RetryDelay bounds
	// the total wait time.
	RetryDelay time.Duration
}

// DefaultOptions returns acquisition settings suitable for short balance
// mutations: up to ~5s of waiting on a contended account, 15s lease.
func DefaultOptions() Options {
	return Options{
		Expiry:     15 * time.Second,
		Tries:      25,
		RetryDelay: 200 * time.Millisecond,
	}
}

// RedisLockService implements Locker against a shared Redis instance using
// redsync mutexes, giving cross-process mutual exclusion.
type RedisLockService struct {
	rs     *redsync.Redsync
	opts   Options
	logger *slog.Logger

	mu   sync.Mutex
	held map[string]*redsync.Mutex
}

func NewRedisLockService(client goredislib.UniversalClient, opts Options, logger *slog.Logger) *RedisLockService {
	pool := goredis.NewPool(client)
	return &RedisLockService{
		rs:     redsync.New(pool),
		opts:   opts,
		logger: logger,
		held:   make(map[string]*redsync.Mutex),
	}
}

func (s *RedisLockService) Lock(ctx context.Context, key string) error {
	mutex := s.rs.NewMutex(
		lockKeyPrefix+key,
		redsync.WithExpiry(s.opts.Expiry),
		redsync.WithTries(s.opts.Tries),
		redsync.WithRetryDelay(s.opts.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		s.logger.Warn("failed to acquire account lock",
			"lock_key", key,
			"error", err.Error(),
		)
		return errors.New(errors.CodeLockAcquisitionTimeout)
	}

	s.mu.Lock()
	s.held[key] = mutex
	s.mu.Unlock()

	return nil
}

func (s *RedisLockService) Unlock(ctx context.Context, key string) {
	s.mu.Lock()
	mutex, ok := s.held[key]
	delete(s.held, key)
	s.mu.Unlock()

	if !ok {
		return
	}

	if released, err := mutex.UnlockContext(ctx); !released || err != nil {
		// The lease expiry reclaims the lock eventually; nothing to do
		// beyond recording that the explicit release did not land.
		s.logger.Error("failed to release account lock",
			"lock_key", key,
			"released", released,
			"error", errString(err),
		)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var _ Locker = (*RedisLockService)(nil)
