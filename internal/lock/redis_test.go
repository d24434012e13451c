package lock

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/riteshkumar/account-ledger/internal/errors"
)

func setupRedisLock(t *testing.T, opts Options) *RedisLockService {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredislib.NewClient(&goredislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisLockService(client, opts, logger)
}

func TestRedisLockService_LockAndUnlock(t *testing.T) {
	locker := setupRedisLock(t, DefaultOptions())
	ctx := context.Background()

	require.NoError(t, locker.Lock(ctx, "1000000000"))
	locker.Unlock(ctx, "1000000000")
	require.NoError(t, locker.Lock(ctx, "1000000000"))
}

func TestRedisLockService_BoundedWait(t *testing.T) {
	locker := setupRedisLock(t, Options{
		Expiry:     5 * time.Second,
		Tries:      2,
		RetryDelay: 10 * time.Millisecond,
	})
	ctx := context.Background()

	require.NoError(t, locker.Lock(ctx, "1000000000"))

	start := time.Now()
	err := locker.Lock(ctx, "1000000000")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeLockAcquisitionTimeout))
	assert.Less(t, time.Since(start), time.Second, "acquisition must give up after bounded retries")
}

func TestRedisLockService_UnlockWithoutLockIsNoop(t *testing.T) {
	locker := setupRedisLock(t, DefaultOptions())
	ctx := context.Background()

	locker.Unlock(ctx, "1000000000")

	require.NoError(t, locker.Lock(ctx, "1000000000"))
}

func TestRedisLockService_IndependentKeys(t *testing.T) {
	locker := setupRedisLock(t, Options{
		Expiry:     5 * time.Second,
		Tries:      2,
		RetryDelay: 10 * time.Millisecond,
	})
	ctx := context.Background()

	require.NoError(t, locker.Lock(ctx, "1000000000"))
	require.NoError(t, locker.Lock(ctx, "1000000001"))
}
