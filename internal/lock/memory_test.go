package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/riteshkumar/account-ledger/internal/errors"
)

func TestMemoryLockService_LockTimesOutWhenHeld(t *testing.T) {
	locker := NewMemoryLockService(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, locker.Lock(ctx, "1000000000"))

	err := locker.Lock(ctx, "1000000000")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeLockAcquisitionTimeout))
}

func TestMemoryLockService_LockAfterRelease(t *testing.T) {
	locker := NewMemoryLockService(time.Second)
	ctx := context.Background()

	require.NoError(t, locker.Lock(ctx, "1000000000"))
	locker.Unlock(ctx, "1000000000")
	require.NoError(t, locker.Lock(ctx, "1000000000"))
}

func TestMemoryLockService_UnlockWithoutLockIsNoop(t *testing.T) {
	locker := NewMemoryLockService(50 * time.Millisecond)
	ctx := context.Background()

	locker.Unlock(ctx, "1000000000")
	locker.Unlock(ctx, "1000000000")

	// The key must still be lockable exactly once.
	require.NoError(t, locker.Lock(ctx, "1000000000"))
	err := locker.Lock(ctx, "1000000000")
	assert.True(t, apperrors.Is(err, apperrors.CodeLockAcquisitionTimeout))
}

func TestMemoryLockService_ContextCancellation(t *testing.T) {
	locker := NewMemoryLockService(time.Minute)

	require.NoError(t, locker.Lock(context.Background(), "1000000000"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := locker.Lock(ctx, "1000000000")
	assert.True(t, apperrors.Is(err, apperrors.CodeLockAcquisitionTimeout))
}

func TestMemoryLockService_IndependentKeys(t *testing.T) {
	locker := NewMemoryLockService(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, locker.Lock(ctx, "1000000000"))
	require.NoError(t, locker.Lock(ctx, "1000000001"))
}
