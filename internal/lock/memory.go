package lock

import (
	"context"
	"sync"
	"time"

	"github.com/riteshkumar/account-ledger/internal/errors"
)

// MemoryLockService implements Locker inside a single process using one
// semaphore channel per key. It backs tests and database-less deployments
// where cross-process exclusion is not needed.
type MemoryLockService struct {
	wait time.Duration

	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemoryLockService(wait time.Duration) *MemoryLockService {
	return &MemoryLockService{
		wait:  wait,
		locks: make(map[string]chan struct{}),
	}
}

func (s *MemoryLockService) semaphore(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	sem, ok := s.locks[key]
	if !ok {
		sem = make(chan struct{}, 1)
		s.locks[key] = sem
	}
	return sem
}

func (s *MemoryLockService) Lock(ctx context.Context, key string) error {
	timer := time.NewTimer(s.wait)
	defer timer.Stop()

	select {
	case s.semaphore(key) <- struct{}{}:
		return nil
	case <-timer.C:
		return errors.New(errors.CodeLockAcquisitionTimeout)
	case <-ctx.Done():
		return errors.New(errors.CodeLockAcquisitionTimeout)
	}
}

func (s *MemoryLockService) Unlock(ctx context.Context, key string) {
	select {
	case <-s.semaphore(key):
	default:
		// no lock held for key
	}
}

var _ Locker = (*MemoryLockService)(nil)
