// Package lock provides the per-account mutual exclusion that serializes
// balance mutations. A Locker coordinates against a shared lock store; the
// WithLock decorator wraps balance-mutating operations so the lock scope
// stays visible at call sites.
package lock

import "context"

// Locker acquires and releases named mutual-exclusion locks.
// Implementations have no knowledge of accounts; the key is opaque.
type Locker interface {
	// Lock blocks with bounded retry until the lock for key is held, or
	// fails with a LOCK_ACQUISITION_TIMEOUT error once the deadline passes.
	Lock(ctx context.Context, key string) error

	// Unlock releases the lock for key. Releasing a key with no held lock
	// is a no-op, never an error.
	Unlock(ctx context.Context, key string)
}
