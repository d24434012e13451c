package lock

import "context"

// Operation is a request/response operation that mutates an account balance.
type Operation[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// WithLock decorates op so that it runs inside the lock named by keyFn(req):
// the lock is acquired before op is invoked and released in a deferred block
// regardless of whether op returns normally or fails. The operation's result
// or error propagates to the caller unchanged.
//
// For a given key, at most one decorated operation executes its body at a
// time; concurrent callers queue on the Locker's bounded retry.
func WithLock[Req, Res any](locker Locker, keyFn func(Req) string, op Operation[Req, Res]) Operation[Req, Res] {
	return func(ctx context.Context, req Req) (Res, error) {
		key := keyFn(req)

		if err := locker.Lock(ctx, key); err != nil {
			var zero Res
			return zero, err
		}
		defer locker.Unlock(ctx, key)

		return op(ctx, req)
	}
}
