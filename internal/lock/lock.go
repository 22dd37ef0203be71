package lock

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"account-ledger/internal/errors"
)

// lockKeyPrefix namespaces account locks in the shared backend.
const lockKeyPrefix = "ACLK"

// SequenceResource is the reserved resource serializing account-number
// issuance across the service.
const SequenceResource = "SEQ"

// ErrTimeout is returned by a Backend when the lock stayed contended for
// the whole wait interval. Any other Backend error is a transport failure.
var ErrTimeout = stderrors.New("lock: wait timeout expired")

// Backend is the shared out-of-process lock service.
type Backend interface {
	TryAcquire(ctx context.Context, key string, wait, lease time.Duration) error
	Release(ctx context.Context, key string) error
}

// LockKey derives the backend key for a resource name. Two requests for
// the same account number always contend on the same key.
func LockKey(resource string) string {
	return lockKeyPrefix + resource
}

// Coordinator acquires and releases per-account locks with a bounded wait
// and a bounded lease. An acquire has a three-way outcome: acquired, timed
// out (surfaced as LockUnavailable), or backend transport failure. The
// transport case follows the configured policy: fail-open proceeds without
// the lock, fail-closed rejects the request.
type Coordinator struct {
	backend  Backend
	wait     time.Duration
	lease    time.Duration
	failOpen bool
	logger   *slog.Logger
}

func NewCoordinator(backend Backend, wait, lease time.Duration, failOpen bool, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		backend:  backend,
		wait:     wait,
		lease:    lease,
		failOpen: failOpen,
		logger:   logger,
	}
}

func (c *Coordinator) Acquire(ctx context.Context, resource string) error {
	c.logger.Debug("trying lock", "resource", resource)

	err := c.backend.TryAcquire(ctx, LockKey(resource), c.wait, c.lease)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, ErrTimeout):
		c.logger.Error("lock acquisition failed", "resource", resource)
		return errors.New(errors.LockUnavailable)
	default:
		if c.failOpen {
			c.logger.Error("lock backend unavailable, proceeding without lock",
				"resource", resource, "error", err)
			return nil
		}
		return errors.New(errors.LockUnavailable).WithDetails(err.Error())
	}
}

// Release requests release of any lock held for resource. It never fails
// the caller; backend errors are logged only.
func (c *Coordinator) Release(ctx context.Context, resource string) {
	c.logger.Debug("unlocking", "resource", resource)

	// The request context may already be cancelled by the time the guarded
	// operation finishes; the release must still reach the backend.
	ctx = context.WithoutCancel(ctx)
	if err := c.backend.Release(ctx, LockKey(resource)); err != nil {
		c.logger.Error("lock release failed", "resource", resource, "error", err)
	}
}

// Guard wraps one guarded call: acquire, invoke, release on every exit
// path. When acquisition fails the wrapped operation is never invoked.
type Guard struct {
	coordinator *Coordinator
}

func NewGuard(coordinator *Coordinator) *Guard {
	return &Guard{coordinator: coordinator}
}

func (g *Guard) Do(ctx context.Context, resource string, fn func() error) error {
	if err := g.coordinator.Acquire(ctx, resource); err != nil {
		return err
	}
	defer g.coordinator.Release(ctx, resource)

	return fn()
}
