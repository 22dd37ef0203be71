package lock

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	redislib "github.com/redis/go-redis/v9"
)

// acquireRetryDelay is the polling interval while waiting for a contended
// lock; the number of tries is derived from the wait interval.
const acquireRetryDelay = 50 * time.Millisecond

// RedisBackend implements Backend on a Redis instance using redsync
// mutexes. The lease is enforced by the key expiry, so a holder that
// crashes without releasing is reclaimed once the lease runs out.
type RedisBackend struct {
	rs *redsync.Redsync

	mu   sync.Mutex
	held map[string]*redsync.Mutex
}

func NewRedisBackend(client redislib.UniversalClient) *RedisBackend {
	return &RedisBackend{
		rs:   redsync.New(goredis.NewPool(client)),
		held: make(map[string]*redsync.Mutex),
	}
}

func (b *RedisBackend) TryAcquire(ctx context.Context, key string, wait, lease time.Duration) error {
	tries := int(wait/acquireRetryDelay) + 1
	mutex := b.rs.NewMutex(key,
		redsync.WithExpiry(lease),
		redsync.WithTries(tries),
		redsync.WithRetryDelay(acquireRetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if stderrors.Is(err, redsync.ErrFailed) || stderrors.As(err, &taken) {
			return ErrTimeout
		}
		return err
	}

	b.mu.Lock()
	b.held[key] = mutex
	b.mu.Unlock()
	return nil
}

func (b *RedisBackend) Release(ctx context.Context, key string) error {
	b.mu.Lock()
	mutex, ok := b.held[key]
	delete(b.held, key)
	b.mu.Unlock()

	if !ok {
		// Nothing held under this key by us; the lease will reclaim any
		// stale lock left by a crashed holder.
		return nil
	}

	if _, err := mutex.UnlockContext(ctx); err != nil {
		return err
	}
	return nil
}
