// Package lock serializes work on a single trip.
//
// Regenerating a trip's logs deletes and rewrites every entry and summary the
// trip owns. Two overlapping runs for the same trip would interleave those
// writes, so callers take a per-trip lock first. MemoryLocker covers a single
// process; RedisLocker extends the exclusion across API replicas.
package lock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/metrics"
)

// ErrLeaseLost is returned by Lease.Err once the lock expired or passed to
// another holder. It matches domain.ErrConflict.
var ErrLeaseLost = fmt.Errorf("lock lease lost: %w", domain.ErrConflict)

// Locker grants exclusive access to a key. Lock blocks until the key is free
// or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (Lease, error)
}

// Lease is a held lock. Unlock is safe to call more than once. Err reports
// ErrLeaseLost when exclusion can no longer be guaranteed; writes made under
// a lost lease must not be committed.
type Lease interface {
	Unlock()
	Err() error
}

type lease struct {
	release func()
	once    sync.Once
	done    chan struct{}
	lost    atomic.Bool
}

func newLease(release func()) *lease {
	return &lease{release: release, done: make(chan struct{})}
}

func (l *lease) Unlock() {
	l.once.Do(func() {
		close(l.done)
		l.release()
	})
}

func (l *lease) Err() error {
	if l.lost.Load() {
		return ErrLeaseLost
	}
	return nil
}

// busy reports a lock that could not be acquired before ctx ended. The error
// matches both domain.ErrConflict and the context error.
func busy(op, key string, ctxErr error) error {
	return fmt.Errorf("%s %s: %w: %w", op, key, domain.ErrConflict, ctxErr)
}

func observeWait(start time.Time) {
	metrics.TripLockWaitDuration.Observe(time.Since(start).Seconds())
}
