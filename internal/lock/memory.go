package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is an in-process Locker. The zero value is not usable; call
// NewMemoryLocker.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// slot is a one-token semaphore shared by everyone waiting on a key.
// refs counts holders plus waiters so idle keys can be dropped.
type slot struct {
	token chan struct{}
	refs  int
}

// NewMemoryLocker returns an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

// Lock implements Locker.
// MemoryLocker leases never expire, so their Err is always nil.
func (l *MemoryLocker) Lock(ctx context.Context, key string) (Lease, error) {
	start := time.Now()
	s := l.acquireSlot(key)

	select {
	case s.token <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key, s)
		return nil, busy("lock.MemoryLocker.Lock", key, ctx.Err())
	}
	observeWait(start)

	return newLease(func() {
		<-s.token
		l.releaseSlot(key, s)
	}), nil
}

func (l *MemoryLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{token: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *MemoryLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// held reports how many keys currently have a holder or waiter.
func (l *MemoryLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
