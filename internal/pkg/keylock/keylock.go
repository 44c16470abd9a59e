package keylock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned when a lock could not be acquired within the
// configured wait bound.
var ErrTimeout = errors.New("keylock: acquire timed out")

type entry struct {
	sem  chan struct{}
	refs int
}

// Map serializes work per key. Callers for the same key take turns, callers
// for different keys never block one another. Waiting is bounded: Acquire
// gives up after the configured timeout instead of queueing indefinitely.
type Map struct {
	mu      sync.Mutex
	entries map[int64]*entry
	timeout time.Duration
}

func New(timeout time.Duration) *Map {
	return &Map{
		entries: make(map[int64]*entry),
		timeout: timeout,
	}
}

// Acquire blocks until the key's lock is held, the context is cancelled, or
// the wait bound elapses. On success it returns the release function; the
// caller must invoke it exactly once.
func (m *Map) Acquire(ctx context.Context, key int64) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			m.put(key, e)
		}, nil
	case <-ctx.Done():
		m.put(key, e)
		return nil, ctx.Err()
	case <-timer.C:
		m.put(key, e)
		return nil, ErrTimeout
	}
}

// put drops one reference and reclaims the entry once nobody holds or waits
// on it, so the map does not grow with the number of keys ever seen.
func (m *Map) put(key int64, e *entry) {
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}
