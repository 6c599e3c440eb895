// Package cache provides TTL-refreshed, read-mostly snapshots of data loaded from storage.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
)

// Loader loads a full snapshot value
type Loader[T any] func(ctx context.Context) (T, error)

// Snapshot keeps a value loaded by Loader and reloads it fully once it is older than TTL.
// A new value is published by a single atomic store, readers never see a partial update.
// There is no incremental invalidation, changes made in storage become visible within TTL.
type Snapshot[T any] struct {
	name string
	ttl  time.Duration
	load Loader[T]

	current  atomic.Pointer[entry[T]]
	reloadMu sync.Mutex // serializes reloads, readers of a fresh snapshot never take it
}

type entry[T any] struct {
	value    T
	loadedAt time.Time
}

// NewSnapshot makes a snapshot cache, name is used in logs only
func NewSnapshot[T any](name string, ttl time.Duration, load Loader[T]) *Snapshot[T] {
	return &Snapshot[T]{name: name, ttl: ttl, load: load}
}

// GetOrReload returns the cached value if it is younger than TTL at now, otherwise reloads it.
// On reload failure the stale value is served with a warning; the error is returned only
// if nothing was ever loaded.
func (s *Snapshot[T]) GetOrReload(ctx context.Context, now time.Time) (T, error) {
	if e := s.current.Load(); e != nil && now.Sub(e.loadedAt) < s.ttl {
		return e.value, nil
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	// another caller may have reloaded while we waited
	stale := s.current.Load()
	if stale != nil && now.Sub(stale.loadedAt) < s.ttl {
		return stale.value, nil
	}

	value, err := s.load(ctx)
	if err != nil {
		if stale != nil {
			lgr.Printf("[WARN] %s cache reload failed, serving snapshot loaded at %s: %v",
				s.name, stale.loadedAt.Format(time.RFC3339), err)
			return stale.value, nil
		}
		var zero T
		return zero, fmt.Errorf("load %s: %w", s.name, err)
	}

	s.current.Store(&entry[T]{value: value, loadedAt: now})
	lgr.Printf("[DEBUG] %s cache reloaded", s.name)
	return value, nil
}

// loadedAt returns when the current snapshot was loaded, zero if never
func (s *Snapshot[T]) loadedAt() time.Time {
	if e := s.current.Load(); e != nil {
		return e.loadedAt
	}
	return time.Time{}
}
