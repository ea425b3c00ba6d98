package dryer

import (
	"reflect"
	"sync"
)

var (
	registry   = make(map[reflect.Type]*Shortcuts)
	registryMu sync.RWMutex
)

// Use returns the cached Shortcuts for T or builds one.
// define declares the accessors of a new table; a table that fails Validate
// is not cached.
//
// The cache is keyed by type only. Options are applied when the table is
// first built; later calls for the same T return that table and ignore their
// options. define runs without the registry lock held, so it may call Use for
// other types. Concurrent first calls may each build a table; all of them
// return the one that was cached first.
func Use[T any](define func(*Shortcuts), opts ...Option) (*Shortcuts, error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached, nil
	}
	registryMu.RUnlock()

	// Slow path: build unlocked, then cache with write-lock
	s := New[T](opts...)
	if define != nil {
		define(s)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[typ]; ok {
		return cached, nil
	}
	registry[typ] = s
	return s, nil
}

// Reset clears the Shortcuts registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*Shortcuts)
}
