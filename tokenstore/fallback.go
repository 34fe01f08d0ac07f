package tokenstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Fallback wraps a durable [Store] and degrades to an in-memory overlay for
// the rest of the process lifetime when the durable store reports
// [ErrUnavailable]. Disabled or broken storage is not fatal to a session;
// tokens simply stop surviving restarts.
type Fallback struct {
	durable  Store
	memory   *Memory
	degraded atomic.Bool

	// onDegrade fires at most once, outside any lock.
	once      sync.Once
	onDegrade func(err error)
}

// NewFallback wraps durable. onDegrade, if non-nil, is invoked once with the
// error that triggered degradation.
func NewFallback(durable Store, onDegrade func(err error)) *Fallback {
	return &Fallback{
		durable:   durable,
		memory:    NewMemory(),
		onDegrade: onDegrade,
	}
}

// Degraded reports whether the store has switched to in-memory-only mode.
func (f *Fallback) Degraded() bool {
	return f.degraded.Load()
}

func (f *Fallback) degrade(err error) {
	f.degraded.Store(true)
	f.once.Do(func() {
		if f.onDegrade != nil {
			f.onDegrade(err)
		}
	})
}

// Set stores value durably, or in memory once degraded.
func (f *Fallback) Set(ctx context.Context, key, value string) error {
	if !f.degraded.Load() {
		err := f.durable.Set(ctx, key, value)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return err
		}
		f.degrade(err)
	}
	return f.memory.Set(ctx, key, value)
}

// Get reads from the durable store, or from memory once degraded. Values
// written before degradation are not carried over.
func (f *Fallback) Get(ctx context.Context, key string) (string, error) {
	if !f.degraded.Load() {
		value, err := f.durable.Get(ctx, key)
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return value, err
		}
		f.degrade(err)
	}
	return f.memory.Get(ctx, key)
}

// Remove deletes key from whichever layer is active.
func (f *Fallback) Remove(ctx context.Context, key string) error {
	if !f.degraded.Load() {
		err := f.durable.Remove(ctx, key)
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
		f.degrade(err)
	}
	return f.memory.Remove(ctx, key)
}
