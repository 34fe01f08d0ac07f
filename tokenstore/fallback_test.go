package tokenstore

import (
	"context"
	"errors"
	"testing"
)

// flakyStore fails every operation with ErrUnavailable once broken.
type flakyStore struct {
	inner  Store
	broken bool
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.broken {
		return ErrUnavailable
	}
	return f.inner.Set(ctx, key, value)
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if f.broken {
		return "", ErrUnavailable
	}
	return f.inner.Get(ctx, key)
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if f.broken {
		return ErrUnavailable
	}
	return f.inner.Remove(ctx, key)
}

func TestFallbackConformance(t *testing.T) {
	storeConformance(t, NewFallback(NewMemory(), nil))
}

func TestFallbackDegradesOnce(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{inner: NewMemory()}

	var notified int
	fb := NewFallback(flaky, func(error) { notified++ })

	if err := fb.Set(ctx, "k", "durable"); err != nil {
		t.Fatalf("set before outage failed: %v", err)
	}

	flaky.broken = true

	// First failing op flips to memory; the op itself still succeeds.
	if err := fb.Set(ctx, "k", "memory"); err != nil {
		t.Fatalf("set during outage failed: %v", err)
	}
	if !fb.Degraded() {
		t.Fatal("expected degraded store")
	}
	if notified != 1 {
		t.Fatalf("expected one degrade notification, got %d", notified)
	}

	value, err := fb.Get(ctx, "k")
	if err != nil || value != "memory" {
		t.Fatalf("get during outage: got %q, %v", value, err)
	}

	// Recovery of the backing store does not un-degrade the session.
	flaky.broken = false
	if err := fb.Set(ctx, "k2", "v"); err != nil {
		t.Fatalf("set after recovery failed: %v", err)
	}
	if _, err := flaky.inner.Get(ctx, "k2"); !errors.Is(err, ErrNotFound) {
		t.Fatal("degraded store must not write through to the durable layer")
	}
	if notified != 1 {
		t.Fatalf("expected one degrade notification, got %d", notified)
	}
}

func TestFallbackPassesThroughNotFound(t *testing.T) {
	fb := NewFallback(NewMemory(), nil)
	if _, err := fb.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if fb.Degraded() {
		t.Fatal("ErrNotFound must not trigger degradation")
	}
}
