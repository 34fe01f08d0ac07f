package tokenstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Store.Get] when no value exists for the key.
var ErrNotFound = errors.New("token not found")

// ErrUnavailable is returned when the backing storage cannot be reached.
// Callers must treat it as a transient condition, never as token absence.
var ErrUnavailable = errors.New("token storage unavailable")

// Store is the persistence surface for session credentials.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Semantics are last-write-wins. Absence is reported as [ErrNotFound];
// backing-storage failures as [ErrUnavailable]. A Store applies no TTL of
// its own.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}
