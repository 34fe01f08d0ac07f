package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// storeConformance exercises the Store contract shared by all
// implementations.
func storeConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := store.Get(ctx, "k")
	if err != nil || value != "v1" {
		t.Fatalf("get after set: got %q, %v", value, err)
	}

	// Last write wins.
	if err := store.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, err = store.Get(ctx, "k")
	if err != nil || value != "v2" {
		t.Fatalf("get after overwrite: got %q, %v", value, err)
	}

	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after remove: expected ErrNotFound, got %v", err)
	}

	// Remove is idempotent.
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
}

func TestMemoryConformance(t *testing.T) {
	storeConformance(t, NewMemory())
}

func TestFileConformance(t *testing.T) {
	storeConformance(t, NewFile(filepath.Join(t.TempDir(), "tokens.json")))
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")

	first := NewFile(path)
	if err := first.Set(ctx, "discord_token", "abc123"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := first.Set(ctx, "admin-session-42", "elev"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	second := NewFile(path)
	value, err := second.Get(ctx, "discord_token")
	if err != nil || value != "abc123" {
		t.Fatalf("reopened get: got %q, %v", value, err)
	}
	value, err = second.Get(ctx, "admin-session-42")
	if err != nil || value != "elev" {
		t.Fatalf("reopened elevation get: got %q, %v", value, err)
	}
}

func TestFileMissingReadsEmpty(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "never-created.json"))
	if _, err := store.Get(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
