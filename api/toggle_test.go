package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
)

func toggleBackend(t *testing.T, failWrites *bool, block chan struct{}) http.Handler {
	t.Helper()
	var mu sync.Mutex
	flags := map[string]bool{"tickets": true, "autoresponses": false}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/guilds/42/features", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Feature, 0, len(flags))
		for name, enabled := range flags {
			out = append(out, Feature{Name: name, Enabled: enabled})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("PUT /api/guilds/42/features/{name}", func(w http.ResponseWriter, r *http.Request) {
		if block != nil {
			<-block
		}
		if failWrites != nil && *failWrites {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		flags[r.PathValue("name")] = body.Enabled
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	return mux
}

func TestTogglesLoadAndConfirm(t *testing.T) {
	svc, _, _ := newTestService(t, toggleBackend(t, nil, nil))
	ctx := context.Background()

	toggles := svc.NewToggles("42")
	if err := toggles.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	st, ok := toggles.State("autoresponses")
	if !ok || st.Enabled || st.Status != ToggleIdle {
		t.Fatalf("unexpected initial state: %+v", st)
	}

	if err := toggles.Set(ctx, "autoresponses", true); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	st, _ = toggles.State("autoresponses")
	if !st.Enabled || st.Status != ToggleConfirmed {
		t.Fatalf("expected confirmed enabled flag, got %+v", st)
	}
}

// A rejected write moves the toggle to failed and restores the last
// confirmed value instead of leaving the optimistic one.
func TestTogglesFailedWriteRestoresConfirmedValue(t *testing.T) {
	fail := false
	svc, _, _ := newTestService(t, toggleBackend(t, &fail, nil))
	ctx := context.Background()

	toggles := svc.NewToggles("42")
	if err := toggles.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	fail = true
	if err := toggles.Set(ctx, "tickets", false); err == nil {
		t.Fatal("expected write failure")
	}

	st, _ := toggles.State("tickets")
	if !st.Enabled {
		t.Fatalf("expected confirmed value restored, got %+v", st)
	}
	if st.Status != ToggleFailed || st.Err == "" {
		t.Fatalf("expected failed status with error, got %+v", st)
	}
}

func TestTogglesRejectConcurrentWrite(t *testing.T) {
	block := make(chan struct{})
	svc, _, _ := newTestService(t, toggleBackend(t, nil, block))
	ctx := context.Background()

	toggles := svc.NewToggles("42")
	if err := toggles.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- toggles.Set(ctx, "tickets", false)
	}()

	// Wait until the first write is pending.
	for {
		st, _ := toggles.State("tickets")
		if st.Status == TogglePending {
			break
		}
	}

	if err := toggles.Set(ctx, "tickets", true); !errors.Is(err, ErrTogglePending) {
		t.Fatalf("expected ErrTogglePending, got %v", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first write failed: %v", err)
	}
}
