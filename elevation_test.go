package dashauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bottrapper/dashauth/tokenstore"
)

func elevationBackend(t *testing.T, tokens map[string]string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/session/{guild}", func(w http.ResponseWriter, r *http.Request) {
		guild := r.PathValue("guild")
		token := "elev-" + guild
		tokens[guild] = token
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sessionToken": token,
			"guildId":      guild,
			"adminLevel":   2,
			"expiresAt":    time.Now().Add(30 * time.Minute).UnixMilli(),
		})
	})
	mux.HandleFunc("GET /api/admin/session/validate/{guild}", func(w http.ResponseWriter, r *http.Request) {
		guild := r.PathValue("guild")
		if r.Header.Get(HeaderElevation) != tokens[guild] || tokens[guild] == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{"valid": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"valid":      true,
			"guildId":    guild,
			"adminLevel": 2,
			"expiresAt":  time.Now().Add(30 * time.Minute).UnixMilli(),
		})
	})
	return mux
}

// Elevating a guild persists the token, subsequent guild requests carry it,
// and validation confirms it. Scenario: an admin unlocks privileged
// controls for one guild.
func TestGenerateThenValidateElevation(t *testing.T) {
	issued := map[string]string{}
	client, store := newTestClient(t, elevationBackend(t, issued))
	ctx := context.Background()
	client.setToken("primary")

	state, err := client.GenerateElevation(ctx, "42")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !state.Valid || state.AdminLevel != 2 {
		t.Fatalf("unexpected grant state: %+v", state)
	}
	if state.Remaining(time.Now()) <= 0 {
		t.Fatal("expected a future expiry")
	}

	stored, err := store.Get(ctx, "admin-session-42")
	if err != nil {
		t.Fatalf("expected token persisted: %v", err)
	}
	if stored != issued["42"] {
		t.Fatalf("stored token %q does not match issued %q", stored, issued["42"])
	}

	verdict, err := client.ValidateElevation(ctx, "42")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !verdict.Valid {
		t.Fatal("expected elevation valid")
	}
}

func TestGenerateOverwritesExistingElevation(t *testing.T) {
	issued := map[string]string{}
	client, store := newTestClient(t, elevationBackend(t, issued))
	ctx := context.Background()
	client.setToken("primary")

	if err := store.Set(ctx, "admin-session-42", "previous"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := client.GenerateElevation(ctx, "42"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	stored, err := store.Get(ctx, "admin-session-42")
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if stored == "previous" {
		t.Fatal("expected the old token overwritten")
	}
}

func TestValidateWithoutStoredTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	state, err := client.ValidateElevation(context.Background(), "42")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if state.Valid {
		t.Fatal("expected invalid state")
	}
	if hits.Load() != 0 {
		t.Fatalf("expected zero backend calls, got %d", hits.Load())
	}
	if got := client.metrics.Value(MetricElevationSkippedLocal); got != 1 {
		t.Fatalf("expected local skip recorded, got %d", got)
	}
}

func TestValidateFailsClosedOnServerError(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx := context.Background()
	if err := store.Set(ctx, "admin-session-42", "stale"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	state, err := client.ValidateElevation(ctx, "42")
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if state.Valid {
		t.Fatal("expected fail-closed invalid state")
	}
	if _, err := store.Get(ctx, "admin-session-42"); !errors.Is(err, tokenstore.ErrNotFound) {
		t.Fatalf("expected stale token removed, got %v", err)
	}
}

func TestValidateFailsClosedWhenBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store := tokenstore.NewMemory()
	client, err := New().WithBaseURL(srv.URL).WithStore(store).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "admin-session-42", "stale"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	state, err := client.ValidateElevation(ctx, "42")
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if state.Valid {
		t.Fatal("unreachable backend must read as not elevated")
	}
	if _, err := store.Get(ctx, "admin-session-42"); !errors.Is(err, tokenstore.ErrNotFound) {
		t.Fatalf("expected token removed fail-closed, got %v", err)
	}
}

// Backend restarted and no longer recognizes the token. The stale token is
// purged and later guild requests fall back to the primary bearer alone.
func TestValidateRejectedTokenIsPurged(t *testing.T) {
	issued := map[string]string{}
	headers := make(chan http.Header, 1)
	mux := http.NewServeMux()
	mux.Handle("/api/admin/", elevationBackend(t, issued))
	mux.HandleFunc("/api/permissions/", func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
	})

	client, store := newTestClient(t, mux)
	ctx := context.Background()
	client.setToken("primary")

	// Token from before the restart; the backend never issued it.
	if err := store.Set(ctx, "admin-session-42", "pre-restart"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	state, err := client.ValidateElevation(ctx, "42")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if state.Valid {
		t.Fatal("expected rejection")
	}
	if got := client.metrics.Value(MetricElevationRejected); got != 1 {
		t.Fatalf("expected rejection recorded, got %d", got)
	}

	resp, err := client.HTTPClient().Get(client.endpoint("/api/permissions/42"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	h := <-headers
	if got := h.Get(HeaderElevation); got != "" {
		t.Fatalf("purged elevation must not be sent, got %q", got)
	}
	if got := h.Get("Authorization"); got != "Bearer primary" {
		t.Fatalf("primary session must survive, got %q", got)
	}
}

func TestElevationIsolationBetweenGuilds(t *testing.T) {
	issued := map[string]string{}
	client, store := newTestClient(t, elevationBackend(t, issued))
	ctx := context.Background()
	client.setToken("primary")

	if _, err := client.GenerateElevation(ctx, "42"); err != nil {
		t.Fatalf("generate guild 42 failed: %v", err)
	}
	if _, err := client.GenerateElevation(ctx, "77"); err != nil {
		t.Fatalf("generate guild 77 failed: %v", err)
	}

	if err := client.ClearElevation(ctx, "42"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if client.HasElevationToken(ctx, "42") {
		t.Fatal("guild 42 elevation should be gone")
	}
	if !client.HasElevationToken(ctx, "77") {
		t.Fatal("guild 77 elevation must be untouched")
	}
	if _, err := store.Get(ctx, "admin-session-77"); err != nil {
		t.Fatalf("guild 77 token missing: %v", err)
	}
	if !client.IsAuthenticated() {
		t.Fatal("primary session must be untouched")
	}
}

func TestValidateRejectsInvalidGuildID(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	if _, err := client.GenerateElevation(context.Background(), "../etc"); !errors.Is(err, ErrInvalidGuildID) {
		t.Fatalf("expected ErrInvalidGuildID from generate, got %v", err)
	}
	if _, err := client.ValidateElevation(context.Background(), ""); !errors.Is(err, ErrInvalidGuildID) {
		t.Fatalf("expected ErrInvalidGuildID from validate, got %v", err)
	}
	if err := client.ClearElevation(context.Background(), "abc"); !errors.Is(err, ErrInvalidGuildID) {
		t.Fatalf("expected ErrInvalidGuildID from clear, got %v", err)
	}
}
