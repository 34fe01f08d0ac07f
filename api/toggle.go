package api

import (
	"context"
	"sync"
)

// ToggleStatus is the lifecycle of one feature flag write.
type ToggleStatus int

const (
	// ToggleIdle means the flag reflects the last server-confirmed value.
	ToggleIdle ToggleStatus = iota
	// TogglePending means a write is in flight; render the intent, not
	// the old value, but keep the control disabled.
	TogglePending
	// ToggleConfirmed means the last write was accepted.
	ToggleConfirmed
	// ToggleFailed means the last write was rejected; the flag shows the
	// previous confirmed value alongside the error.
	ToggleFailed
)

// ToggleState is the renderable state of one feature flag.
type ToggleState struct {
	Name    string
	Enabled bool
	Status  ToggleStatus
	Err     string
}

// Toggles tracks feature-flag writes for one guild as an explicit state
// machine. Each flag is idle, pending, confirmed, or failed; a failed
// write keeps the last confirmed value instead of guessing. This replaces
// flipping the UI optimistically and reverting on error, which briefly
// shows a state the server never had.
type Toggles struct {
	svc     *Service
	guildID string

	mu     sync.Mutex
	states map[string]*ToggleState
}

// NewToggles creates a toggle tracker for the guild.
func (s *Service) NewToggles(guildID string) *Toggles {
	return &Toggles{
		svc:     s,
		guildID: guildID,
		states:  make(map[string]*ToggleState),
	}
}

// Load fetches the current flags and resets every toggle to idle.
func (t *Toggles) Load(ctx context.Context) error {
	features, err := t.svc.Features(ctx, t.guildID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.states = make(map[string]*ToggleState, len(features))
	for _, f := range features {
		t.states[f.Name] = &ToggleState{Name: f.Name, Enabled: f.Enabled, Status: ToggleIdle}
	}
	t.mu.Unlock()

	return nil
}

// State returns the renderable state of one flag.
func (t *Toggles) State(name string) (ToggleState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[name]
	if !ok {
		return ToggleState{}, false
	}
	return *st, true
}

// States returns a snapshot of all tracked flags.
func (t *Toggles) States() []ToggleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ToggleState, 0, len(t.states))
	for _, st := range t.states {
		out = append(out, *st)
	}
	return out
}

// Set writes a flag. The toggle moves to pending with the desired value,
// then to confirmed on success or back to the previous confirmed value
// with a failed status on error. A toggle that is already pending rejects
// the write; callers wait for the in-flight one.
func (t *Toggles) Set(ctx context.Context, name string, enabled bool) error {
	t.mu.Lock()
	st, ok := t.states[name]
	if !ok {
		st = &ToggleState{Name: name}
		t.states[name] = st
	}
	if st.Status == TogglePending {
		t.mu.Unlock()
		return ErrTogglePending
	}
	previous := st.Enabled
	st.Enabled = enabled
	st.Status = TogglePending
	st.Err = ""
	t.mu.Unlock()

	err := t.svc.SetFeature(ctx, t.guildID, name, enabled)

	t.mu.Lock()
	if err != nil {
		st.Enabled = previous
		st.Status = ToggleFailed
		st.Err = err.Error()
	} else {
		st.Status = ToggleConfirmed
	}
	t.mu.Unlock()

	return err
}
