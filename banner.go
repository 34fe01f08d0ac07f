package dashauth

import (
	"context"
	"sync"
	"time"
)

// Banner tracks the visible admin-session indicator for one guild view.
// It separates two user intents that look similar but are not: Dismiss
// hides the indicator without touching the elevation, while EndSession
// destroys the elevation and asks for a reload so every privileged
// affordance re-renders unelevated.
type Banner struct {
	client  *Client
	guildID string

	mu        sync.Mutex
	state     ElevationState
	dismissed bool
}

// NewBanner creates a banner controller for the guild. The initial state is
// not elevated; call Refresh to populate it.
func (c *Client) NewBanner(guildID string) *Banner {
	return &Banner{
		client:  c,
		guildID: guildID,
		state:   ElevationState{GuildID: guildID},
	}
}

// Refresh revalidates the elevation with the server and updates the banner
// state. Validation semantics are those of [Client.ValidateElevation]: no
// stored token means no network call, and any failure reads as not
// elevated.
func (b *Banner) Refresh(ctx context.Context) (ElevationState, error) {
	state, err := b.client.ValidateElevation(ctx, b.guildID)

	b.mu.Lock()
	b.state = *state
	if !state.Valid {
		// Nothing to show, so nothing to stay dismissed.
		b.dismissed = false
	}
	b.mu.Unlock()

	return *state, err
}

// State returns the last known elevation state without a network call.
func (b *Banner) State() ElevationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Visible reports whether the indicator should render: a valid elevation
// that the user has not dismissed.
func (b *Banner) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Valid && !b.dismissed
}

// Remaining returns the time left on the elevation as of now, or zero when
// not elevated or already expired.
func (b *Banner) Remaining(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.state.Valid {
		return 0
	}
	return b.state.Remaining(now)
}

// StartAutoRefresh revalidates the banner on the configured interval until
// ctx is cancelled. Privileged actions still revalidate on their own; this
// only keeps the countdown honest.
func (b *Banner) StartAutoRefresh(ctx context.Context) {
	interval := b.client.Config().Elevation.RevalidateInterval
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = b.Refresh(ctx)
			}
		}
	}()
}

// Dismiss hides the indicator. Presentation only: the elevation token and
// its server-side session are untouched, and subsequent guild-scoped
// requests still carry the elevation header.
func (b *Banner) Dismiss() {
	b.mu.Lock()
	b.dismissed = true
	b.mu.Unlock()
}

// EndSession destroys the elevation for this guild and returns a reload
// intent so the whole view re-renders without privileged affordances.
// The primary session and other guilds' elevations are unaffected.
func (b *Banner) EndSession(ctx context.Context) (Redirect, error) {
	if err := b.client.ClearElevation(ctx, b.guildID); err != nil {
		return Redirect{}, err
	}

	b.mu.Lock()
	b.state = ElevationState{GuildID: b.guildID}
	b.dismissed = false
	b.mu.Unlock()

	return Redirect{Reload: true}, nil
}
