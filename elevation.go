package dashauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bottrapper/dashauth/tokenstore"
)

// elevationGrant is the wire shape of POST /api/admin/session/{guildId}.
type elevationGrant struct {
	SessionToken string `json:"sessionToken"`
	GuildID      string `json:"guildId"`
	AdminLevel   int    `json:"adminLevel"`
	ExpiresAt    int64  `json:"expiresAt"` // unix milliseconds
}

// elevationVerdict is the wire shape of GET /api/admin/session/validate/{guildId}.
type elevationVerdict struct {
	Valid      bool   `json:"valid"`
	UserID     string `json:"userId"`
	GuildID    string `json:"guildId"`
	AdminLevel int    `json:"adminLevel"`
	ExpiresAt  int64  `json:"expiresAt"` // unix milliseconds
}

// GenerateElevation requests a new admin-session token for the guild and
// persists it keyed by guild id. Generating for a guild that already holds
// a token overwrites it; elevations never stack.
func (c *Client) GenerateElevation(ctx context.Context, guildID string) (*ElevationState, error) {
	key, err := c.keys.Elevation(guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGuildID, guildID)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.API.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/api/admin/session/"+guildID), bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.metrics.Inc(MetricElevationRejected)
		c.emit(ctx, EventElevationRejected, guildID, false, fmt.Sprintf("status %d", resp.StatusCode))
		return nil, fmt.Errorf("%w: %d", ErrElevationRejected, resp.StatusCode)
	}

	var grant elevationGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if grant.SessionToken == "" {
		return nil, fmt.Errorf("%w: empty session token", ErrElevationRejected)
	}

	if err := c.store.Set(ctx, key, grant.SessionToken); err != nil {
		return nil, err
	}

	c.metrics.Inc(MetricElevationGenerated)
	c.emit(ctx, EventElevationGenerated, guildID, true, "")

	return &ElevationState{
		GuildID:    guildID,
		Valid:      true,
		AdminLevel: grant.AdminLevel,
		ExpiresAt:  time.UnixMilli(grant.ExpiresAt),
	}, nil
}

// ValidateElevation is the only authority on elevation validity. With no
// stored token it returns an invalid state without any network call.
// Otherwise the server is asked; on any failure (transport error, non-2xx,
// or a server verdict of invalid) the stored token for that guild is
// removed and the state is invalid. Elevation is never assumed valid while
// its status is unknown.
func (c *Client) ValidateElevation(ctx context.Context, guildID string) (*ElevationState, error) {
	invalid := &ElevationState{GuildID: guildID}

	key, err := c.keys.Elevation(guildID)
	if err != nil {
		return invalid, fmt.Errorf("%w: %q", ErrInvalidGuildID, guildID)
	}

	token, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			c.metrics.Inc(MetricElevationSkippedLocal)
			return invalid, nil
		}
		// Unknown storage state reads as not elevated.
		return invalid, nil
	}

	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.config.API.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet,
		c.endpoint("/api/admin/session/validate/"+guildID), nil)
	if err != nil {
		return invalid, err
	}
	req.Header.Set(HeaderElevation, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.dropElevation(ctx, guildID, key, "validate transport failure")
		return invalid, nil
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.Observe(MetricElevationValidateLatency, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.dropElevation(ctx, guildID, key, fmt.Sprintf("validate status %d", resp.StatusCode))
		return invalid, nil
	}

	var verdict elevationVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		c.dropElevation(ctx, guildID, key, "validate decode failure")
		return invalid, nil
	}
	if !verdict.Valid {
		c.dropElevation(ctx, guildID, key, "server reported invalid")
		return invalid, nil
	}

	c.metrics.Inc(MetricElevationValidated)
	return &ElevationState{
		GuildID:    guildID,
		Valid:      true,
		AdminLevel: verdict.AdminLevel,
		ExpiresAt:  time.UnixMilli(verdict.ExpiresAt),
	}, nil
}

// ClearElevation removes the stored admin-session token for the guild.
// Local only: no server call, no effect on the primary session or on other
// guilds' elevations.
func (c *Client) ClearElevation(ctx context.Context, guildID string) error {
	key, err := c.keys.Elevation(guildID)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidGuildID, guildID)
	}

	if err := c.store.Remove(ctx, key); err != nil {
		return err
	}

	c.metrics.Inc(MetricElevationCleared)
	c.emit(ctx, EventElevationCleared, guildID, true, "")
	return nil
}

// HasElevationToken reports local token existence only; it makes no
// validity claim.
func (c *Client) HasElevationToken(ctx context.Context, guildID string) bool {
	return c.storedElevationToken(ctx, guildID) != ""
}

func (c *Client) dropElevation(ctx context.Context, guildID, key, reason string) {
	_ = c.store.Remove(ctx, key)
	c.metrics.Inc(MetricElevationRejected)
	c.emit(ctx, EventElevationRejected, guildID, false, reason)
}
