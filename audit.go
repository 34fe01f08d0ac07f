package dashauth

import (
	"context"
	"time"
)

// Audit event types emitted by the client.
const (
	// EventTokenAcquired is an exported constant or variable used by the session client.
	EventTokenAcquired = "token_acquired"
	// EventLogoutExplicit is an exported constant or variable used by the session client.
	EventLogoutExplicit = "logout_explicit"
	// EventLogoutImplicit is an exported constant or variable used by the session client.
	EventLogoutImplicit = "logout_implicit"
	// EventUserFetched is an exported constant or variable used by the session client.
	EventUserFetched = "user_fetched"
	// EventElevationGenerated is an exported constant or variable used by the session client.
	EventElevationGenerated = "elevation_generated"
	// EventElevationRejected is an exported constant or variable used by the session client.
	EventElevationRejected = "elevation_rejected"
	// EventElevationCleared is an exported constant or variable used by the session client.
	EventElevationCleared = "elevation_cleared"
	// EventStorageDegraded is an exported constant or variable used by the session client.
	EventStorageDegraded = "storage_degraded"
)

func (c *Client) emit(ctx context.Context, eventType, guildID string, success bool, errText string) {
	if c == nil || c.audit == nil {
		return
	}

	var userID string
	c.mu.Lock()
	if c.user != nil {
		userID = c.user.ID
	}
	c.mu.Unlock()

	c.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		GuildID:   guildID,
		Success:   success,
		Error:     errText,
	})
}

// AuditDropped reports events discarded by the dispatcher under
// backpressure.
func (c *Client) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}
