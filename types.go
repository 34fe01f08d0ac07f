package dashauth

import (
	"io"
	"time"

	internalaudit "github.com/bottrapper/dashauth/internal/audit"
)

// User is the Discord identity returned by the backend's /auth/me endpoint.
// It is cached in memory only and never persisted.
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        string  `json:"avatar"`
	Guilds        []Guild `json:"guilds"`
}

// Guild is a Discord server the user can manage. Read-only: sourced from the
// identity endpoint and never mutated locally.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Permissions int64  `json:"permissions"`
}

// ElevationState is the client-side view of a guild's admin-session token as
// last reported by the server. A present token is not necessarily valid;
// only [Client.ValidateElevation] establishes validity. ExpiresAt is for
// display (countdowns) only and must never gate a privileged action.
type ElevationState struct {
	GuildID    string
	Valid      bool
	AdminLevel int
	ExpiresAt  time.Time
}

// Remaining returns the display countdown until expiry, or zero when the
// state is invalid or already expired.
func (s *ElevationState) Remaining(now time.Time) time.Duration {
	if s == nil || !s.Valid || s.ExpiresAt.IsZero() {
		return 0
	}
	remaining := s.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Redirect is a navigation intent. Session methods never navigate; they
// return a Redirect for the embedding shell to execute. The zero value means
// "stay where you are".
type Redirect struct {
	// URL is the navigation target. Empty means no navigation.
	URL string
	// Replace requests a history-replacing navigation (no back-button entry).
	Replace bool
	// Reload requests a full application reload so every view re-evaluates
	// its state from scratch.
	Reload bool
}

// None reports whether the intent requires no action from the shell.
func (r Redirect) None() bool {
	return r.URL == "" && !r.Reload
}

// TokenSource identifies where [Client.Initialize] found the primary token.
type TokenSource uint8

const (
	// TokenNone is an exported constant or variable used by the session client.
	TokenNone TokenSource = iota
	// TokenFromURL is an exported constant or variable used by the session client.
	TokenFromURL
	// TokenFromStore is an exported constant or variable used by the session client.
	TokenFromStore
)

func (s TokenSource) String() string {
	switch s {
	case TokenFromURL:
		return "url"
	case TokenFromStore:
		return "store"
	default:
		return "none"
	}
}

// InitResult is returned by [Client.Initialize].
type InitResult struct {
	// Source reports where the token came from. A URL-embedded token always
	// wins over a stored one.
	Source TokenSource
	// CleanURL is the callback URL with the token parameter stripped, path
	// and fragment preserved. Non-empty only when Source is [TokenFromURL];
	// the shell must history-replace to it so the token never lingers in the
	// address bar.
	CleanURL string
}

// AuditEvent is a structured session-lifecycle event emitted by the client.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
