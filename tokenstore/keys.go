package tokenstore

import (
	"errors"
	"strings"
)

// ErrInvalidGuildID is returned when a guild id cannot be safely
// interpolated into a storage key.
var ErrInvalidGuildID = errors.New("invalid guild id")

const (
	defaultPrimaryKey      = "discord_token"
	defaultElevationPrefix = "admin-session-"

	// Discord snowflakes are 64-bit decimals; 20 digits is the ceiling.
	maxGuildIDLen = 20
)

// Keys builds storage keys for the primary token and per-guild elevation
// tokens. A single definition of the key layout prevents silent collisions
// if a guild id ever carries unexpected characters.
type Keys struct {
	primary         string
	elevationPrefix string
}

// NewKeys creates a [Keys] with the given primary key and elevation key
// prefix. Empty arguments select the defaults used by the dashboard
// (`discord_token` and `admin-session-`).
func NewKeys(primary, elevationPrefix string) Keys {
	if primary == "" {
		primary = defaultPrimaryKey
	}
	if elevationPrefix == "" {
		elevationPrefix = defaultElevationPrefix
	}
	return Keys{primary: primary, elevationPrefix: elevationPrefix}
}

// Primary returns the fixed key holding the primary bearer token.
func (k Keys) Primary() string {
	return k.primary
}

// Elevation returns the storage key for a guild's admin-session token.
// The guild id must be a non-empty string of ASCII digits.
func (k Keys) Elevation(guildID string) (string, error) {
	if !ValidGuildID(guildID) {
		return "", ErrInvalidGuildID
	}
	return k.elevationPrefix + guildID, nil
}

// GuildFromKey reports the guild id encoded in an elevation key, if any.
func (k Keys) GuildFromKey(key string) (string, bool) {
	guildID, ok := strings.CutPrefix(key, k.elevationPrefix)
	if !ok || !ValidGuildID(guildID) {
		return "", false
	}
	return guildID, true
}

// ValidGuildID reports whether id is a plausible Discord guild snowflake:
// 1–20 ASCII digits, nothing else.
func ValidGuildID(id string) bool {
	if len(id) == 0 || len(id) > maxGuildIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
