// Package tokenstore provides durable key/value persistence for the primary
// bearer token and per-guild admin-session tokens used by the dashboard
// session client.
//
// # Design
//
// A [Store] is a plain last-write-wins key/value surface with no TTL
// semantics of its own; expiry is always applied by the caller. Keys are
// never built by hand: [Keys] owns the key layout (one fixed key for the
// primary token, one `admin-session-<guildID>` key per guild) and rejects
// guild ids that could collide or escape the scheme.
//
// Implementations: [Memory] (process-local), [File] (JSON file surviving
// restarts), [Redis] (shared across instances), and [Fallback], which
// degrades from a durable store to an in-memory overlay when the backing
// storage becomes unavailable.
//
// # Architecture boundaries
//
// This package owns token persistence only. It does NOT decide token
// validity, perform HTTP calls, or interpret token contents.
//
// # What this package must NOT do
//
//   - Import the root dashauth package (no import cycles).
//   - Apply expiry or validity semantics to stored values.
//   - Log token values.
package tokenstore
