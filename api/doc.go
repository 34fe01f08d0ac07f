// Package api is the typed surface of the dashboard backend.
//
// Every call goes through the session client's pipeline-wrapped HTTP
// client, so requests automatically carry the primary bearer token, a
// request id, and on guild-scoped paths the stored admin-session token.
// 401 handling also lives in the pipeline; this package only maps
// statuses onto the shared sentinel errors.
//
// # Design
//
// Methods take a context and return typed results with explicit errors.
// Role and member autocomplete use a shorter client-side timeout than the
// rest of the surface because they sit behind keystrokes; a timeout there
// is an [dashauth.ErrTransport], never a logout.
//
// # What this package must NOT do
//
//   - Attach or refresh tokens itself; the pipeline owns headers.
//   - Interpret 401 responses beyond reporting [dashauth.ErrUnauthorized].
//   - Cache responses.
package api
