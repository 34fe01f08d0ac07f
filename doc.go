// Package dashauth implements the session and authorization client of the
// BotTrapper dashboard: primary bearer-token lifecycle, guild-scoped
// admin-session elevation, a single outbound request pipeline, and route
// guarding.
//
// The package is designed for event-driven UI shells: a [Client] is built
// once through [Builder.Build], injected where needed, and is safe to call
// from multiple goroutines.
//
// # Architecture boundaries
//
// dashauth is the public surface. It exposes [Client], [Builder], [Config],
// [Guard], [Banner], and value types (User, ElevationState, Redirect). Token
// persistence lives in the tokenstore subpackage; typed backend endpoints in
// the api subpackage; audit dispatch under internal/.
//
// # What this package must NOT do
//
//   - Perform navigation. Session methods return [Redirect] intents; the
//     embedding shell executes them.
//   - Trust a cached expiry for privileged decisions. Elevation validity is
//     only ever established by [Client.ValidateElevation].
//   - Conflate transport failures with rejected credentials. Only an HTTP
//     401 tears down the primary session.
package dashauth
