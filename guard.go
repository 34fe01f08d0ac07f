package dashauth

import "strings"

// Verdict is the route guard's decision for one navigation attempt.
type Verdict struct {
	// Allowed reports whether the requested path may render.
	Allowed bool
	// Redirect is the navigation intent when Allowed is false, or when an
	// allowed path still wants a better destination (authenticated users
	// landing on the root).
	Redirect Redirect
}

// Guard decides whether a path may render for the current authentication
// state. It is a pure decision function over (path, authenticated): it
// performs no I/O, mutates nothing, and never triggers navigation itself.
// Callers apply the returned intent.
type Guard struct {
	loginPath       string
	guildSelectPath string
	publicPrefixes  []string
}

// NewGuard builds a Guard from the client's route configuration.
func (c *Client) NewGuard() *Guard {
	prefixes := make([]string, len(c.config.Routes.PublicPrefixes))
	copy(prefixes, c.config.Routes.PublicPrefixes)
	return &Guard{
		loginPath:       c.config.Routes.LoginPath,
		guildSelectPath: c.config.Routes.GuildSelectPath,
		publicPrefixes:  prefixes,
	}
}

// CanEnter reports whether path may render given the authentication state.
// Public paths always may; everything else requires authentication. The
// root path is not a content route and is never enterable: Resolve always
// forwards it to the login view or guild selection.
func (g *Guard) CanEnter(path string, authenticated bool) bool {
	if g.isPublic(path) {
		return true
	}
	return authenticated
}

// Resolve returns the full verdict for a navigation attempt.
//
// An unauthenticated visit to the root or a protected path is denied with
// a replacing redirect to the login view. An authenticated visit to the
// root or the login view is allowed but redirected on to guild selection,
// so a logged-in user never sits on a login form. All other combinations
// render in place.
func (g *Guard) Resolve(path string, authenticated bool) Verdict {
	if !g.CanEnter(path, authenticated) {
		return Verdict{
			Allowed:  false,
			Redirect: Redirect{URL: g.loginPath, Replace: true},
		}
	}

	if authenticated && (path == "/" || path == g.loginPath) {
		return Verdict{
			Allowed:  true,
			Redirect: Redirect{URL: g.guildSelectPath, Replace: true},
		}
	}

	return Verdict{Allowed: true}
}

func (g *Guard) isPublic(path string) bool {
	for _, prefix := range g.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
