package dashauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/bottrapper/dashauth/tokenstore"
)

const tokenQueryParam = "token"

// Client owns the primary session and guild elevations for one running
// dashboard instance. Construct it through [Builder.Build] and inject it;
// the session state machine is Unauthenticated → Authenticated →
// Unauthenticated, with no other transitions.
type Client struct {
	config  Config
	base    *url.URL
	keys    tokenstore.Keys
	store   tokenstore.Store
	metrics *Metrics
	audit   *auditDispatcher

	httpClient *http.Client

	mu       sync.Mutex
	token    string
	tokenGen uint64
	user     *User
}

// Close stops the audit dispatcher. The client must not be used afterwards.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// HTTPClient returns the pipeline-wrapped HTTP client. Every call made
// through it carries the primary bearer and, on guild-scoped URLs, the
// stored admin-session token.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Config returns a copy of the active configuration.
func (c *Client) Config() Config {
	return cloneConfig(c.config)
}

// Initialize establishes the session at application start. rawURL is the
// current navigation URL: a token query parameter delivered by the OAuth
// callback always wins and overwrites any stored token; otherwise the
// persisted token, if any, is loaded. The returned CleanURL (callback case
// only) has the token parameter stripped with path and fragment preserved,
// ready for a history-replace so the credential never lingers in the
// address bar.
func (c *Client) Initialize(ctx context.Context, rawURL string) (InitResult, error) {
	if rawURL != "" {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return InitResult{}, fmt.Errorf("%w: %v", ErrInvalidCallbackURL, err)
		}

		query := parsed.Query()
		if token := query.Get(tokenQueryParam); token != "" {
			query.Del(tokenQueryParam)
			parsed.RawQuery = query.Encode()

			c.setToken(token)
			if err := c.store.Set(ctx, c.keys.Primary(), token); err != nil {
				// Persisting is best-effort: the in-memory session is
				// already authenticated, it just will not survive a reload.
				c.emit(ctx, EventStorageDegraded, "", false, err.Error())
			}

			c.metrics.Inc(MetricTokenFromCallback)
			c.emit(ctx, EventTokenAcquired, "", true, "")

			return InitResult{
				Source:   TokenFromURL,
				CleanURL: relativeURL(parsed),
			}, nil
		}
	}

	stored, err := c.store.Get(ctx, c.keys.Primary())
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return InitResult{Source: TokenNone}, nil
		}
		return InitResult{Source: TokenNone}, err
	}
	if stored == "" {
		return InitResult{Source: TokenNone}, nil
	}

	c.setToken(stored)
	c.metrics.Inc(MetricTokenFromStore)
	return InitResult{Source: TokenFromStore}, nil
}

// Login returns the navigation intent for the identity provider's
// authorization endpoint.
func (c *Client) Login() Redirect {
	c.metrics.Inc(MetricLoginRedirect)
	return Redirect{URL: c.endpoint("/auth/discord")}
}

// Logout tears the session down. Explicit (user-initiated) logout
// additionally navigates to the backend logout endpoint so server-side
// state is terminated; implicit logout only replaces navigation to the
// login view, and not even that when the current view already is the login
// view, which would otherwise loop. Idempotent either way.
func (c *Client) Logout(ctx context.Context, explicit bool, currentPath string) Redirect {
	if explicit {
		c.clearSession(ctx)
		c.metrics.Inc(MetricLogoutExplicit)
		c.emit(ctx, EventLogoutExplicit, "", true, "")
		return Redirect{URL: c.endpoint("/auth/logout")}
	}

	c.invalidate(ctx)
	if strings.HasPrefix(currentPath, c.config.Routes.LoginPath) {
		return Redirect{}
	}
	return Redirect{URL: c.config.Routes.LoginPath, Replace: true}
}

// IsAuthenticated reports whether a primary token is currently held. Local
// state only: it does not imply the token is still valid server-side.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// Token returns the primary bearer token, or "" when unauthenticated.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// User returns the last cached identity without a network call. Never
// non-nil while the token is absent.
func (c *Client) User() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// CurrentUser fetches the identity from /auth/me with the current token.
// A 401 clears the session (same path as implicit logout) and returns
// [ErrUnauthorized]. Transient failures (network, 5xx) preserve the token
// and return an [ErrTransport]-wrapped error: a flaky backend must never
// read as a revoked session. The cached user is updated last-write-wins:
// a fetch that raced a token change is discarded.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	c.mu.Lock()
	token := c.token
	gen := c.tokenGen
	c.mu.Unlock()

	if token == "" {
		return nil, ErrNoToken
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.API.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/auth/me"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Inc(MetricUserFetchTransient)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The pipeline has already torn the session down.
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.metrics.Inc(MetricUserFetchTransient)
		return nil, fmt.Errorf("%w: %d", ErrBackendStatus, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.metrics.Inc(MetricUserFetchTransient)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	c.mu.Lock()
	// Cache only when the token that authorized this fetch is still the
	// active one. A stale in-flight fetch must not repopulate a session
	// that was cleared or re-keyed in the meantime.
	if c.tokenGen == gen && c.token != "" {
		c.user = &user
	}
	c.mu.Unlock()

	c.metrics.Inc(MetricUserFetchSuccess)
	c.emit(ctx, EventUserFetched, "", true, "")
	return &user, nil
}

// setToken installs a new primary token, bumping the generation so stale
// identity fetches lose the race.
func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.tokenGen++
	c.user = nil
	c.mu.Unlock()
}

// invalidate is the implicit-logout path, shared by the request pipeline's
// 401 interception and Logout. It is idempotent: under concurrent 401s
// exactly one caller observes the cleared transition.
func (c *Client) invalidate(ctx context.Context) bool {
	if !c.clearSession(ctx) {
		return false
	}
	c.metrics.Inc(MetricLogoutImplicit)
	c.emit(ctx, EventLogoutImplicit, "", true, "")
	return true
}

func (c *Client) clearSession(ctx context.Context) bool {
	c.mu.Lock()
	cleared := c.token != "" || c.user != nil
	c.token = ""
	c.tokenGen++
	c.user = nil
	c.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	// Best-effort: a broken store must not block teardown.
	_ = c.store.Remove(ctx, c.keys.Primary())

	return cleared
}

func (c *Client) endpoint(path string) string {
	ref := &url.URL{Path: path}
	return c.base.ResolveReference(ref).String()
}

// relativeURL renders path?query#fragment for a history-replace.
func relativeURL(u *url.URL) string {
	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}
