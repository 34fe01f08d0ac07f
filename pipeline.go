package dashauth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bottrapper/dashauth/tokenstore"
	"github.com/google/uuid"
)

// Headers produced by the request pipeline.
const (
	// HeaderElevation carries the guild-scoped admin-session token.
	HeaderElevation = "x-admin-session"
	// HeaderRequestID correlates a request across client and backend logs.
	HeaderRequestID = "X-Request-ID"
)

// Transport is the single chokepoint every outbound API call routes
// through. It attaches the primary bearer token, attaches the stored
// admin-session token on guild-scoped URLs only, tags the request with an
// id, and intercepts 401 responses to tear the primary session down
// exactly once.
//
// Transport never retries and never swallows responses: a 401 still
// propagates to the caller after teardown, and every other status and
// transport error (including context deadlines, which are not auth
// failures) passes through untouched.
type Transport struct {
	base   http.RoundTripper
	client *Client
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if token := t.client.Token(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if ua := t.client.config.API.UserAgent; ua != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", ua)
	}

	if guildID, ok := guildIDFromPath(out.URL.Path); ok {
		if elevation := t.client.storedElevationToken(req.Context(), guildID); elevation != "" {
			out.Header.Set(HeaderElevation, elevation)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.client.metrics.Inc(MetricUnauthorizedResponse)
		t.client.invalidate(req.Context())
	}

	return resp, nil
}

// guildIDFromPath extracts the guild id from an API path: the first path
// segment that looks like a Discord snowflake. Mirrors the dashboard's
// historical extraction so header behavior stays identical.
func guildIDFromPath(path string) (string, bool) {
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if tokenstore.ValidGuildID(seg) {
			return seg, true
		}
	}
	return "", false
}

// storedElevationToken is a local-only read; it makes no validity claim.
func (c *Client) storedElevationToken(ctx context.Context, guildID string) string {
	key, err := c.keys.Elevation(guildID)
	if err != nil {
		return ""
	}
	token, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			c.emit(ctx, EventStorageDegraded, guildID, false, err.Error())
		}
		return ""
	}
	return token
}
