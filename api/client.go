package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	dashauth "github.com/bottrapper/dashauth"
)

// Service calls the dashboard backend through the session client's request
// pipeline.
type Service struct {
	auth *dashauth.Client
	base *url.URL

	requestTimeout      time.Duration
	autocompleteTimeout time.Duration
}

// NewService creates a Service bound to the given session client.
func NewService(auth *dashauth.Client) (*Service, error) {
	if auth == nil {
		return nil, dashauth.ErrClientNotReady
	}

	cfg := auth.Config()
	base, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Service{
		auth:                auth,
		base:                base,
		requestTimeout:      cfg.API.RequestTimeout,
		autocompleteTimeout: cfg.API.AutocompleteTimeout,
	}, nil
}

// GuildStats fetches the dashboard overview numbers for a guild.
func (s *Service) GuildStats(ctx context.Context, guildID string) (*GuildStats, error) {
	var stats GuildStats
	if err := s.do(ctx, http.MethodGet, "/api/dashboard/"+guildID+"/stats", nil, &stats, s.requestTimeout); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Permissions lists the dashboard access grants for a guild.
func (s *Service) Permissions(ctx context.Context, guildID string) ([]Permission, error) {
	var perms []Permission
	if err := s.do(ctx, http.MethodGet, "/api/permissions/"+guildID, nil, &perms, s.requestTimeout); err != nil {
		return nil, err
	}
	return perms, nil
}

// AddPermission grants dashboard access to a user or role.
func (s *Service) AddPermission(ctx context.Context, guildID string, req AddPermissionRequest) (int, error) {
	var out struct {
		ID      int  `json:"id"`
		Success bool `json:"success"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/permissions/"+guildID, req, &out, s.requestTimeout); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// RemovePermission revokes a dashboard access grant.
func (s *Service) RemovePermission(ctx context.Context, guildID string, permissionID int) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/api/permissions/%s/%d", guildID, permissionID), nil, nil, s.requestTimeout)
}

// AutoResponses lists the configured trigger responses for a guild.
func (s *Service) AutoResponses(ctx context.Context, guildID string) ([]AutoResponse, error) {
	var responses []AutoResponse
	if err := s.do(ctx, http.MethodGet, "/api/autoresponses/"+guildID, nil, &responses, s.requestTimeout); err != nil {
		return nil, err
	}
	return responses, nil
}

// CreateAutoResponse adds a trigger response.
func (s *Service) CreateAutoResponse(ctx context.Context, guildID string, response AutoResponse) error {
	response.GuildID = guildID
	return s.do(ctx, http.MethodPost, "/api/autoresponses", response, nil, s.requestTimeout)
}

// DeleteAutoResponse removes a trigger response by trigger word.
func (s *Service) DeleteAutoResponse(ctx context.Context, guildID, trigger string) error {
	return s.do(ctx, http.MethodDelete, "/api/autoresponses/"+guildID+"/"+url.PathEscape(trigger), nil, nil, s.requestTimeout)
}

// TicketCategories lists a guild's ticket categories. includeInactive also
// returns disabled categories.
func (s *Service) TicketCategories(ctx context.Context, guildID string, includeInactive bool) ([]TicketCategory, error) {
	path := "/api/ticket-categories/" + guildID
	if includeInactive {
		path += "?includeInactive=true"
	}
	var categories []TicketCategory
	if err := s.do(ctx, http.MethodGet, path, nil, &categories, s.requestTimeout); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateTicketCategory adds a ticket category.
func (s *Service) CreateTicketCategory(ctx context.Context, guildID string, category TicketCategory) error {
	return s.do(ctx, http.MethodPost, "/api/ticket-categories/"+guildID, category, nil, s.requestTimeout)
}

// UpdateTicketCategory replaces an existing category's fields.
func (s *Service) UpdateTicketCategory(ctx context.Context, guildID string, categoryID int, category TicketCategory) error {
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/api/ticket-categories/%s/%d", guildID, categoryID), category, nil, s.requestTimeout)
}

// DeleteTicketCategory removes a ticket category.
func (s *Service) DeleteTicketCategory(ctx context.Context, guildID string, categoryID int) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/api/ticket-categories/%s/%d", guildID, categoryID), nil, nil, s.requestTimeout)
}

// GuildRoles lists a guild's roles for autocomplete. Uses the shorter
// autocomplete timeout.
func (s *Service) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	var roles []Role
	if err := s.do(ctx, http.MethodGet, "/api/discord/"+guildID+"/roles", nil, &roles, s.autocompleteTimeout); err != nil {
		return nil, err
	}
	return roles, nil
}

// GuildMembers searches a guild's members for autocomplete. Uses the
// shorter autocomplete timeout.
func (s *Service) GuildMembers(ctx context.Context, guildID, search string) ([]Member, error) {
	path := "/api/discord/" + guildID + "/members"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var members []Member
	if err := s.do(ctx, http.MethodGet, path, nil, &members, s.autocompleteTimeout); err != nil {
		return nil, err
	}
	return members, nil
}

// Features lists a guild's feature flags.
func (s *Service) Features(ctx context.Context, guildID string) ([]Feature, error) {
	var features []Feature
	if err := s.do(ctx, http.MethodGet, "/api/guilds/"+guildID+"/features", nil, &features, s.requestTimeout); err != nil {
		return nil, err
	}
	return features, nil
}

// SetFeature writes a single feature flag. Most callers should use
// [Toggles] instead, which tracks in-flight state per toggle.
func (s *Service) SetFeature(ctx context.Context, guildID, name string, enabled bool) error {
	body := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}
	return s.do(ctx, http.MethodPut, "/api/guilds/"+guildID+"/features/"+url.PathEscape(name), body, nil, s.requestTimeout)
}

// do runs one request through the pipeline and maps the outcome onto the
// shared sentinels. out may be nil when the response body is irrelevant.
func (s *Service) do(ctx context.Context, method, path string, in, out any, timeout time.Duration) error {
	if !s.auth.IsAuthenticated() {
		return dashauth.ErrNoToken
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base.ResolveReference(ref).String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.auth.HTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", dashauth.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The pipeline has already torn the session down.
		return dashauth.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %d", dashauth.ErrBackendStatus, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", dashauth.ErrTransport, err)
	}
	return nil
}
