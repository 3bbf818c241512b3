// ABOUTME: Typed wrappers for each management API endpoint
// ABOUTME: Decodes and validates every response into explicit result types

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Status calls GET /api/status.
func (c *Client) Status(ctx context.Context) (*SetupStatus, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/status"})
	if err != nil {
		return nil, err
	}

	var raw struct {
		SetupComplete *bool `json:"setup_complete"`
	}
	if err := resp.decode("status", &raw); err != nil {
		return nil, err
	}
	if raw.SetupComplete == nil {
		return nil, missingField("status", "setup_complete")
	}
	return &SetupStatus{SetupComplete: *raw.SetupComplete}, nil
}

// Setup calls POST /api/setup.
func (c *Client) Setup(ctx context.Context, req SetupRequest) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/setup", JSON: req})
	return err
}

// Login calls POST /api/login with form-encoded credentials and returns the access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/login", Form: form})
	if err != nil {
		return "", err
	}

	var raw struct {
		AccessToken *string `json:"access_token"`
	}
	if err := resp.decode("login", &raw); err != nil {
		return "", err
	}
	if raw.AccessToken == nil || *raw.AccessToken == "" {
		return "", missingField("login", "access_token")
	}
	return *raw.AccessToken, nil
}

// ResetPassword calls POST /api/reset-password and returns the admin username.
// The new password is never sent to the client.
func (c *Client) ResetPassword(ctx context.Context) (string, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/reset-password"})
	if err != nil {
		return "", err
	}

	var raw struct {
		Username *string `json:"username"`
	}
	if err := resp.decode("reset-password", &raw); err != nil {
		return "", err
	}
	if raw.Username == nil {
		return "", missingField("reset-password", "username")
	}
	return *raw.Username, nil
}

// DashboardStats calls GET /api/dashboard/stats.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/dashboard/stats"})
	if err != nil {
		return nil, err
	}

	var raw struct {
		ActiveGroups      *int64 `json:"active_groups"`
		MessagesProcessed *int64 `json:"messages_processed"`
		Bans              *int64 `json:"bans"`
	}
	if err := resp.decode("dashboard-stats", &raw); err != nil {
		return nil, err
	}
	switch {
	case raw.ActiveGroups == nil:
		return nil, missingField("dashboard-stats", "active_groups")
	case raw.MessagesProcessed == nil:
		return nil, missingField("dashboard-stats", "messages_processed")
	case raw.Bans == nil:
		return nil, missingField("dashboard-stats", "bans")
	}
	return &DashboardStats{
		ActiveGroups:      *raw.ActiveGroups,
		MessagesProcessed: *raw.MessagesProcessed,
		Bans:              *raw.Bans,
	}, nil
}

// ListGroups calls GET /api/dashboard/groups. Group ids are required and unique.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/dashboard/groups"})
	if err != nil {
		return nil, err
	}

	var raw []struct {
		ID       *string        `json:"id"`
		Title    *string        `json:"title"`
		Settings *GroupSettings `json:"settings"`
	}
	if err := resp.decode("groups", &raw); err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		if r.ID == nil || *r.ID == "" {
			return nil, missingField("groups", fmt.Sprintf("[%d].id", i))
		}
		if _, dup := seen[*r.ID]; dup {
			return nil, &DecodeError{Endpoint: "groups", Err: fmt.Errorf("duplicate group id %q", *r.ID)}
		}
		seen[*r.ID] = struct{}{}

		g := Group{ID: *r.ID}
		if r.Title != nil {
			g.Title = *r.Title
		}
		if r.Settings != nil {
			g.Settings = *r.Settings
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// ToggleGroup calls POST /api/dashboard/groups/{id}/toggle and returns the new state.
func (c *Client) ToggleGroup(ctx context.Context, id string) (*ToggleResult, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/dashboard/groups/" + url.PathEscape(id) + "/toggle",
	})
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status   string `json:"status"`
		NewState *bool  `json:"new_state"`
	}
	if err := resp.decode("toggle", &raw); err != nil {
		return nil, err
	}
	if raw.Status != "success" {
		return nil, &DecodeError{Endpoint: "toggle", Err: fmt.Errorf("unexpected status %q", raw.Status)}
	}
	if raw.NewState == nil {
		return nil, missingField("toggle", "new_state")
	}
	return &ToggleResult{NewState: *raw.NewState}, nil
}

// DeleteGroup calls DELETE /api/dashboard/groups/{id}.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/api/dashboard/groups/" + url.PathEscape(id),
	})
	return err
}

// GetConfig calls GET /api/config/get. bot_token, mongo_uri and
// telegram_admin_ids must be present, though each may be null. Duplicate
// admin ids are collapsed, keeping the first occurrence.
func (c *Client) GetConfig(ctx context.Context) (*Configuration, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/config/get"})
	if err != nil {
		return nil, err
	}

	var raw struct {
		BotToken         json.RawMessage `json:"bot_token"`
		SupportGroupID   ChatID          `json:"support_group_id"`
		LogChannelID     ChatID          `json:"log_channel_id"`
		MongoURI         json.RawMessage `json:"mongo_uri"`
		MongoDBName      *string         `json:"mongo_db_name"`
		TelegramAdminIDs json.RawMessage `json:"telegram_admin_ids"`
	}
	if err := resp.decode("config", &raw); err != nil {
		return nil, err
	}

	cfg := Configuration{
		SupportGroupID: raw.SupportGroupID,
		LogChannelID:   raw.LogChannelID,
	}
	if raw.MongoDBName != nil {
		cfg.MongoDBName = *raw.MongoDBName
	}
	var adminIDs []int64
	for _, f := range []struct {
		name string
		data json.RawMessage
		dst  any
	}{
		{"bot_token", raw.BotToken, &cfg.BotToken},
		{"mongo_uri", raw.MongoURI, &cfg.MongoURI},
		{"telegram_admin_ids", raw.TelegramAdminIDs, &adminIDs},
	} {
		if len(f.data) == 0 {
			return nil, missingField("config", f.name)
		}
		if err := json.Unmarshal(f.data, f.dst); err != nil {
			return nil, &DecodeError{Endpoint: "config", Err: fmt.Errorf("%s: %w", f.name, err)}
		}
	}

	ids := make([]int64, 0, len(adminIDs))
	seen := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if _, dup := seen[id]; dup {
			c.logger.Debug("dropping duplicate admin id from server", "id", id)
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	cfg.TelegramAdminIDs = ids
	return &cfg, nil
}

// UpdateConfig calls POST /api/config/update with the whole configuration.
func (c *Client) UpdateConfig(ctx context.Context, cfg Configuration) error {
	if cfg.TelegramAdminIDs == nil {
		cfg.TelegramAdminIDs = []int64{}
	}
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/config/update", JSON: cfg})
	return err
}

var errMissing = errors.New("missing field")

func missingField(endpoint, field string) error {
	return &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("%w: %s", errMissing, field)}
}
