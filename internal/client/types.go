// ABOUTME: Decoded request and response types for the management API
// ABOUTME: Groups, configuration, dashboard stats and setup payloads

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ChatID is a Telegram chat identifier. The server may send it as a JSON
// string, a number or null; it is always held and sent as a string.
type ChatID string

// UnmarshalJSON accepts strings, numbers and null.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ChatID(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("chat id must be a string or number, got %s", data)
	}
	*c = ChatID(n.String())
	return nil
}

// Group is one moderated chat.
type Group struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Settings GroupSettings `json:"settings"`
}

// Clone returns a deep copy of g.
func (g Group) Clone() Group {
	g.Settings.Extra = maps.Clone(g.Settings.Extra)
	return g
}

// GroupSettings holds the known settings fields plus whatever else the server sent.
type GroupSettings struct {
	ChatID   ChatID `json:"chat_id"`
	IsActive bool   `json:"is_active"`
	// Extra keeps unrecognised settings so they round-trip untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (s *GroupSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out GroupSettings
	if v, ok := raw["chat_id"]; ok {
		if err := json.Unmarshal(v, &out.ChatID); err != nil {
			return fmt.Errorf("chat_id: %w", err)
		}
		delete(raw, "chat_id")
	}
	if v, ok := raw["is_active"]; ok {
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			if err := json.Unmarshal(v, &out.IsActive); err != nil {
				return fmt.Errorf("is_active: %w", err)
			}
		}
		delete(raw, "is_active")
	}
	if len(raw) > 0 {
		out.Extra = raw
	}
	*s = out
	return nil
}

// MarshalJSON writes the known fields merged with Extra.
func (s GroupSettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+2)
	for k, v := range s.Extra {
		out[k] = v
	}
	out["chat_id"] = string(s.ChatID)
	out["is_active"] = s.IsActive
	return json.Marshal(out)
}

// Configuration is the bot's deployment configuration.
type Configuration struct {
	BotToken         string  `json:"bot_token"`
	SupportGroupID   ChatID  `json:"support_group_id"`
	LogChannelID     ChatID  `json:"log_channel_id"`
	MongoURI         string  `json:"mongo_uri"`
	MongoDBName      string  `json:"mongo_db_name,omitempty"`
	TelegramAdminIDs []int64 `json:"telegram_admin_ids"`
}

// Clone returns a deep copy of c.
func (c Configuration) Clone() Configuration {
	c.TelegramAdminIDs = slices.Clone(c.TelegramAdminIDs)
	if c.TelegramAdminIDs == nil {
		c.TelegramAdminIDs = []int64{}
	}
	return c
}

// DashboardStats is the read-only dashboard summary.
type DashboardStats struct {
	ActiveGroups      int64 `json:"active_groups"`
	MessagesProcessed int64 `json:"messages_processed"`
	Bans              int64 `json:"bans"`
}

// SetupStatus reports whether initial setup has been done.
type SetupStatus struct {
	SetupComplete bool `json:"setup_complete"`
}

// SetupRequest is the initial setup payload. The password is sent in clear
// under the admin_password_hash key; the server hashes it.
type SetupRequest struct {
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password_hash"`
	MongoURI      string `json:"mongo_uri"`
	BotToken      string `json:"bot_token"`
}

// ToggleResult is the server's answer to a toggle.
type ToggleResult struct {
	NewState bool
}
