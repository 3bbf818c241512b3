// ABOUTME: Settings controller owning the editable configuration draft
// ABOUTME: Field and admin-id edits stay local until Save posts the whole draft

package resource

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/notify"
)

// SettingsAPI is the subset of the API client the settings controller uses.
type SettingsAPI interface {
	GetConfig(ctx context.Context) (*client.Configuration, error)
	UpdateConfig(ctx context.Context, cfg client.Configuration) error
}

// SettingsFields lists the names SetField accepts.
var SettingsFields = []string{"bot_token", "support_group_id", "log_channel_id", "mongo_uri", "mongo_db_name"}

// SettingsSnapshot is a copy of the controller's state.
type SettingsSnapshot struct {
	State  State
	Loaded bool
	Draft  client.Configuration
	// Dirty is true when the draft holds edits that have not been saved.
	Dirty bool
	Err   error
}

// Settings owns the configuration draft.
type Settings struct {
	api      SettingsAPI
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	seq    sequencer
	state  State
	loaded bool
	draft  client.Configuration
	edits  uint64
	saved  uint64
	err    error
}

// NewSettings creates a settings controller.
func NewSettings(api SettingsAPI, notifier notify.Notifier) *Settings {
	return &Settings{
		api:      api,
		notifier: notifier,
		logger:   slog.Default().With("component", "resource.settings"),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Settings) Snapshot() SettingsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SettingsSnapshot{
		State:  s.state,
		Loaded: s.loaded,
		Draft:  s.draft.Clone(),
		Dirty:  s.edits != s.saved,
		Err:    s.err,
	}
}

// Load fetches the configuration and replaces the draft, discarding unsaved edits.
func (s *Settings) Load(ctx context.Context) error {
	s.mu.Lock()
	seq := s.seq.issue(keySettings)
	s.state = StateLoading
	s.mu.Unlock()

	cfg, err := s.api.GetConfig(ctx)

	s.mu.Lock()
	if !s.seq.latest(keySettings, seq) {
		s.mu.Unlock()
		s.logger.Debug("discarding stale configuration", "seq", seq)
		return ErrStale
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.mu.Unlock()
		s.notifier.Error(client.UserMessage(err, MsgSettingsLoadFail))
		return fmt.Errorf("loading settings: %w", err)
	}
	s.draft = cfg.Clone()
	s.state = StateReady
	s.loaded = true
	s.err = nil
	s.saved = s.edits
	s.seq.apply(keySettings)
	s.mu.Unlock()
	return nil
}

// SetField sets one scalar field of the draft. Values are taken as typed,
// except chat ids, which must be integers and are kept in canonical form.
func (s *Settings) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return s.rejectLocked(invalid("", MsgSettingsNotLoaded))
	}

	switch name {
	case "bot_token":
		s.draft.BotToken = value
	case "support_group_id", "log_channel_id":
		id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return s.rejectLocked(invalid(name, MsgInvalidChatID))
		}
		chat := client.ChatID(strconv.FormatInt(id, 10))
		if name == "support_group_id" {
			s.draft.SupportGroupID = chat
		} else {
			s.draft.LogChannelID = chat
		}
	case "mongo_uri":
		s.draft.MongoURI = value
	case "mongo_db_name":
		s.draft.MongoDBName = value
	default:
		return s.rejectLocked(invalid(name, "unknown setting, expected one of "+strings.Join(SettingsFields, ", ")))
	}
	s.edits++
	return nil
}

// AddAdminID parses input as an integer and appends it to the draft's admin
// list. Non-numeric and duplicate ids are rejected without touching the draft.
func (s *Settings) AddAdminID(input string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return 0, s.rejectLocked(invalid("", MsgSettingsNotLoaded))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, s.rejectLocked(invalid("telegram_admin_ids", MsgInvalidAdminID))
	}
	if slices.Contains(s.draft.TelegramAdminIDs, id) {
		return 0, s.rejectLocked(invalid("telegram_admin_ids", MsgDuplicateAdminID))
	}
	s.draft.TelegramAdminIDs = append(s.draft.TelegramAdminIDs, id)
	s.edits++
	return id, nil
}

// RemoveAdminID drops id from the draft's admin list. It reports whether the
// id was present.
func (s *Settings) RemoveAdminID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.draft.TelegramAdminIDs)
	s.draft.TelegramAdminIDs = slices.DeleteFunc(s.draft.TelegramAdminIDs, func(v int64) bool { return v == id })
	if len(s.draft.TelegramAdminIDs) == before {
		return false
	}
	s.edits++
	return true
}

// Save posts the whole draft. On failure the draft is kept so the save can
// be retried.
func (s *Settings) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		err := s.rejectLocked(invalid("", MsgSettingsNotLoaded))
		s.mu.Unlock()
		return err
	}
	seq := s.seq.issue(keySettings)
	draft := s.draft.Clone()
	edits := s.edits
	s.mu.Unlock()

	err := s.api.UpdateConfig(ctx, draft)

	s.mu.Lock()
	if !s.seq.latest(keySettings, seq) {
		s.mu.Unlock()
		s.logger.Debug("discarding stale save", "seq", seq)
		return ErrStale
	}
	if err != nil {
		s.mu.Unlock()
		s.notifier.Error(client.UserMessage(err, MsgSettingsSaveFail))
		return fmt.Errorf("saving settings: %w", err)
	}
	// Edits made while the save was in flight stay dirty.
	s.saved = edits
	s.seq.apply(keySettings)
	s.mu.Unlock()

	s.notifier.Success(MsgSettingsSaved)
	return nil
}

// rejectLocked notifies a validation failure. Callers hold s.mu.
func (s *Settings) rejectLocked(err *ValidationError) error {
	s.notifier.Error(err.Message)
	return err
}
