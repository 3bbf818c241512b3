// ABOUTME: Setup state, administrator credentials and bot configuration in system_config
// ABOUTME: Partial configuration updates and dashboard counters

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	keySetupComplete = "setup_complete"
	keyAdminUsername = "admin_username"
	keyAdminPassword = "admin_password_hash"
	keyBotToken      = "bot_token"
	keySupportGroup  = "support_group_id"
	keyLogChannel    = "log_channel_id"
	keyMongoURI      = "mongo_uri"
	keyMongoDBName   = "mongo_db_name"
	keyAdminIDs      = "telegram_admin_ids"
)

// SetupComplete reports whether CompleteSetup has run.
func (s *SQLiteStore) SetupComplete(ctx context.Context) (bool, error) {
	v, err := getValueOr(ctx, s.db, keySetupComplete, "")
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// CompleteSetup stores the administrator and initial bot configuration.
// It returns ErrAlreadySetup if setup has already run.
func (s *SQLiteStore) CompleteSetup(ctx context.Context, admin Admin, cfg BotConfig) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		done, err := getValueOr(ctx, tx, keySetupComplete, "")
		if err != nil {
			return err
		}
		if done == "true" {
			return ErrAlreadySetup
		}

		ids, err := json.Marshal(nonNilIDs(cfg.AdminIDs))
		if err != nil {
			return fmt.Errorf("encoding admin ids: %w", err)
		}
		for _, kv := range [][2]string{
			{keyAdminUsername, admin.Username},
			{keyAdminPassword, admin.PasswordHash},
			{keyBotToken, cfg.BotToken},
			{keySupportGroup, cfg.SupportGroupID},
			{keyLogChannel, cfg.LogChannelID},
			{keyMongoURI, cfg.MongoURI},
			{keyMongoDBName, cfg.MongoDBName},
			{keyAdminIDs, string(ids)},
			{keySetupComplete, "true"},
		} {
			if err := setValue(ctx, tx, kv[0], kv[1]); err != nil {
				return err
			}
		}
		s.logger.Info("setup completed", "admin", admin.Username)
		return nil
	})
}

// GetAdmin returns the administrator, or ErrNotFound before setup.
func (s *SQLiteStore) GetAdmin(ctx context.Context) (*Admin, error) {
	username, err := getValue(ctx, s.db, keyAdminUsername)
	if err != nil {
		return nil, err
	}
	hash, err := getValue(ctx, s.db, keyAdminPassword)
	if err != nil {
		return nil, err
	}
	return &Admin{Username: username, PasswordHash: hash}, nil
}

// AdminUsername returns the administrator's username, or ErrNotFound.
func (s *SQLiteStore) AdminUsername(ctx context.Context) (string, error) {
	return getValue(ctx, s.db, keyAdminUsername)
}

// SetAdminPassword replaces the administrator's password hash.
func (s *SQLiteStore) SetAdminPassword(ctx context.Context, hash string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getValue(ctx, tx, keyAdminUsername); err != nil {
			return err
		}
		return setValue(ctx, tx, keyAdminPassword, hash)
	})
}

// GetBotConfig returns the stored bot configuration. Before setup every
// field is empty.
func (s *SQLiteStore) GetBotConfig(ctx context.Context) (*BotConfig, error) {
	return getBotConfig(ctx, s.db)
}

func getBotConfig(ctx context.Context, q querier) (*BotConfig, error) {
	var cfg BotConfig
	for _, f := range []struct {
		key string
		dst *string
	}{
		{keyBotToken, &cfg.BotToken},
		{keySupportGroup, &cfg.SupportGroupID},
		{keyLogChannel, &cfg.LogChannelID},
		{keyMongoURI, &cfg.MongoURI},
		{keyMongoDBName, &cfg.MongoDBName},
	} {
		v, err := getValueOr(ctx, q, f.key, "")
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	raw, err := getValueOr(ctx, q, keyAdminIDs, "[]")
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &cfg.AdminIDs); err != nil {
		return nil, fmt.Errorf("decoding admin ids: %w", err)
	}
	cfg.AdminIDs = nonNilIDs(cfg.AdminIDs)
	return &cfg, nil
}

// UpdateBotConfig applies a partial update: empty strings leave the stored
// value alone, and a non-nil AdminIDs replaces the whole list.
func (s *SQLiteStore) UpdateBotConfig(ctx context.Context, update BotConfig) (*BotConfig, error) {
	var out *BotConfig
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, kv := range [][2]string{
			{keyBotToken, update.BotToken},
			{keySupportGroup, update.SupportGroupID},
			{keyLogChannel, update.LogChannelID},
			{keyMongoURI, update.MongoURI},
			{keyMongoDBName, update.MongoDBName},
		} {
			if kv[1] == "" {
				continue
			}
			if err := setValue(ctx, tx, kv[0], kv[1]); err != nil {
				return err
			}
		}
		if update.AdminIDs != nil {
			ids, err := json.Marshal(update.AdminIDs)
			if err != nil {
				return fmt.Errorf("encoding admin ids: %w", err)
			}
			if err := setValue(ctx, tx, keyAdminIDs, string(ids)); err != nil {
				return err
			}
		}

		cfg, err := getBotConfig(ctx, tx)
		if err != nil {
			return err
		}
		out = cfg
		return nil
	})
	return out, err
}

// AddCounter adds delta to the named counter.
func (s *SQLiteStore) AddCounter(ctx context.Context, name string, delta int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_config (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = CAST(value AS INTEGER) + ?, updated_at = excluded.updated_at
	`, name, strconv.FormatInt(delta, 10), time.Now().UTC().Format(time.RFC3339), delta)
	if err != nil {
		return fmt.Errorf("adding to %s: %w", name, err)
	}
	return nil
}

// GetStats returns the dashboard counters. ActiveGroups counts active groups.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups WHERE is_active = 1`).Scan(&st.ActiveGroups); err != nil {
		return nil, fmt.Errorf("counting groups: %w", err)
	}
	var err error
	if st.MessagesProcessed, err = getInt(ctx, s.db, CounterMessagesProcessed); err != nil {
		return nil, err
	}
	if st.Bans, err = getInt(ctx, s.db, CounterBans); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
