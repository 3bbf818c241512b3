// ABOUTME: Group persistence for the fake management API
// ABOUTME: Create, list, toggle and delete moderated chats

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CreateGroup inserts a group. It returns ErrDuplicateGroup if the id exists.
func (s *SQLiteStore) CreateGroup(ctx context.Context, g *Group) error {
	extra := g.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	settings, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO groups (id, title, chat_id, is_active, settings_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, g.Title, g.ChatID, g.IsActive, string(settings), g.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateGroup
		}
		return fmt.Errorf("inserting group: %w", err)
	}

	s.logger.Debug("created group", "id", g.ID, "title", g.Title)
	return nil
}

// ListGroups returns groups in creation order. A limit <= 0 means no limit.
func (s *SQLiteStore) ListGroups(ctx context.Context, limit int) ([]*Group, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, chat_id, is_active, settings_json, created_at
		FROM groups
		ORDER BY created_at, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		var g Group
		var settings, createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.ChatID, &g.IsActive, &settings, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		if err := json.Unmarshal([]byte(settings), &g.Extra); err != nil {
			return nil, fmt.Errorf("decoding settings of group %s: %w", g.ID, err)
		}
		g.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of group %s: %w", g.ID, err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return groups, nil
}

// ToggleGroup flips is_active and returns the new value.
// Returns ErrNotFound if the group doesn't exist.
func (s *SQLiteStore) ToggleGroup(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx, `
		UPDATE groups SET is_active = 1 - is_active WHERE id = ? RETURNING is_active
	`, id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggling group: %w", err)
	}
	s.logger.Debug("toggled group", "id", id, "active", active)
	return active, nil
}

// DeleteGroup removes a group.
// Returns ErrNotFound if the group doesn't exist.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.logger.Debug("deleted group", "id", id)
	return nil
}
