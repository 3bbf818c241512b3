// ABOUTME: Seeding helpers that populate the fake API store
// ABOUTME: Adds groups with generated ids and bumps dashboard counters

package fakeapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/boter/boter-console/internal/store"
)

// GroupSeed describes a group to insert.
type GroupSeed struct {
	Title    string
	ChatID   int64
	IsActive bool
	Extra    map[string]any
}

// SeedGroup inserts one group and returns its generated id.
func SeedGroup(ctx context.Context, st store.Store, seed GroupSeed) (string, error) {
	g := &store.Group{
		ID:       uuid.NewString(),
		Title:    seed.Title,
		ChatID:   strconv.FormatInt(seed.ChatID, 10),
		IsActive: seed.IsActive,
		Extra:    seed.Extra,
	}
	if err := st.CreateGroup(ctx, g); err != nil {
		return "", fmt.Errorf("seeding group %q: %w", seed.Title, err)
	}
	return g.ID, nil
}

// SeedGroups inserts seeds in order and returns their ids.
func SeedGroups(ctx context.Context, st store.Store, seeds ...GroupSeed) ([]string, error) {
	ids := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		id, err := SeedGroup(ctx, st, seed)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SeedCounters adds to the processed-message and ban counters.
func SeedCounters(ctx context.Context, st store.Store, messages, bans int64) error {
	if err := st.AddCounter(ctx, store.CounterMessagesProcessed, messages); err != nil {
		return err
	}
	return st.AddCounter(ctx, store.CounterBans, bans)
}

// DemoGroups is the sample data `fake-api --seed` loads.
func DemoGroups() []GroupSeed {
	return []GroupSeed{
		{Title: "Support Chat", ChatID: -1001234567890, IsActive: true, Extra: map[string]any{"welcome_message": "Welcome!"}},
		{Title: "Announcements", ChatID: -1001234567891, IsActive: true},
		{Title: "Archive", ChatID: -1001234567892, IsActive: false},
	}
}
