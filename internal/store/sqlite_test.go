// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers schema creation, setup, credentials, configuration updates and counters

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setUp(t *testing.T, s *SQLiteStore) {
	t.Helper()
	err := s.CompleteSetup(context.Background(),
		Admin{Username: "admin", PasswordHash: "hash-1"},
		BotConfig{BotToken: "123:abc", MongoURI: "mongodb://localhost"})
	if err != nil {
		t.Fatalf("CompleteSetup failed: %v", err)
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestNewSQLiteStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	setUp(t, first)
	first.Close()

	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer second.Close()

	done, err := second.SetupComplete(context.Background())
	if err != nil || !done {
		t.Fatalf("SetupComplete() = %v, %v; want true after reopen", done, err)
	}
}

func TestCompleteSetup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	done, err := s.SetupComplete(ctx)
	if err != nil || done {
		t.Fatalf("SetupComplete() = %v, %v; want false", done, err)
	}
	if _, err := s.GetAdmin(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetAdmin() before setup error = %v, want ErrNotFound", err)
	}

	setUp(t, s)

	done, _ = s.SetupComplete(ctx)
	if !done {
		t.Error("SetupComplete() = false after setup")
	}
	admin, err := s.GetAdmin(ctx)
	if err != nil {
		t.Fatalf("GetAdmin failed: %v", err)
	}
	if admin.Username != "admin" || admin.PasswordHash != "hash-1" {
		t.Errorf("GetAdmin() = %+v", admin)
	}

	err = s.CompleteSetup(ctx, Admin{Username: "other"}, BotConfig{})
	if !errors.Is(err, ErrAlreadySetup) {
		t.Fatalf("second CompleteSetup error = %v, want ErrAlreadySetup", err)
	}
	if name, _ := s.AdminUsername(ctx); name != "admin" {
		t.Errorf("AdminUsername() = %q after rejected setup", name)
	}
}

func TestSetAdminPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetAdminPassword(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetAdminPassword before setup error = %v, want ErrNotFound", err)
	}

	setUp(t, s)
	if err := s.SetAdminPassword(ctx, "hash-2"); err != nil {
		t.Fatalf("SetAdminPassword failed: %v", err)
	}
	admin, _ := s.GetAdmin(ctx)
	if admin.PasswordHash != "hash-2" {
		t.Errorf("PasswordHash = %q, want hash-2", admin.PasswordHash)
	}
}

func TestUpdateBotConfig_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setUp(t, s)

	cfg, err := s.GetBotConfig(ctx)
	if err != nil {
		t.Fatalf("GetBotConfig failed: %v", err)
	}
	if cfg.AdminIDs == nil || len(cfg.AdminIDs) != 0 {
		t.Errorf("AdminIDs = %#v, want empty non-nil", cfg.AdminIDs)
	}

	cfg, err = s.UpdateBotConfig(ctx, BotConfig{SupportGroupID: "-1001", AdminIDs: []int64{5, 6}})
	if err != nil {
		t.Fatalf("UpdateBotConfig failed: %v", err)
	}
	want := &BotConfig{
		BotToken:       "123:abc",
		SupportGroupID: "-1001",
		MongoURI:       "mongodb://localhost",
		AdminIDs:       []int64{5, 6},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("UpdateBotConfig() = %+v, want %+v", cfg, want)
	}

	// Empty strings and nil ids leave stored values alone.
	cfg, err = s.UpdateBotConfig(ctx, BotConfig{BotToken: "999:new"})
	if err != nil {
		t.Fatalf("UpdateBotConfig failed: %v", err)
	}
	if cfg.BotToken != "999:new" || cfg.SupportGroupID != "-1001" || len(cfg.AdminIDs) != 2 {
		t.Errorf("UpdateBotConfig() = %+v", cfg)
	}

	// An explicit empty list clears the ids.
	cfg, _ = s.UpdateBotConfig(ctx, BotConfig{AdminIDs: []int64{}})
	if len(cfg.AdminIDs) != 0 {
		t.Errorf("AdminIDs = %v, want empty", cfg.AdminIDs)
	}
}

func TestCountersAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if *st != (Stats{}) {
		t.Errorf("GetStats() = %+v, want zeros", st)
	}

	for _, d := range []int64{1, 2, 3} {
		if err := s.AddCounter(ctx, CounterMessagesProcessed, d); err != nil {
			t.Fatalf("AddCounter failed: %v", err)
		}
	}
	if err := s.AddCounter(ctx, CounterBans, 4); err != nil {
		t.Fatalf("AddCounter failed: %v", err)
	}
	if err := s.CreateGroup(ctx, &Group{ID: "a", Title: "A", IsActive: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateGroup(ctx, &Group{ID: "b", Title: "B", IsActive: false}); err != nil {
		t.Fatal(err)
	}

	st, _ = s.GetStats(ctx)
	want := Stats{ActiveGroups: 1, MessagesProcessed: 6, Bans: 4}
	if *st != want {
		t.Errorf("GetStats() = %+v, want %+v", st, want)
	}
}
