// ABOUTME: Store interface and data types for the fake management API
// ABOUTME: Administrator credentials, bot configuration, groups and dashboard counters

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrAlreadySetup is returned by CompleteSetup once setup has run.
var ErrAlreadySetup = errors.New("system already setup")

// ErrDuplicateGroup is returned when creating a group whose id exists.
var ErrDuplicateGroup = errors.New("group already exists")

// Counter names.
const (
	CounterMessagesProcessed = "messages_processed"
	CounterBans              = "bans"
)

// Admin is the single console administrator.
type Admin struct {
	Username     string
	PasswordHash string
}

// BotConfig is the deployment configuration edited from the console.
type BotConfig struct {
	BotToken       string
	SupportGroupID string
	LogChannelID   string
	MongoURI       string
	MongoDBName    string
	AdminIDs       []int64
}

// Group is one moderated chat.
type Group struct {
	ID       string
	Title    string
	ChatID   string
	IsActive bool
	// Extra holds settings beyond chat_id and is_active, as decoded JSON.
	Extra     map[string]any
	CreatedAt time.Time
}

// Stats are the dashboard counters.
type Stats struct {
	ActiveGroups      int64
	MessagesProcessed int64
	Bans              int64
}

// Store is the persistence used by the fake API.
type Store interface {
	SetupComplete(ctx context.Context) (bool, error)
	CompleteSetup(ctx context.Context, admin Admin, cfg BotConfig) error
	GetAdmin(ctx context.Context) (*Admin, error)
	AdminUsername(ctx context.Context) (string, error)
	SetAdminPassword(ctx context.Context, hash string) error

	GetBotConfig(ctx context.Context) (*BotConfig, error)
	UpdateBotConfig(ctx context.Context, update BotConfig) (*BotConfig, error)

	CreateGroup(ctx context.Context, g *Group) error
	ListGroups(ctx context.Context, limit int) ([]*Group, error)
	ToggleGroup(ctx context.Context, id string) (bool, error)
	DeleteGroup(ctx context.Context, id string) error

	AddCounter(ctx context.Context, name string, delta int64) error
	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
