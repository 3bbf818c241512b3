// ABOUTME: Stats controller holding the read-only dashboard counters
// ABOUTME: Load replaces the snapshot; there are no local mutations

package resource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/notify"
)

// StatsAPI is the subset of the API client the stats controller uses.
type StatsAPI interface {
	DashboardStats(ctx context.Context) (*client.DashboardStats, error)
}

// StatsSnapshot is a copy of the controller's state.
type StatsSnapshot struct {
	State  State
	Loaded bool
	Stats  client.DashboardStats
	Err    error
}

// Stats owns the dashboard counters.
type Stats struct {
	api      StatsAPI
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	seq    sequencer
	state  State
	loaded bool
	stats  client.DashboardStats
	err    error
}

// NewStats creates a stats controller.
func NewStats(api StatsAPI, notifier notify.Notifier) *Stats {
	return &Stats{
		api:      api,
		notifier: notifier,
		logger:   slog.Default().With("component", "resource.stats"),
	}
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{State: s.state, Loaded: s.loaded, Stats: s.stats, Err: s.err}
}

// Load fetches the counters.
func (s *Stats) Load(ctx context.Context) error {
	s.mu.Lock()
	seq := s.seq.issue(keyStats)
	s.state = StateLoading
	s.mu.Unlock()

	st, err := s.api.DashboardStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.latest(keyStats, seq) {
		s.logger.Debug("discarding stale stats", "seq", seq)
		return ErrStale
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.notifier.Error(client.UserMessage(err, MsgStatsLoadFailed))
		return fmt.Errorf("loading stats: %w", err)
	}
	s.stats = *st
	s.state = StateReady
	s.loaded = true
	s.err = nil
	s.seq.apply(keyStats)
	return nil
}
