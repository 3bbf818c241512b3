// ABOUTME: Groups controller owning the cached moderated-chat list
// ABOUTME: Load, toggle and delete, applied only after the server confirms

package resource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/notify"
)

// GroupsAPI is the subset of the API client the groups controller uses.
type GroupsAPI interface {
	ListGroups(ctx context.Context) ([]client.Group, error)
	ToggleGroup(ctx context.Context, id string) (*client.ToggleResult, error)
	DeleteGroup(ctx context.Context, id string) error
}

// GroupsSnapshot is a copy of the controller's state.
type GroupsSnapshot struct {
	State State
	// Loaded is true once any load has succeeded. After a failed reload the
	// previous list is still present and State is StateFailed.
	Loaded bool
	Groups []client.Group
	Err    error
}

// Empty reports the explicit "no groups" state: a successful load that
// returned nothing.
func (s GroupsSnapshot) Empty() bool {
	return s.State == StateReady && len(s.Groups) == 0
}

// Groups owns the group list cache.
type Groups struct {
	api       GroupsAPI
	notifier  notify.Notifier
	confirmer notify.Confirmer
	logger    *slog.Logger

	mu      sync.Mutex
	seq     sequencer
	state   State
	loaded  bool
	groups  []client.Group
	err     error
	deleted map[string]uint64 // id -> apply stamp of the delete
}

// NewGroups creates a groups controller.
func NewGroups(api GroupsAPI, notifier notify.Notifier, confirmer notify.Confirmer) *Groups {
	return &Groups{
		api:       api,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    slog.Default().With("component", "resource.groups"),
		deleted:   make(map[string]uint64),
	}
}

// Snapshot returns a deep copy of the current state.
func (g *Groups) Snapshot() GroupsSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GroupsSnapshot{
		State:  g.state,
		Loaded: g.loaded,
		Groups: cloneGroups(g.groups),
		Err:    g.err,
	}
}

// Empty reports whether the latest load succeeded with no groups.
func (g *Groups) Empty() bool {
	return g.Snapshot().Empty()
}

// Find returns a copy of the cached group with id.
func (g *Groups) Find(id string) (client.Group, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i := g.index(id); i >= 0 {
		return g.groups[i].Clone(), true
	}
	return client.Group{}, false
}

// Load fetches the list and replaces the cache.
func (g *Groups) Load(ctx context.Context) error {
	g.mu.Lock()
	seq := g.seq.issue(keyList)
	g.state = StateLoading
	g.mu.Unlock()

	groups, err := g.api.ListGroups(ctx)

	g.mu.Lock()
	if !g.seq.latest(keyList, seq) {
		g.mu.Unlock()
		g.logger.Debug("discarding stale group list", "seq", seq)
		return ErrStale
	}
	if err != nil {
		g.state = StateFailed
		g.err = err
		g.mu.Unlock()
		g.notifier.Error(client.UserMessage(err, MsgGroupsLoadFailed))
		return fmt.Errorf("loading groups: %w", err)
	}
	g.groups = g.merge(groups, seq)
	g.state = StateReady
	g.loaded = true
	g.err = nil
	g.seq.apply(keyList)
	n := len(g.groups)
	g.mu.Unlock()

	g.logger.Debug("groups loaded", "count", n, "seq", seq)
	return nil
}

// merge builds the new cache from a list response issued at seq. Groups
// whose delete resolved after seq stay gone, and toggles resolved after seq
// keep their state, whenever those mutations were sent.
func (g *Groups) merge(fetched []client.Group, seq uint64) []client.Group {
	out := make([]client.Group, 0, len(fetched))
	for _, grp := range fetched {
		if at, ok := g.deleted[grp.ID]; ok && at > seq {
			continue
		}
		if g.seq.appliedAfter(groupKey(grp.ID), seq) {
			if i := g.index(grp.ID); i >= 0 {
				grp.Settings.IsActive = g.groups[i].Settings.IsActive
			}
		}
		out = append(out, grp.Clone())
	}
	return out
}

// Toggle flips a group's active state on the server and applies the state the
// server returned. It returns that state.
func (g *Groups) Toggle(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, g.reject(invalid("id", "group id is required"))
	}
	key := groupKey(id)

	g.mu.Lock()
	seq := g.seq.issue(key)
	g.mu.Unlock()

	res, err := g.api.ToggleGroup(ctx, id)

	g.mu.Lock()
	if !g.seq.latest(key, seq) {
		g.mu.Unlock()
		g.logger.Debug("discarding stale toggle", "group", id, "seq", seq)
		return false, ErrStale
	}
	if err != nil {
		g.mu.Unlock()
		g.notifier.Error(client.UserMessage(err, MsgToggleFailed))
		return false, fmt.Errorf("toggling group %s: %w", id, err)
	}
	if i := g.index(id); i >= 0 {
		g.groups[i].Settings.IsActive = res.NewState
	}
	g.seq.apply(key)
	g.mu.Unlock()

	if res.NewState {
		g.notifier.Success(MsgGroupActivated)
	} else {
		g.notifier.Success(MsgGroupDeactivated)
	}
	return res.NewState, nil
}

// Delete asks for confirmation, deletes the group on the server and then
// drops it from the cache.
func (g *Groups) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return g.reject(invalid("id", "group id is required"))
	}
	if !g.confirmer.Confirm(DeleteGroupPrompt) {
		return ErrCancelled
	}
	key := groupKey(id)

	g.mu.Lock()
	seq := g.seq.issue(key)
	g.mu.Unlock()

	err := g.api.DeleteGroup(ctx, id)

	g.mu.Lock()
	if !g.seq.latest(key, seq) {
		g.mu.Unlock()
		g.logger.Debug("discarding stale delete", "group", id, "seq", seq)
		return ErrStale
	}
	if err != nil {
		g.mu.Unlock()
		g.notifier.Error(client.UserMessage(err, MsgDeleteFailed))
		return fmt.Errorf("deleting group %s: %w", id, err)
	}
	if i := g.index(id); i >= 0 {
		g.groups = append(g.groups[:i:i], g.groups[i+1:]...)
	}
	g.deleted[id] = g.seq.apply(key)
	g.mu.Unlock()

	g.notifier.Success(MsgGroupDeleted)
	return nil
}

func (g *Groups) reject(err *ValidationError) error {
	g.notifier.Error(err.Message)
	return err
}

// index returns the cache position of id, or -1. Callers hold g.mu.
func (g *Groups) index(id string) int {
	for i := range g.groups {
		if g.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneGroups(in []client.Group) []client.Group {
	if in == nil {
		return nil
	}
	out := make([]client.Group, len(in))
	for i, grp := range in {
		out[i] = grp.Clone()
	}
	return out
}
