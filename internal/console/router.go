// ABOUTME: Console router moving between views through the access gate
// ABOUTME: Mounts each admitted view (fetch-on-mount) and renders it

package console

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/boter/boter-console/internal/gate"
	"github.com/boter/boter-console/internal/nav"
)

// View is one console screen.
type View interface {
	// Mount loads whatever the view shows. Errors have already been
	// notified by the controller.
	Mount(ctx context.Context) error
	// Render writes the view's current state.
	Render(w io.Writer)
}

// Router implements nav.Navigator. Navigations requested while another is
// being processed (from a view's Mount, or a scheduled callback) are queued
// and run in order.
type Router struct {
	ctx    context.Context
	gate   *gate.Gate
	out    io.Writer
	logger *slog.Logger

	mu      sync.Mutex
	views   map[string]View
	current string
	queue   []string
	busy    bool
}

// NewRouter creates a router rendering to out. ctx bounds every fetch a view
// makes on mount.
func NewRouter(ctx context.Context, g *gate.Gate, out io.Writer) *Router {
	return &Router{
		ctx:    ctx,
		gate:   g,
		out:    out,
		logger: slog.Default().With("component", "console.router"),
		views:  make(map[string]View),
	}
}

// Register binds a view to path.
func (r *Router) Register(path string, v View) {
	r.mu.Lock()
	r.views[path] = v
	r.mu.Unlock()
}

// Current returns the path of the view on screen.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to path. Unknown paths go to the setup view; protected paths
// without a session go to the login view.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	r.queue = append(r.queue, path)
	if r.busy {
		r.mu.Unlock()
		return
	}
	r.busy = true
	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		r.enter(next)
		r.mu.Lock()
	}
	r.busy = false
	r.mu.Unlock()
}

// Refresh remounts and re-renders the current view.
func (r *Router) Refresh() {
	if cur := r.Current(); cur != "" {
		r.Navigate(cur)
	}
}

// Redraw renders the current view again without reloading it.
func (r *Router) Redraw() {
	r.mu.Lock()
	v := r.views[r.current]
	r.mu.Unlock()
	if v != nil {
		v.Render(r.out)
	}
}

func (r *Router) enter(path string) {
	r.mu.Lock()
	_, known := r.views[path]
	r.mu.Unlock()
	if !known {
		r.logger.Debug("unknown view", "path", path)
		path = nav.Setup
	}

	if d := r.gate.Check(path); !d.Admit {
		r.logger.Debug("navigation denied", "path", path, "redirect", d.Redirect)
		path = d.Redirect
	}

	r.mu.Lock()
	v, ok := r.views[path]
	r.current = path
	r.mu.Unlock()
	if !ok {
		r.logger.Warn("no view registered", "path", path)
		return
	}

	if err := v.Mount(r.ctx); err != nil {
		r.logger.Debug("mount failed", "path", path, "error", err)
	}
	// A view may have navigated away while mounting.
	if r.hasPending() {
		return
	}
	v.Render(r.out)
}

func (r *Router) hasPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue) > 0
}
