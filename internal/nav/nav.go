// ABOUTME: Console view paths, navigation contract and delayed scheduling
// ABOUTME: Shared by the auth flow, setup controller and console router

// Package nav names the console's views and how code moves between them.
package nav

import (
	"sync"
	"time"
)

// View paths.
const (
	Setup     = "/setup"
	Login     = "/login"
	Dashboard = "/dashboard"
	Groups    = "/dashboard/groups"
	Settings  = "/dashboard/settings"
)

// Navigator moves the console to another view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Scheduler runs fn after d.
type Scheduler func(d time.Duration, fn func())

// AfterFunc schedules with time.AfterFunc. A delay of zero or less runs fn
// before returning.
func AfterFunc(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	time.AfterFunc(d, fn)
}

// Immediate runs fn synchronously, ignoring the delay.
func Immediate(_ time.Duration, fn func()) {
	fn()
}

// Recorder is a Navigator that remembers every path it was sent to.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

// Paths returns the navigation history.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// Last returns the latest path, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}
