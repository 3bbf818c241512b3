// ABOUTME: Setup controller for the first-run flow
// ABOUTME: Checks whether setup is done and submits the initial admin and bot settings

package resource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
)

// DefaultSetupRedirectDelay is how long the success message stays before the
// console moves to the login view.
const DefaultSetupRedirectDelay = 2 * time.Second

// SetupAPI is the subset of the API client the setup controller uses.
type SetupAPI interface {
	Status(ctx context.Context) (*client.SetupStatus, error)
	Setup(ctx context.Context, req client.SetupRequest) error
}

// SetupOption configures a Setup controller.
type SetupOption func(*Setup)

// WithRedirectDelay overrides DefaultSetupRedirectDelay.
func WithRedirectDelay(d time.Duration) SetupOption {
	return func(s *Setup) { s.delay = d }
}

// WithScheduler replaces time.AfterFunc for the delayed redirect.
func WithScheduler(fn nav.Scheduler) SetupOption {
	return func(s *Setup) { s.after = fn }
}

// Setup drives the first-run flow.
type Setup struct {
	api      SetupAPI
	notifier notify.Notifier
	nav      nav.Navigator
	after    nav.Scheduler
	delay    time.Duration
	logger   *slog.Logger

	mu  sync.Mutex
	seq sequencer
}

// NewSetup creates a setup controller.
func NewSetup(api SetupAPI, notifier notify.Notifier, navigator nav.Navigator, opts ...SetupOption) *Setup {
	s := &Setup{
		api:      api,
		notifier: notifier,
		nav:      navigator,
		after:    nav.AfterFunc,
		delay:    DefaultSetupRedirectDelay,
		logger:   slog.Default().With("component", "resource.setup"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckStatus asks whether setup is complete and, if so, navigates to the
// dashboard. Failures are logged only; the setup form stays usable.
func (s *Setup) CheckStatus(ctx context.Context) (bool, error) {
	s.mu.Lock()
	seq := s.seq.issue(keyStatus)
	s.mu.Unlock()

	st, err := s.api.Status(ctx)

	s.mu.Lock()
	latest := s.seq.latest(keyStatus, seq)
	s.mu.Unlock()
	if !latest {
		return false, ErrStale
	}
	if err != nil {
		s.logger.Warn("checking setup status", "error", err)
		return false, fmt.Errorf("checking setup status: %w", err)
	}
	if st.SetupComplete {
		s.nav.Navigate(nav.Dashboard)
	}
	return st.SetupComplete, nil
}

// Submit validates and posts the initial setup, then schedules the move to
// the login view.
func (s *Setup) Submit(ctx context.Context, req client.SetupRequest) error {
	req.AdminUsername = strings.TrimSpace(req.AdminUsername)
	req.MongoURI = strings.TrimSpace(req.MongoURI)
	req.BotToken = strings.TrimSpace(req.BotToken)
	for _, f := range []struct{ name, value string }{
		{"admin_username", req.AdminUsername},
		{"admin_password", req.AdminPassword},
		{"mongo_uri", req.MongoURI},
		{"bot_token", req.BotToken},
	} {
		if f.value == "" {
			s.notifier.Error(MsgSetupFieldsNeeded)
			return invalid(f.name, "is required")
		}
	}

	s.mu.Lock()
	seq := s.seq.issue(keySetup)
	s.mu.Unlock()

	err := s.api.Setup(ctx, req)

	s.mu.Lock()
	latest := s.seq.latest(keySetup, seq)
	s.mu.Unlock()
	if !latest {
		return ErrStale
	}
	if err != nil {
		s.notifier.Error(client.UserMessage(err, MsgSetupFailed))
		return fmt.Errorf("submitting setup: %w", err)
	}

	s.notifier.Success(MsgSetupComplete)
	s.after(s.delay, func() { s.nav.Navigate(nav.Login) })
	return nil
}
