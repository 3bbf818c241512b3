// ABOUTME: Authentication flow state machine over the session store and API client
// ABOUTME: Login with delayed navigation, confirmed credential reset, unconditional logout

package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
	"github.com/boter/boter-console/internal/session"
)

// DefaultNavigationDelay is how long the login success message stays before
// the console moves to the dashboard.
const DefaultNavigationDelay = time.Second

const (
	MsgLoggedIn       = "Logged in successfully"
	MsgBadCredentials = "Incorrect username or password"
	MsgFieldsRequired = "Username and password are required"
	MsgResetDone      = "Password reset!"
	MsgResetFailed    = "Failed to reset password"
	MsgLoggedOut      = "Logged out"

	ResetPrompt = "⚠️ Are you sure you want to reset the password?\n\nA new random password will be generated and printed in the server logs."
)

// ResetInstructions tells the operator where the new password went.
func ResetInstructions(username string) string {
	return fmt.Sprintf("Open the server logs and search for \"PASSWORD RESET\" to find the new password. Username: %s", username)
}

var (
	// ErrBusy is returned when a login or reset is already running.
	ErrBusy = errors.New("another authentication request is in progress")

	// ErrCancelled is returned when the operator declines the reset.
	ErrCancelled = errors.New("cancelled by operator")

	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
)

// State is the flow's position.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	Resetting
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Resetting:
		return "resetting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// API is the subset of the API client the flow uses.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	ResetPassword(ctx context.Context) (string, error)
}

// Option configures a Flow.
type Option func(*Flow)

// WithNavigationDelay overrides DefaultNavigationDelay.
func WithNavigationDelay(d time.Duration) Option {
	return func(f *Flow) { f.delay = d }
}

// WithScheduler replaces time.AfterFunc for delayed navigation.
func WithScheduler(fn nav.Scheduler) Option {
	return func(f *Flow) { f.after = fn }
}

// WithLogger sets the flow's logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// Flow is the authentication state machine.
type Flow struct {
	api       API
	tokens    session.Store
	notifier  notify.Notifier
	confirmer notify.Confirmer
	nav       nav.Navigator
	after     nav.Scheduler
	delay     time.Duration
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates a flow. It starts Authenticated when the store already holds a token.
func New(api API, tokens session.Store, notifier notify.Notifier, confirmer notify.Confirmer, navigator nav.Navigator, opts ...Option) *Flow {
	f := &Flow{
		api:       api,
		tokens:    tokens,
		notifier:  notifier,
		confirmer: confirmer,
		nav:       navigator,
		after:     nav.AfterFunc,
		delay:     DefaultNavigationDelay,
		logger:    slog.Default().With("component", "authflow"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if _, ok := tokens.Get(); ok {
		f.state = Authenticated
	}
	return f
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// begin moves to a transient state, remembering where to return on failure.
func (f *Flow) begin(to State) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Authenticating || f.state == Resetting {
		return f.state, ErrBusy
	}
	prev := f.state
	f.state = to
	return prev, nil
}

// settle leaves the transient state from. A concurrent Logout wins.
func (f *Flow) settle(from, to State) {
	f.mu.Lock()
	if f.state == from {
		f.state = to
	}
	f.mu.Unlock()
}

// Login exchanges credentials for a token and stores it.
func (f *Flow) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		f.notifier.Error(MsgFieldsRequired)
		return ErrMissingCredentials
	}

	prev, err := f.begin(Authenticating)
	if err != nil {
		return err
	}

	token, err := f.api.Login(ctx, username, password)
	if err != nil {
		f.settle(Authenticating, prev)
		f.notifier.Error(client.UserMessage(err, MsgBadCredentials))
		return fmt.Errorf("logging in as %s: %w", username, err)
	}
	if err := f.tokens.Set(token); err != nil {
		f.settle(Authenticating, prev)
		f.notifier.Error("Could not store the session")
		return fmt.Errorf("storing session: %w", err)
	}

	f.settle(Authenticating, Authenticated)
	f.logger.Info("logged in", "username", username)
	f.notifier.Success(MsgLoggedIn)
	f.after(f.delay, func() { f.nav.Navigate(nav.Dashboard) })
	return nil
}

// ResetPassword asks for confirmation and then has the server generate a new
// password. Nothing is stored locally. It returns the username the server
// reset.
func (f *Flow) ResetPassword(ctx context.Context) (string, error) {
	if !f.confirmer.Confirm(ResetPrompt) {
		return "", ErrCancelled
	}

	prev, err := f.begin(Resetting)
	if err != nil {
		return "", err
	}
	defer f.settle(Resetting, prev)

	username, err := f.api.ResetPassword(ctx)
	if err != nil {
		f.notifier.Error(client.UserMessage(err, MsgResetFailed))
		return "", fmt.Errorf("resetting password: %w", err)
	}

	f.logger.Info("password reset requested", "username", username)
	f.notifier.Success(MsgResetDone)
	f.notifier.Info(ResetInstructions(username))
	return username, nil
}

// Logout clears the session and returns to the login view. A storage failure
// is logged; the in-memory state still becomes Anonymous.
func (f *Flow) Logout() {
	if err := f.tokens.Clear(); err != nil {
		f.logger.Warn("clearing session", "error", err)
	}
	f.mu.Lock()
	f.state = Anonymous
	f.mu.Unlock()
	f.notifier.Info(MsgLoggedOut)
	f.nav.Navigate(nav.Login)
}
