// ABOUTME: Wires the session, gate, controllers and views into a runnable shell
// ABOUTME: Shared by the interactive binary and the console tests

package console

import (
	"context"
	"io"
	"time"

	"github.com/boter/boter-console/internal/authflow"
	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/gate"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
	"github.com/boter/boter-console/internal/resource"
	"github.com/boter/boter-console/internal/session"
)

// Options configures New.
type Options struct {
	Client   *client.Client
	Tokens   session.Store
	In       io.Reader
	Out      io.Writer
	Notifier notify.Notifier

	// NavigationDelay and SetupRedirectDelay are used as given; zero
	// navigates as soon as login or setup succeeds.
	NavigationDelay    time.Duration
	SetupRedirectDelay time.Duration
	// Scheduler defaults to nav.AfterFunc.
	Scheduler nav.Scheduler
}

// New builds a shell with every view registered. ctx bounds the fetches
// views make when mounted.
func New(ctx context.Context, opts Options) *Shell {
	if opts.Notifier == nil {
		opts.Notifier = notify.NewConsole(opts.Out)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = nav.AfterFunc
	}

	sh := NewShell(opts.In, opts.Out)
	router := NewRouter(ctx, gate.New(opts.Tokens), opts.Out)

	sh.Router = router
	sh.Notifier = opts.Notifier
	sh.Auth = authflow.New(opts.Client, opts.Tokens, opts.Notifier, sh, router,
		authflow.WithNavigationDelay(opts.NavigationDelay),
		authflow.WithScheduler(opts.Scheduler))
	sh.Setup = resource.NewSetup(opts.Client, opts.Notifier, router,
		resource.WithRedirectDelay(opts.SetupRedirectDelay),
		resource.WithScheduler(opts.Scheduler))
	sh.Groups = resource.NewGroups(opts.Client, opts.Notifier, sh)
	sh.Settings = resource.NewSettings(opts.Client, opts.Notifier)
	stats := resource.NewStats(opts.Client, opts.Notifier)

	router.Register(nav.Setup, &SetupView{Setup: sh.Setup})
	router.Register(nav.Login, LoginView{})
	router.Register(nav.Dashboard, &DashboardView{Stats: stats})
	router.Register(nav.Groups, &GroupsView{Groups: sh.Groups})
	router.Register(nav.Settings, &SettingsView{Settings: sh.Settings})
	return sh
}
