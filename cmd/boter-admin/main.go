// ABOUTME: One-shot admin CLI for the bot management API
// ABOUTME: Setup, login/logout, password reset, stats, groups and configuration commands

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/boter/boter-console/internal/authflow"
	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/console"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
	"github.com/boter/boter-console/internal/resource"
)

const banner = `
 _           _
| |__   ___ | |_ ___ _ __
| '_ \ / _ \| __/ _ \ '__|
| |_) | (_) | ||  __/ |
|_.__/ \___/ \__\___|_|
`

// errReported marks failures the controllers already showed to the operator.
var errReported = errors.New("reported")

func main() {
	configPath := flag.String("config", "", "Config file (default $BOTER_CONFIG or ~/.config/boter/console.yaml)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env, err := console.Bootstrap(*configPath, os.Stderr)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	a := newApp(env)
	cmd, args := flag.Arg(0), flag.Args()[1:]

	switch cmd {
	case "status":
		err = a.status(ctx)
	case "setup":
		err = a.setup(ctx, args)
	case "login":
		err = a.login(ctx, args)
	case "logout":
		a.flow(notify.AutoConfirm{}).Logout()
	case "reset-password":
		err = a.resetPassword(ctx, args)
	case "stats":
		err = a.stats(ctx)
	case "groups":
		err = a.groups(ctx, args)
	case "config":
		err = a.config(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			color.Red("Error: %v\n", err)
		}
		env.Logger.Debug("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: boter-admin [--config FILE] <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  status                           Show setup state and, when logged in, dashboard stats")
	fmt.Println("  setup --username U --mongo-uri M --bot-token T")
	fmt.Println("                                   Run initial setup (password is prompted)")
	fmt.Println("  login <username>                 Log in and store the session token")
	fmt.Println("  logout                           Forget the session token")
	fmt.Println("  reset-password [--yes]           Generate a new admin password (printed in server logs)")
	fmt.Println("  stats                            Show dashboard stats")
	fmt.Println("  groups [list]                    List groups")
	fmt.Println("  groups toggle <id>               Activate or deactivate a group")
	fmt.Println("  groups delete [--yes] <id>       Delete a group")
	fmt.Println("  config [show]                    Show the bot configuration")
	fmt.Println("  config set <field> <value>       Change one setting and save")
	fmt.Println("  config admins add|rm <id>        Edit the Telegram admin list and save")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  BOTER_CONFIG     Config file path")
	fmt.Println("  BOTER_API_URL    Management API base URL (default http://localhost:8000)")
	fmt.Println("  BOTER_TOKEN      Session token (overrides the stored token)")
	fmt.Println()
}

type app struct {
	env      *console.Env
	notifier notify.Notifier
}

func newApp(env *console.Env) *app {
	return &app{env: env, notifier: notify.NewConsole(os.Stdout)}
}

func (a *app) confirmer(yes bool) notify.Confirmer {
	if yes {
		return notify.AutoConfirm{}
	}
	return notify.NewPrompt(os.Stdin, os.Stdout)
}

// flow builds an auth flow for a one-shot command. There are no views to
// move between, so navigation only logs.
func (a *app) flow(confirmer notify.Confirmer) *authflow.Flow {
	return authflow.New(a.env.Client, a.env.Tokens, a.notifier, confirmer,
		nav.NavigatorFunc(func(path string) { a.env.Logger.Debug("navigation", "path", path) }),
		authflow.WithScheduler(nav.Immediate),
		authflow.WithLogger(a.env.Logger.With("component", "authflow")))
}

func (a *app) requireSession() error {
	if _, ok := a.env.Tokens.Get(); !ok {
		return fmt.Errorf("not logged in (run boter-admin login <username> or set %s)", console.EnvToken)
	}
	return nil
}

// status fetches the setup state and, with a session, the stats concurrently.
func (a *app) status(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	_, loggedIn := a.env.Tokens.Get()

	var (
		setup    *client.SetupStatus
		stats    *client.DashboardStats
		statsErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		setup, err = a.env.Client.Status(gctx)
		return err
	})
	if loggedIn {
		g.Go(func() error {
			stats, statsErr = a.env.Client.DashboardStats(gctx)
			return nil
		})
	}
	err := g.Wait()

	cyan.Print(banner)
	fmt.Println()
	if err != nil {
		yellow.Printf("  API:      ")
		color.Red("UNREACHABLE (%v)\n", err)
		return nil
	}
	green.Printf("  API:      ")
	fmt.Printf("%s\n", a.env.Client.BaseURL())
	green.Printf("  Setup:    ")
	if setup.SetupComplete {
		fmt.Println("complete")
	} else {
		yellow.Println("pending (run boter-admin setup)")
	}

	switch {
	case !loggedIn:
		yellow.Printf("  Session:  ")
		fmt.Println("(none - run boter-admin login)")
	case statsErr != nil:
		yellow.Printf("  Session:  ")
		color.Red("%s\n", client.UserMessage(statsErr, "rejected"))
	default:
		green.Printf("  Session:  ")
		fmt.Println("valid")
		fmt.Println()
		console.RenderStats(os.Stdout, *stats)
	}
	fmt.Println()
	return nil
}

func (a *app) setup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	username := fs.String("username", "", "Admin username")
	mongoURI := fs.String("mongo-uri", "", "MongoDB connection URI")
	botToken := fs.String("bot-token", "", "Telegram bot token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := console.ReadPassword(os.Stdin, os.Stdout, "Admin password: ")
	if err != nil {
		return err
	}

	setup := resource.NewSetup(a.env.Client, a.notifier,
		nav.NavigatorFunc(func(string) {}),
		resource.WithScheduler(nav.Immediate))
	if err := setup.Submit(ctx, client.SetupRequest{
		AdminUsername: *username,
		AdminPassword: password,
		MongoURI:      *mongoURI,
		BotToken:      *botToken,
	}); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	fmt.Println("Next: boter-admin login", *username)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: boter-admin login <username>")
	}
	password, err := console.ReadPassword(os.Stdin, os.Stdout, "Password: ")
	if err != nil {
		return err
	}
	if err := a.flow(notify.AutoConfirm{}).Login(ctx, args[0], password); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}

func (a *app) resetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	_, err := a.flow(a.confirmer(*yes)).ResetPassword(ctx)
	if errors.Is(err, authflow.ErrCancelled) {
		a.notifier.Info("Cancelled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}

func (a *app) stats(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	stats := resource.NewStats(a.env.Client, a.notifier)
	if err := stats.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	console.RenderStats(os.Stdout, stats.Snapshot().Stats)
	return nil
}

func (a *app) groups(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("groups "+subcmd, flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()

	groups := resource.NewGroups(a.env.Client, a.notifier, a.confirmer(*yes))

	switch subcmd {
	case "list", "ls":
		if err := groups.Load(ctx); err != nil {
			return fmt.Errorf("%w: %w", errReported, err)
		}
		console.RenderGroups(os.Stdout, groups.Snapshot().Groups)
		return nil
	case "toggle":
		if len(args) != 1 {
			return fmt.Errorf("usage: boter-admin groups toggle <id>")
		}
		if _, err := groups.Toggle(ctx, args[0]); err != nil {
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return nil
	case "delete", "rm", "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: boter-admin groups delete [--yes] <id>")
		}
		err := groups.Delete(ctx, args[0])
		if errors.Is(err, resource.ErrCancelled) {
			a.notifier.Info("Cancelled")
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown groups subcommand: %s (use list, toggle, delete)", subcmd)
	}
}

func (a *app) config(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	subcmd := "show"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	settings := resource.NewSettings(a.env.Client, a.notifier)
	if err := settings.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}

	switch subcmd {
	case "show":
		console.RenderConfig(os.Stdout, settings.Snapshot().Draft)
		return nil
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: boter-admin config set <field> <value>")
		}
		if err := settings.SetField(args[0], args[1]); err != nil {
			return fmt.Errorf("%w: %w", errReported, err)
		}
	case "admins":
		if len(args) != 2 {
			return fmt.Errorf("usage: boter-admin config admins add|rm <id>")
		}
		switch args[0] {
		case "add":
			if _, err := settings.AddAdminID(args[1]); err != nil {
				return fmt.Errorf("%w: %w", errReported, err)
			}
		case "rm", "remove":
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid admin id %q", args[1])
			}
			if !settings.RemoveAdminID(id) {
				return fmt.Errorf("admin %d is not in the list", id)
			}
		default:
			return fmt.Errorf("unknown admins subcommand: %s (use add, rm)", args[0])
		}
	default:
		return fmt.Errorf("unknown config subcommand: %s (use show, set, admins)", subcmd)
	}

	if err := settings.Save(ctx); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}
