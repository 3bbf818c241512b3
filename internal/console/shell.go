// ABOUTME: Interactive console loop mapping slash commands to controller operations
// ABOUTME: One reader goroutine feeds context-aware reads; the shell doubles as the y/N confirmer

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/boter/boter-console/internal/authflow"
	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/nav"
	"github.com/boter/boter-console/internal/notify"
	"github.com/boter/boter-console/internal/resource"
)

// errQuit ends Run without an error.
var errQuit = errors.New("quit")

// viewPaths maps the names accepted by /go to view paths.
var viewPaths = map[string]string{
	"setup":     nav.Setup,
	"login":     nav.Login,
	"dashboard": nav.Dashboard,
	"groups":    nav.Groups,
	"settings":  nav.Settings,
}

// Shell is the interactive console. Construct it with NewShell, build the
// controllers with the shell as their Confirmer, then set the component
// fields before calling Run.
type Shell struct {
	Router   *Router
	Auth     *authflow.Flow
	Setup    *resource.Setup
	Groups   *resource.Groups
	Settings *resource.Settings
	Notifier notify.Notifier

	// ReadPassword reads a secret without echo. When nil the next input
	// line is used.
	ReadPassword func(prompt string) (string, error)

	out     io.Writer
	scanner *bufio.Scanner
	ctx     context.Context
	logger  *slog.Logger

	readerOnce sync.Once
	lines      chan inputLine
}

// inputLine is one line, or the terminal error, from the input reader.
type inputLine struct {
	text string
	err  error
}

// NewShell creates a shell reading commands from in and writing to out.
func NewShell(in io.Reader, out io.Writer) *Shell {
	return &Shell{
		out:     out,
		scanner: bufio.NewScanner(in),
		ctx:     context.Background(),
		logger:  slog.Default().With("component", "console.shell"),
	}
}

// Confirm asks a y/N question on the shell's input.
func (s *Shell) Confirm(prompt string) bool {
	color.New(color.FgYellow).Fprintf(s.out, "%s [y/N]: ", prompt)
	line, err := s.readLine(s.ctx)
	if err != nil {
		fmt.Fprintln(s.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Run reads commands until /quit, end of input or ctx is done. A shell that
// has not navigated yet starts at the root, which lands on the setup view.
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx
	if s.Router.Current() == "" {
		s.Router.Navigate("/")
	}
	for {
		fmt.Fprintf(s.out, "%s> ", s.Router.Current())
		line, err := s.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := s.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			s.logger.Debug("command failed", "command", line, "error", err)
		}
	}
}

// readLine waits for the next input line or ctx. A line that arrives after
// ctx is done is kept for the next call.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	s.readerOnce.Do(s.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return in.text, in.err
	}
}

// startReader runs the single goroutine that owns the scanner. It hands
// lines over one at a time and closes lines after the terminal error.
func (s *Shell) startReader() {
	s.lines = make(chan inputLine)
	go func() {
		defer close(s.lines)
		for s.scanner.Scan() {
			s.lines <- inputLine{text: s.scanner.Text()}
		}
		err := io.EOF
		if scanErr := s.scanner.Err(); scanErr != nil {
			err = fmt.Errorf("reading input: %w", scanErr)
		}
		s.lines <- inputLine{err: err}
	}()
}

func (s *Shell) password(prompt string) (string, error) {
	if s.ReadPassword != nil {
		return s.ReadPassword(prompt)
	}
	fmt.Fprint(s.out, prompt)
	return s.readLine(s.ctx)
}

// Exec runs one command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return errQuit
	case "/help":
		s.printHelp()
		return nil
	case "/go":
		if len(args) != 1 {
			return s.usage("/go <setup|login|dashboard|groups|settings>")
		}
		path, ok := viewPaths[args[0]]
		if !ok {
			path = args[0]
		}
		s.Router.Navigate(path)
		return nil
	case "/dashboard", "/groups", "/settings":
		s.Router.Navigate(viewPaths[strings.TrimPrefix(cmd, "/")])
		return nil
	case "/refresh":
		s.Router.Refresh()
		return nil
	case "/setup":
		return s.setup(ctx, args)
	case "/login":
		return s.login(ctx, args)
	case "/logout":
		s.Auth.Logout()
		return nil
	case "/reset-password":
		_, err := s.Auth.ResetPassword(ctx)
		return s.cancelled(err, authflow.ErrCancelled)
	case "/toggle":
		if len(args) != 1 {
			return s.usage("/toggle <group id>")
		}
		_, err := s.Groups.Toggle(ctx, args[0])
		s.redrawOn(nav.Groups)
		return err
	case "/delete":
		if len(args) != 1 {
			return s.usage("/delete <group id>")
		}
		err := s.Groups.Delete(ctx, args[0])
		s.redrawOn(nav.Groups)
		return s.cancelled(err, resource.ErrCancelled)
	case "/set":
		if len(args) < 1 {
			return s.usage("/set <field> <value>  fields: " + strings.Join(resource.SettingsFields, ", "))
		}
		err := s.Settings.SetField(args[0], strings.Join(args[1:], " "))
		s.redrawOn(nav.Settings)
		return err
	case "/admin":
		return s.admin(args)
	case "/save":
		err := s.Settings.Save(ctx)
		s.redrawOn(nav.Settings)
		return err
	default:
		s.Notifier.Error(fmt.Sprintf("Unknown command %q. /help for commands.", cmd))
		return nil
	}
}

func (s *Shell) setup(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return s.usage("/setup <username> <mongo_uri> <bot_token>")
	}
	password, err := s.password("Admin password: ")
	if err != nil {
		return err
	}
	return s.Setup.Submit(ctx, client.SetupRequest{
		AdminUsername: args[0],
		AdminPassword: password,
		MongoURI:      args[1],
		BotToken:      args[2],
	})
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return s.usage("/login <username>")
	}
	password, err := s.password("Password: ")
	if err != nil {
		return err
	}
	return s.Auth.Login(ctx, args[0], password)
}

func (s *Shell) admin(args []string) error {
	if len(args) != 2 || (args[0] != "add" && args[0] != "rm") {
		return s.usage("/admin add|rm <telegram id>")
	}
	if args[0] == "add" {
		_, err := s.Settings.AddAdminID(args[1])
		s.redrawOn(nav.Settings)
		return err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		s.Notifier.Error(resource.MsgInvalidAdminID)
		return err
	}
	if !s.Settings.RemoveAdminID(id) {
		s.Notifier.Info(fmt.Sprintf("Admin %d is not in the list", id))
		return nil
	}
	s.redrawOn(nav.Settings)
	return nil
}

func (s *Shell) redrawOn(path string) {
	if s.Router.Current() == path {
		s.Router.Redraw()
	}
}

func (s *Shell) cancelled(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		s.Notifier.Info("Cancelled")
		return nil
	}
	return err
}

func (s *Shell) usage(u string) error {
	s.Notifier.Error("Usage: " + u)
	return errors.New("bad usage")
}

func (s *Shell) printHelp() {
	tw := newTable(s.out)
	for _, row := range [][2]string{
		{"/go <view>", "Open setup, login, dashboard, groups or settings"},
		{"/refresh", "Reload the current view"},
		{"/setup <user> <mongo_uri> <bot_token>", "Run initial setup"},
		{"/login <user>", "Log in"},
		{"/logout", "Log out"},
		{"/reset-password", "Generate a new admin password (printed in server logs)"},
		{"/toggle <id>", "Activate or deactivate a group"},
		{"/delete <id>", "Delete a group"},
		{"/set <field> <value>", "Edit a setting in the draft"},
		{"/admin add|rm <id>", "Edit the Telegram admin list in the draft"},
		{"/save", "Save the settings draft"},
		{"/quit", "Exit"},
	} {
		fmt.Fprintf(tw, "  %s\t%s\n", row[0], row[1])
	}
	tw.Flush()
}
