// ABOUTME: Runtime shared by the console binaries: config, logger, session store and API client
// ABOUTME: Installs the forced-logout hook when logout_on_unauthorized is set

package console

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/boter/boter-console/internal/client"
	"github.com/boter/boter-console/internal/config"
	"github.com/boter/boter-console/internal/logging"
	"github.com/boter/boter-console/internal/session"
)

// EnvToken names the variable that overrides the stored session token.
const EnvToken = "BOTER_TOKEN"

// Env bundles what every console binary needs.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Tokens     session.Store
	Client     *client.Client
}

// Bootstrap loads configuration from configFlag (or the default locations),
// sets up logging to logOut and builds the session store and client.
func Bootstrap(configFlag string, logOut io.Writer) (*Env, error) {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup(cfg.Logging, logOut)

	tokenPath := cfg.Session.TokenPath
	if tokenPath == "" {
		tokenPath = session.DefaultPath()
	}
	tokens := session.WithEnvToken(session.NewFile(tokenPath), EnvToken)

	opts := []client.Option{
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(logger.With("component", "client")),
	}
	if cfg.Session.LogoutOnUnauthorized {
		opts = append(opts, client.WithUnauthorizedHook(func() {
			logger.Warn("session rejected by the API, logging out")
			if err := tokens.Clear(); err != nil {
				logger.Warn("clearing session", "error", err)
			}
		}))
	}

	logger.Debug("console environment ready", "config", path, "api", cfg.API.BaseURL, "token_file", tokenPath)
	return &Env{
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		Tokens:     tokens,
		Client:     client.New(cfg.API.BaseURL, tokens, opts...),
	}, nil
}

// ReadPassword prompts on out and reads a password from in without echo
// when in is a terminal, or as a plain line otherwise.
func ReadPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
