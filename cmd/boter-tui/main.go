// ABOUTME: Interactive terminal console for the bot management API
// ABOUTME: Gated views for setup, login, dashboard, groups and settings driven by slash commands

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/boter/boter-console/internal/console"
	"github.com/boter/boter-console/internal/notify"
)

func main() {
	configPath := flag.String("config", "", "Config file (default $BOTER_CONFIG or ~/.config/boter/console.yaml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\nGoodbye!")
}

func run(ctx context.Context, configPath string) error {
	env, err := console.Bootstrap(configPath, os.Stderr)
	if err != nil {
		return err
	}

	color.New(color.FgCyan).Printf("boter console connected to %s\n", env.Client.BaseURL())
	fmt.Println("Type /help for commands. Ctrl+C to quit.")
	fmt.Println()

	shell := console.New(ctx, console.Options{
		Client:             env.Client,
		Tokens:             env.Tokens,
		In:                 os.Stdin,
		Out:                os.Stdout,
		Notifier:           notify.NewConsole(os.Stdout),
		NavigationDelay:    env.Config.UI.NavigationDelay,
		SetupRedirectDelay: env.Config.UI.SetupRedirectDelay,
	})
	if term.IsTerminal(int(os.Stdin.Fd())) {
		shell.ReadPassword = func(prompt string) (string, error) {
			return console.ReadPassword(os.Stdin, os.Stdout, prompt)
		}
	}
	return shell.Run(ctx)
}
