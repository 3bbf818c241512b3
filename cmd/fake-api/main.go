// ABOUTME: Entry point for the local fake management API server
// ABOUTME: Serves the console's endpoints from SQLite with JWT sessions, optionally seeded with demo data

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/boter/boter-console/internal/auth"
	"github.com/boter/boter-console/internal/config"
	"github.com/boter/boter-console/internal/fakeapi"
	"github.com/boter/boter-console/internal/logging"
	"github.com/boter/boter-console/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Config file (default $BOTER_CONFIG or ~/.config/boter/console.yaml)")
	addr := flag.String("addr", "", "Listen address (overrides fakeapi.addr)")
	seed := flag.Bool("seed", false, "Insert demo groups and counters on start")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *addr, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, addrFlag string, seed bool) error {
	cfg, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addrFlag != "" {
		cfg.FakeAPI.Addr = addrFlag
	}
	if err := cfg.ValidateFakeAPI(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger := logging.Setup(cfg.Logging, os.Stdout)

	secret := []byte(cfg.FakeAPI.JWTSecret)
	if len(secret) == 0 {
		secret, err = auth.GenerateSecret()
		if err != nil {
			return err
		}
		logger.Warn("no fakeapi.jwt_secret configured, generated one; sessions end when the server stops")
	}
	verifier, err := auth.NewJWTVerifier(secret)
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.FakeAPI.Database)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if seed {
		ids, err := fakeapi.SeedGroups(ctx, st, fakeapi.DemoGroups()...)
		if err != nil {
			return err
		}
		if err := fakeapi.SeedCounters(ctx, st, 1280, 17); err != nil {
			return fmt.Errorf("seeding counters: %w", err)
		}
		logger.Info("seeded demo data", "groups", len(ids))
	}

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", orDefault(path))
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.FakeAPI.Database)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      http://%s\n\n", cfg.FakeAPI.Addr)

	srv := fakeapi.New(st, verifier,
		fakeapi.WithLogger(logger),
		fakeapi.WithTokenTTL(cfg.FakeAPI.TokenTTL))
	return srv.Run(ctx, cfg.FakeAPI.Addr)
}

func orDefault(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
