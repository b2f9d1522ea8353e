package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/auth"
	"github.com/yakhteh/yakhteh/internal/cache"
	"github.com/yakhteh/yakhteh/internal/config"
	"github.com/yakhteh/yakhteh/internal/credstore"
	"github.com/yakhteh/yakhteh/internal/flows"
	"github.com/yakhteh/yakhteh/internal/monitor"
	"github.com/yakhteh/yakhteh/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitf("loading config: %v", err)
	}

	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		exitf("creating state dir: %v", err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		exitf("opening log: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		exitf("opening state db: %v", err)
	}
	defer db.Close()

	var store credstore.Store
	switch cfg.CredentialBackend {
	case config.BackendSQLite:
		store = db
		logger.Info("credentials in state db", "path", cfg.DBPath)
	default:
		fs := credstore.NewFileStore(cfg.CredentialsPath)
		store = fs
		logger.Info("credentials in file", "path", fs.Path())
	}

	session := auth.NewSession(store, logger)
	// A cleared session must not leave the previous account's profile behind.
	session.Subscribe(func(token string) {
		if token == "" {
			if err := db.ClearProfiles(); err != nil {
				logger.Warn("clearing cached profiles", "err", err)
			}
		}
	})

	client, err := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, session, api.WithLogger(logger))
	if err != nil {
		exitf("configuring api client: %v", err)
	}

	app := ui.NewApp(ui.Deps{
		Context:    auth.WithSession(context.Background(), session),
		Flows:      flows.New(client, logger),
		Dashboard:  client,
		Profiles:   db,
		Monitor:    monitor.New(client, cfg.HealthInterval, cfg.APITimeout, logger),
		ProfileTTL: cfg.ProfileTTL,
		Logger:     logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.SetProgram(p)

	logger.Info("starting", "api", client.BaseURL(), "backend", cfg.CredentialBackend, "signed_in", session.Authenticated())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes to the debug log file; the terminal belongs to the UI.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return logger, func() { f.Close() }, nil
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
