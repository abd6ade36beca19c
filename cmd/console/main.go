package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/config"
	"pet-health-console/internal/platform/logger"
	"pet-health-console/internal/session"
	"pet-health-console/internal/ui"
)

func main() {
	petID := flag.Int64("pet", 0, "open with this pet selected")
	flag.Parse()

	cfg := config.LoadConsole()

	// Con la TUI ocupando la terminal, el logger va a archivo (LOG_FILE) o
	// se descarta.
	log := newLogger()

	statePath := cfg.StatePath
	if statePath == "" {
		p, err := appctx.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not resolve state path: %v\n", err)
			os.Exit(1)
		}
		statePath = p
	}
	store, err := appctx.Open(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open local state: %v\n", err)
		os.Exit(1)
	}

	client, err := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid API_BASE_URL: %v\n", err)
		os.Exit(1)
	}

	invalidCh := make(chan struct{}, 1)
	monitor := session.NewMonitor(client, store, log, cfg.SessionCheckInterval, func() {
		select {
		case invalidCh <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	model := ui.New(ui.Options{
		API:            client,
		Store:          store,
		Log:            log,
		Monitor:        monitor,
		SessionInvalid: invalidCh,
		RequestedPetID: *petID,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "console error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() logger.Logger {
	out := io.Writer(io.Discard)
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			out = f
		}
	}
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: logger.ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    "pet-health-console",
		Out:    out,
	})
}
