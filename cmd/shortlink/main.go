package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"

	"url-shortener-web/internal/client"
	"url-shortener-web/internal/config"
	"url-shortener-web/internal/view"
	"url-shortener-web/pkg/logger"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStderrLogger()
	defer log.Sync()
	// Keep the terminal quiet unless asked otherwise
	if os.Getenv("LOG_LEVEL") == "" {
		log.SetLevel("error")
	}

	// Launcher chatter must not end up in piped output
	browser.Stdout = os.Stderr

	deps := cliDeps{
		cfg: cfg,
		links: client.New(cfg.APIURL, client.Options{
			Timeout:       cfg.APITimeout,
			RatePerSecond: cfg.APIRatePerSec,
		}),
		logger:      log,
		scheduler:   view.SystemScheduler{},
		openBrowser: browser.OpenURL,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newCLIApp(deps)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
