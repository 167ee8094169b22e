package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Roma7-7-7/lawhelp-bot/internal/app"
	"github.com/Roma7-7-7/lawhelp-bot/internal/config"
)

var (
	// Version is set via -ldflags at build time
	Version = "dev" //nolint:gochecknoglobals // must be global to be replaced at build time
	// BuildTime is set via -ldflags at build time
	BuildTime = "unknown" //nolint:gochecknoglobals // must be global to be replaced at build time
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeRepoCreate
	exitCodeServerStart
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	conf, err := config.GetAdmin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // app logger is not configured yet
		return exitCodeConfigParse
	}

	log := app.MustLogger(conf.Dev)
	log.InfoContext(ctx, "starting",
		"version", Version,
		"build_time", BuildTime,
		"env", string(conf.Env()),
	)

	repo, err := app.AdminRepository(conf, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create repository", "error", err)
		return exitCodeRepoCreate
	}

	if err = app.RunAdmin(ctx, conf, repo, log); err != nil {
		log.ErrorContext(ctx, "failed to run admin server", "error", err)
		return exitCodeServerStart
	}

	return exitCodeOK
}
