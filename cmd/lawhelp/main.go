package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

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
	exitCodeRun
)

func main() {
	os.Exit(run(context.Background()))
}

// run starts the bot and the admin panel in one process over a shared
// repository. When either stops with an error the other is stopped too.
func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	botConf, err := config.GetBot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get bot config", "error", err) //nolint:sloglint // app logger is not configured yet
		return exitCodeConfigParse
	}
	adminConf, err := config.GetAdmin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get admin config", "error", err) //nolint:sloglint // app logger is not configured yet
		return exitCodeConfigParse
	}

	log := app.MustLogger(botConf.Dev || adminConf.Dev)
	log.InfoContext(ctx, "starting",
		"version", Version,
		"build_time", BuildTime,
		"data_dir", adminConf.DataDir,
	)
	if botConf.DataDir != adminConf.DataDir {
		log.WarnContext(ctx, "bot and admin use different data dirs, the admin one is used for both",
			"bot_data_dir", botConf.DataDir,
			"admin_data_dir", adminConf.DataDir,
		)
	}

	repo, err := app.AdminRepository(adminConf, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create repository", "error", err)
		return exitCodeRepoCreate
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.RunBot(gCtx, botConf, repo, log.With("component", "bot"))
	})
	g.Go(func() error {
		return app.RunAdmin(gCtx, adminConf, repo, log.With("component", "admin"))
	})

	if err = g.Wait(); err != nil {
		log.ErrorContext(ctx, "stopped with error", "error", err)
		return exitCodeRun
	}

	return exitCodeOK
}
