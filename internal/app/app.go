package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Roma7-7-7/lawhelp-bot/internal/admin"
	"github.com/Roma7-7-7/lawhelp-bot/internal/config"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/navigation"
	"github.com/Roma7-7-7/lawhelp-bot/internal/schedule"
	"github.com/Roma7-7-7/lawhelp-bot/internal/telegram"
	"github.com/Roma7-7-7/lawhelp-bot/pkg/cache"
)

const shutdownTimeout = 15 * time.Second

// RunBot polls Telegram until ctx is done.
func RunBot(ctx context.Context, conf *config.Bot, repo *dal.JSONRepository, log *slog.Logger) error {
	sessions := cache.NewInMemory[int64, navigation.Cursor]()
	nav := navigation.NewNavigator(sessions, repo, conf.Language(), log)

	bot, err := telegram.NewBot(conf.TelegramToken, nav, repo, log,
		telegram.Recover(log),
		telegram.LogErrors(log),
		telegram.AllowedChats(conf.AllowedChatIDs),
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	go schedule.StartSessionSweep(ctx, conf.SessionTTL, conf.SweepInterval, sessions, log)

	log.InfoContext(ctx, "starting bot", "data_dir", conf.DataDir, "default_language", string(conf.Language()))
	bot.Start(ctx)
	log.InfoContext(ctx, "bot is stopped")

	return nil
}

// RunAdmin serves the admin panel until ctx is done.
func RunAdmin(ctx context.Context, conf *config.Admin, repo dal.Repository, log *slog.Logger) error {
	router, err := admin.NewRouter(ctx, conf, admin.Dependencies{
		Repo:   repo,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}

	server := &http.Server{
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Addr:              conf.Server.Addr,
		Handler:           router,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown admin server", "error", sErr)
		}
	}()

	log.InfoContext(ctx, "starting admin server", "address", conf.Server.Addr, "data_dir", conf.DataDir)
	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	log.InfoContext(ctx, "admin server is stopped")

	return nil
}

func BotRepository(conf *config.Bot, log *slog.Logger) (*dal.JSONRepository, error) {
	return dal.NewJSONRepository(conf.DataDir, dal.Options{}, log)
}

func AdminRepository(conf *config.Admin, log *slog.Logger) (*dal.JSONRepository, error) {
	return dal.NewJSONRepository(conf.DataDir, dal.Options{
		DefaultAdminPassword: conf.Password,
		BcryptCost:           conf.BcryptCost,
	}, log)
}

func MustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}
