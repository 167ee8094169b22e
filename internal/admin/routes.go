package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Roma7-7-7/lawhelp-bot/internal/admin/views"
	"github.com/Roma7-7-7/lawhelp-bot/internal/config"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

type (
	Dependencies struct {
		Repo   dal.Repository
		Logger *slog.Logger
	}
)

func NewRouter(ctx context.Context, conf *config.Admin, deps Dependencies) (http.Handler, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(ctx, deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.BodyLimit(conf.HTTP.UploadLimit))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)

	jwtProcessor := NewJWTProcessor(conf.Session)
	cookiesProcessor := NewCookiesProcessor(conf.Cookie, conf.Session.ExpiresIn)
	authMiddleware := AuthMiddleware(cookiesProcessor, jwtProcessor, deps.Repo, deps.Logger)

	e.StaticFS("/static", views.Static())

	auth := NewAuthHandler(AuthDependencies{
		Repo:             deps.Repo,
		JWTProcessor:     jwtProcessor,
		CookiesProcessor: cookiesProcessor,
		Logger:           deps.Logger,
	})
	e.GET("/", auth.LoginPage)
	e.POST("/", auth.Login)
	e.GET("/admin/login", auth.LegacyLogin)
	e.POST("/admin/login", auth.LegacyLogin)
	e.GET("/admin/logout", auth.LogOut)

	secured := e.Group("/admin", authMiddleware)

	dashboard := NewDashboardHandler(deps.Repo, deps.Logger)
	secured.GET("", dashboard.Dashboard)

	for _, collection := range dal.Collections() {
		records := NewRecordsHandler(collection, deps.Repo, deps.Logger)
		group := secured.Group("/" + string(collection))
		group.POST("/create", records.Create)
		group.POST("/update/:idx", records.Update)
		group.POST("/delete/:idx", records.Delete)
	}

	cards := NewCardsHandler(deps.Repo, deps.Logger)
	secured.GET("/cards/image/:file", cards.Image)
	secured.POST("/cards/upload", cards.Upload)
	secured.POST("/cards/update/:idx", cards.Update)
	secured.POST("/cards/delete/:idx", cards.Delete)

	users := NewUsersHandler(deps.Repo, conf.BcryptCost, deps.Logger)
	usersGroup := secured.Group("/users", RequireAdmin())
	usersGroup.POST("/create", users.Create)
	usersGroup.POST("/delete/:username", users.Delete)
	usersGroup.POST("/password/:username", users.Password)

	return e, nil
}

func loggingMiddleware(ctx context.Context, log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
