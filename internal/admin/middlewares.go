package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	appctx "github.com/Roma7-7-7/lawhelp-bot/internal/context"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

type UserFinder interface {
	FindUser(ctx context.Context, username string) (*dal.User, error)
}

// AuthMiddleware resolves the session cookie to a stored user. The role is
// read from the users document on every request, so deleted users lose
// access immediately.
func AuthMiddleware(cookieProc *CookiesProcessor, jwtProc *JWTProcessor, users UserFinder, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			token, ok := cookieProc.GetSessionToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, UnauthorizedError)
			}

			username, err := jwtProc.ParseSessionToken(token)
			if err != nil {
				log.WarnContext(ctx, "parse session token", "error", err)
				return c.JSON(http.StatusUnauthorized, UnauthorizedError)
			}

			user, err := users.FindUser(ctx, username)
			if err != nil {
				if errors.Is(err, dal.ErrNotFound) {
					log.InfoContext(ctx, "session of unknown user", "username", username)
					return c.JSON(http.StatusUnauthorized, UnauthorizedError)
				}
				return err
			}

			c.SetRequest(c.Request().WithContext(appctx.WithUser(ctx, user)))

			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := appctx.MustUserFromContext(c.Request().Context())
			if user.Role != dal.RoleAdmin {
				return c.JSON(http.StatusForbidden, ForbiddenError)
			}
			return next(c)
		}
	}
}
