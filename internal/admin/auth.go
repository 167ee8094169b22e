package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/admin/views"
	"github.com/Roma7-7-7/lawhelp-bot/internal/auth"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
)

const (
	auditLogin = "login"

	adminPath = "/admin"
	loginPath = "/"
)

type (
	AuthRepository interface {
		FindUser(ctx context.Context, username string) (*dal.User, error)
		AppendAudit(ctx context.Context, actor, action string, details map[string]any) error
	}

	AuthDependencies struct {
		Repo             AuthRepository
		JWTProcessor     *JWTProcessor
		CookiesProcessor *CookiesProcessor
		Logger           *slog.Logger
	}

	AuthHandler struct {
		repo             AuthRepository
		jwtProcessor     *JWTProcessor
		cookiesProcessor *CookiesProcessor

		log *slog.Logger
	}

	loginForm struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}
)

func NewAuthHandler(deps AuthDependencies) *AuthHandler {
	return &AuthHandler{
		repo:             deps.Repo,
		jwtProcessor:     deps.JWTProcessor,
		cookiesProcessor: deps.CookiesProcessor,

		log: deps.Logger,
	}
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, views.LoginTemplate, views.LoginData{
		Lang: requestLang(c),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var form loginForm
	if err := c.Bind(&form); err != nil {
		h.log.DebugContext(ctx, "failed to bind login form", "error", err)
		return h.loginFailed(c)
	}

	user, err := h.repo.FindUser(ctx, form.Username)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			h.log.InfoContext(ctx, "login with unknown username", "username", form.Username)
			return h.loginFailed(c)
		}
		return err
	}

	if err = auth.CheckPassword(form.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			h.log.InfoContext(ctx, "login with wrong password", "username", form.Username)
			return h.loginFailed(c)
		}
		h.log.WarnContext(ctx, "failed to check password", "username", form.Username, "error", err)
		return h.loginFailed(c)
	}

	token, err := h.jwtProcessor.ToSessionToken(user.Username)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookiesProcessor.NewSessionCookie(token))
	if err = h.repo.AppendAudit(ctx, user.Username, auditLogin, map[string]any{}); err != nil {
		h.log.ErrorContext(ctx, "failed to append audit", "action", auditLogin, "error", err)
	}

	return c.Redirect(http.StatusSeeOther, adminPath)
}

// LegacyLogin keeps old bookmarks working.
func (h *AuthHandler) LegacyLogin(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, loginPath)
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	c.SetCookie(h.cookiesProcessor.ExpireSessionCookie())
	return c.Redirect(http.StatusSeeOther, loginPath)
}

func (h *AuthHandler) loginFailed(c echo.Context) error {
	lang := requestLang(c)
	return c.Render(http.StatusUnauthorized, views.LoginTemplate, views.LoginData{
		Lang:  lang,
		Error: i18n.T(i18n.KeyLoginFailed, lang),
	})
}

func requestLang(c echo.Context) i18n.Lang {
	if lang := c.QueryParam("lang"); lang != "" {
		return i18n.Parse(lang)
	}
	return i18n.Match(c.Request().Header.Get("Accept-Language"))
}
