package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/auth"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

const (
	auditUserCreate   = "user_create"
	auditUserDelete   = "user_delete"
	auditUserPassword = "user_password"
)

type (
	UsersRepository interface {
		CreateUser(ctx context.Context, user dal.User) error
		DeleteUser(ctx context.Context, username string) error
		UpdatePasswordHash(ctx context.Context, username, hash string) error
		AppendAudit(ctx context.Context, actor, action string, details map[string]any) error
	}

	UsersHandler struct {
		repo       UsersRepository
		bcryptCost int
		log        *slog.Logger
	}

	createUserForm struct {
		Username string `form:"username" validate:"required,max=64,excludesall=/?#%"`
		Password string `form:"password" validate:"required,max=72"`
		Role     string `form:"role" validate:"omitempty,oneof=admin editor"`
	}

	passwordForm struct {
		Password string `form:"password" validate:"required,max=72"`
	}
)

func NewUsersHandler(repo UsersRepository, bcryptCost int, log *slog.Logger) *UsersHandler {
	return &UsersHandler{
		repo:       repo,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

func (h *UsersHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var form createUserForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	role := dal.RoleEditor
	if form.Role != "" {
		role = dal.Role(form.Role)
	}

	hash, err := h.hash(form.Password)
	if err != nil {
		return err
	}

	if err = h.repo.CreateUser(ctx, dal.User{Username: form.Username, PasswordHash: hash, Role: role}); err != nil {
		return storeError(err)
	}

	appendAudit(ctx, h.repo, h.log, auditUserCreate, map[string]any{"username": form.Username, "role": string(role)})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *UsersHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	if err := h.repo.DeleteUser(ctx, username); err != nil {
		return storeError(err)
	}

	appendAudit(ctx, h.repo, h.log, auditUserDelete, map[string]any{"username": username})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *UsersHandler) Password(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	var form passwordForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	hash, err := h.hash(form.Password)
	if err != nil {
		return err
	}

	if err = h.repo.UpdatePasswordHash(ctx, username, hash); err != nil {
		return storeError(err)
	}

	appendAudit(ctx, h.repo, h.log, auditUserPassword, map[string]any{"username": username})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *UsersHandler) hash(password string) (string, error) {
	hash, err := auth.HashPassword(password, h.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordRequired) || errors.Is(err, auth.ErrPasswordTooLong) {
			return "", echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
		return "", err
	}
	return hash, nil
}
