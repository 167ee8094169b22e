package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	appctx "github.com/Roma7-7-7/lawhelp-bot/internal/context"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

type (
	RecordsRepository interface {
		CreateRecord(ctx context.Context, c dal.Collection, r dal.Record) error
		UpdateRecord(ctx context.Context, c dal.Collection, idx int, r dal.Record) (dal.Record, error)
		DeleteRecord(ctx context.Context, c dal.Collection, idx int) (dal.Record, error)
		AppendAudit(ctx context.Context, actor, action string, details map[string]any) error
	}

	// RecordsHandler serves one plain collection; routes are mounted once per
	// collection.
	RecordsHandler struct {
		collection dal.Collection
		repo       RecordsRepository
		log        *slog.Logger
	}

	recordForm struct {
		RU string `form:"ru" validate:"required"`
		EN string `form:"en"`
		ZH string `form:"zh"`
		KO string `form:"ko"`
	}
)

func NewRecordsHandler(collection dal.Collection, repo RecordsRepository, log *slog.Logger) *RecordsHandler {
	return &RecordsHandler{
		collection: collection,
		repo:       repo,
		log:        log,
	}
}

func (f recordForm) toRecord() dal.Record {
	return dal.Record{"ru": f.RU, "en": f.EN, "zh": f.ZH, "ko": f.KO}
}

func (h *RecordsHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var form recordForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	if err := h.repo.CreateRecord(ctx, h.collection, form.toRecord()); err != nil {
		return storeError(err)
	}

	h.audit(ctx, "create", map[string]any{"ru": form.RU})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *RecordsHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	idx, err := indexParam(c)
	if err != nil {
		return err
	}

	var form recordForm
	if err = bindForm(c, &form); err != nil {
		return err
	}

	if _, err = h.repo.UpdateRecord(ctx, h.collection, idx, form.toRecord()); err != nil {
		return storeError(err)
	}

	h.audit(ctx, "update", map[string]any{"idx": idx, "ru": form.RU})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *RecordsHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	idx, err := indexParam(c)
	if err != nil {
		return err
	}

	deleted, err := h.repo.DeleteRecord(ctx, h.collection, idx)
	if err != nil {
		return storeError(err)
	}

	h.audit(ctx, "delete", map[string]any{"idx": idx, "ru": deleted.Text("ru")})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *RecordsHandler) audit(ctx context.Context, op string, details map[string]any) {
	appendAudit(ctx, h.repo, h.log, string(h.collection)+"_"+op, details)
}

type auditAppender interface {
	AppendAudit(ctx context.Context, actor, action string, details map[string]any) error
}

// appendAudit records a mutation by the current user. The mutation has
// already been persisted, so a failed append is only logged.
func appendAudit(ctx context.Context, repo auditAppender, log *slog.Logger, action string, details map[string]any) {
	actor := appctx.MustUserFromContext(ctx).Username
	if err := repo.AppendAudit(ctx, actor, action, details); err != nil {
		log.ErrorContext(ctx, "failed to append audit", "action", action, "actor", actor, "error", err)
	}
}

// indexParam parses :idx. Anything that is not an integer is reported the same
// way as an out of range index.
func indexParam(c echo.Context) (int, error) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
	}
	return idx, nil
}
