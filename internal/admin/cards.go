package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

const (
	auditCardsUpload = "cards_upload"
	auditCardsUpdate = "cards_update"
	auditCardsDelete = "cards_delete"

	cardsIndexFile = "index.json"
)

type (
	CardsRepository interface {
		CardImagePath(file string) string
		UploadCard(ctx context.Context, filename string, content io.Reader) (card dal.Card, overwritten bool, err error)
		UpdateCard(ctx context.Context, idx int, captions dal.Record) (dal.Card, error)
		DeleteCard(ctx context.Context, idx int) (dal.Card, error)
		AppendAudit(ctx context.Context, actor, action string, details map[string]any) error
	}

	CardsHandler struct {
		repo CardsRepository
		log  *slog.Logger
	}

	captionsForm struct {
		RU string `form:"ru"`
		EN string `form:"en"`
		ZH string `form:"zh"`
		KO string `form:"ko"`
	}
)

func NewCardsHandler(repo CardsRepository, log *slog.Logger) *CardsHandler {
	return &CardsHandler{
		repo: repo,
		log:  log,
	}
}

func (h *CardsHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	header, err := c.FormFile("file")
	if err != nil {
		h.log.DebugContext(ctx, "failed to read uploaded file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "File is required").SetInternal(err)
	}

	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	card, overwritten, err := h.repo.UploadCard(ctx, header.Filename, src)
	if err != nil {
		return storeError(err)
	}

	appendAudit(ctx, h.repo, h.log, auditCardsUpload, map[string]any{"file": card.File, "overwritten": overwritten})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *CardsHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	idx, err := indexParam(c)
	if err != nil {
		return err
	}

	var form captionsForm
	if err = bindForm(c, &form); err != nil {
		return err
	}

	card, err := h.repo.UpdateCard(ctx, idx, dal.Record{"ru": form.RU, "en": form.EN, "zh": form.ZH, "ko": form.KO})
	if err != nil {
		return storeError(err)
	}

	appendAudit(ctx, h.repo, h.log, auditCardsUpdate, map[string]any{"idx": idx, "file": card.File})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (h *CardsHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	idx, err := indexParam(c)
	if err != nil {
		return err
	}

	card, err := h.repo.DeleteCard(ctx, idx)
	if err != nil {
		return storeError(err)
	}

	appendAudit(ctx, h.repo, h.log, auditCardsDelete, map[string]any{"idx": idx, "file": card.File})
	return c.Redirect(http.StatusSeeOther, adminPath)
}

// Image serves a card picture for the dashboard preview.
func (h *CardsHandler) Image(c echo.Context) error {
	path := h.repo.CardImagePath(c.Param("file"))
	if filepath.Base(path) == cardsIndexFile {
		return echo.ErrNotFound
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return echo.ErrNotFound
		}
		return fmt.Errorf("stat card image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return echo.ErrNotFound
	}
	return c.File(path)
}
