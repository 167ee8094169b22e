package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/admin/views"
	appctx "github.com/Roma7-7-7/lawhelp-bot/internal/context"
	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
)

const auditLimit = 100

type (
	DashboardRepository interface {
		Records(ctx context.Context, c dal.Collection) ([]dal.Record, error)
		Cards(ctx context.Context) ([]dal.Card, error)
		Users(ctx context.Context) ([]dal.User, error)
		RecentAudit(ctx context.Context, limit int) ([]dal.AuditEntry, error)
	}

	DashboardHandler struct {
		repo DashboardRepository
		log  *slog.Logger
	}
)

func NewDashboardHandler(repo DashboardRepository, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		repo: repo,
		log:  log,
	}
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	user := appctx.MustUserFromContext(ctx)
	lang := requestLang(c)

	data := views.DashboardData{
		Lang:      lang,
		User:      *user,
		IsAdmin:   user.Role == dal.RoleAdmin,
		Languages: i18n.Languages(),
	}

	for _, collection := range dal.Collections() {
		records, err := h.repo.Records(ctx, collection)
		if err != nil {
			return fmt.Errorf("load %s: %w", collection, err)
		}
		section := views.Section{
			Name:  string(collection),
			Title: i18n.T(collectionTitleKey(collection), lang),
			Items: make([]views.Item, len(records)),
		}
		for i, r := range records {
			section.Items[i] = views.Item{Idx: i, Record: r}
		}
		data.Sections = append(data.Sections, section)
	}

	cards, err := h.repo.Cards(ctx)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	data.Cards = make([]views.CardItem, len(cards))
	for i, card := range cards {
		data.Cards[i] = views.CardItem{Idx: i, Card: card}
	}

	if data.IsAdmin {
		if data.Users, err = h.repo.Users(ctx); err != nil {
			return fmt.Errorf("load users: %w", err)
		}
	}

	if data.Audit, err = h.repo.RecentAudit(ctx, auditLimit); err != nil {
		return fmt.Errorf("load audit: %w", err)
	}

	return c.Render(http.StatusOK, views.DashboardTemplate, data)
}

func collectionTitleKey(c dal.Collection) string {
	switch c {
	case dal.CollectionTerms:
		return i18n.KeyDictTitle
	case dal.CollectionTips:
		return i18n.KeyTipsTitle
	case dal.CollectionDocs:
		return i18n.KeyDocsTitle
	default:
		return string(c)
	}
}
