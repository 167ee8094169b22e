package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tb "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
	"github.com/Roma7-7-7/lawhelp-bot/internal/navigation"
)

const (
	callbackLang = "lang"
	callbackMenu = "menu"
	callbackNav  = "nav"

	menuLang = "lang"

	navMenu = "menu"
	navPrev = "prev"
	navNext = "next"
)

type callbackData struct {
	Action string
	Value  string
}

func (d callbackData) String() string {
	return d.Action + ":" + d.Value
}

func (b *Bot) HandleCallback(c tb.Context) error {
	ctx, cancel := processCtx()
	defer cancel()

	data, err := parseCallbackData(c.Callback().Data)
	if err != nil {
		b.log.WarnContext(ctx, "failed to parse callback data", "error", err)
		return c.Respond()
	}

	userID := c.Sender().ID
	switch data.Action {
	case callbackLang:
		cursor := b.nav.SelectLanguage(userID, i18n.Parse(data.Value))
		err = b.showMenu(c, cursor.Language)
	case callbackMenu:
		err = b.handleMenuCallback(ctx, c, userID, data.Value)
	case callbackNav:
		err = b.handleNavCallback(ctx, c, userID, data.Value)
	default:
		b.log.WarnContext(ctx, "unknown callback action", "action", data.Action)
	}

	switch {
	case err == nil:
	case isStale(err):
		b.log.DebugContext(ctx, "stale callback ignored", "data", data.String(), "user_id", userID, "reason", err)
	default:
		b.log.ErrorContext(ctx, "failed to process callback", "error", err, "data", data.String())
	}

	// the button spinner is always cleared; stale presses are not surfaced
	return c.Respond()
}

func (b *Bot) handleMenuCallback(ctx context.Context, c tb.Context, userID int64, value string) error {
	if value == menuLang {
		b.nav.ChooseLanguage(userID)
		return b.showLanguagePicker(c)
	}

	section, ok := navigation.ParseSection(value)
	if !ok {
		return fmt.Errorf("%w: %q", navigation.ErrUnknownSection, value)
	}
	page, err := b.nav.SelectSection(ctx, userID, section)
	if err != nil {
		return fmt.Errorf("select section: %w", err)
	}
	return b.showPage(c, page)
}

func (b *Bot) handleNavCallback(ctx context.Context, c tb.Context, userID int64, value string) error {
	var (
		page navigation.Page
		err  error
	)
	switch value {
	case navMenu:
		cursor := b.nav.Menu(userID)
		return b.showMenu(c, cursor.Language)
	case navPrev:
		page, err = b.nav.Prev(ctx, userID)
	case navNext:
		page, err = b.nav.Next(ctx, userID)
	default:
		return fmt.Errorf("unknown nav action %q", value)
	}
	if err != nil {
		return fmt.Errorf("navigate %s: %w", value, err)
	}
	return b.showPage(c, page)
}

func isStale(err error) bool {
	return errors.Is(err, navigation.ErrNoCursor) ||
		errors.Is(err, navigation.ErrNoSection) ||
		errors.Is(err, navigation.ErrUnknownSection)
}

func parseCallbackData(val string) (callbackData, error) {
	val = strings.TrimSpace(val)
	action, value, ok := strings.Cut(val, ":")
	if !ok || action == "" || value == "" {
		return callbackData{}, fmt.Errorf("invalid callback data: %s", val)
	}
	return callbackData{
		Action: action,
		Value:  value,
	}, nil
}
