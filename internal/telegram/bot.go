package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tb "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
	"github.com/Roma7-7-7/lawhelp-bot/internal/navigation"
)

const (
	commandStart = "/start"

	processTimeout = 10 * time.Second
)

type (
	ImageLocator interface {
		CardImagePath(file string) string
	}

	Bot struct {
		bot    *tb.Bot
		nav    *navigation.Navigator
		images ImageLocator

		middlewares []tb.MiddlewareFunc

		log *slog.Logger
	}
)

func NewBot(token string, nav *navigation.Navigator, images ImageLocator, log *slog.Logger, middlewares ...tb.MiddlewareFunc) (*Bot, error) {
	b, err := tb.NewBot(tb.Settings{
		Token:     token,
		ParseMode: tb.ModeHTML,
		Poller: &tb.LongPoller{
			Timeout:        1 * time.Minute,
			AllowedUpdates: []string{"message", "callback_query"},
		},
		OnError: func(err error, c tb.Context) {
			log.Error("telegram error", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Bot{
		bot:         b,
		nav:         nav,
		images:      images,
		middlewares: middlewares,
		log:         log,
	}, nil
}

// Start registers handlers and polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.bot.Handle(commandStart, b.HandleStart, b.middlewares...)
	b.bot.Handle(tb.OnCallback, b.HandleCallback, b.middlewares...)

	go func() {
		<-ctx.Done()
		b.log.InfoContext(ctx, "stopping bot poller")
		b.bot.Stop()
	}()

	b.bot.Start()
}

func (b *Bot) HandleStart(c tb.Context) error {
	b.nav.Start(c.Sender().ID)
	return c.Send(i18n.T(i18n.KeyStart, b.promptLanguage(c)), languageMarkup())
}

func (b *Bot) showMenu(c tb.Context, lang i18n.Lang) error {
	return editOrSend(c, i18n.T(i18n.KeyMenuPrompt, lang), mainMenuMarkup(lang))
}

func (b *Bot) showLanguagePicker(c tb.Context) error {
	return editOrSend(c, i18n.T(i18n.KeyStart, b.promptLanguage(c)), languageMarkup())
}

// promptLanguage is the language of the picker prompt. It follows the
// Telegram client language so that a user can read it before choosing.
func (b *Bot) promptLanguage(c tb.Context) i18n.Lang {
	if u := c.Sender(); u != nil && u.LanguageCode != "" {
		return i18n.Match(u.LanguageCode)
	}
	return b.nav.DefaultLanguage()
}

// showPage renders a section page. Cards go out as a new photo message since
// media cannot be swapped into an existing text message.
func (b *Bot) showPage(c tb.Context, page navigation.Page) error {
	markup := navMarkup(page)
	if page.Section == navigation.SectionMnemo && !page.Empty {
		photo := &tb.Photo{
			File:    tb.FromDisk(b.images.CardImagePath(page.File)),
			Caption: cardCaption(page),
		}
		return c.Send(photo, markup, tb.ModeHTML)
	}

	return editOrSend(c, pageMessage(page), markup)
}

// editOrSend edits the callback's message when it is a text message and
// sends a new one otherwise.
func editOrSend(c tb.Context, text string, markup *tb.ReplyMarkup) error {
	msg := c.Message()
	if msg == nil || msg.Text == "" {
		return c.Send(text, markup, tb.ModeHTML)
	}

	err := c.Edit(text, markup, tb.ModeHTML)
	if errors.Is(err, tb.ErrMessageNotModified) {
		return nil
	}
	return err
}

func processCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), processTimeout)
}
