package telegram

import (
	"fmt"
	"html"

	tb "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
	"github.com/Roma7-7-7/lawhelp-bot/internal/navigation"
)

// pageMessage formats a list section page as HTML.
func pageMessage(p navigation.Page) string {
	title := html.EscapeString(p.Title)
	if p.Empty {
		return title + "\n" + i18n.T(i18n.KeyNoData, p.Language)
	}

	body := html.EscapeString(p.Text)
	if p.Section == navigation.SectionTerms || p.Section == navigation.SectionDocs {
		body = "<b>" + body + "</b>"
	}
	return fmt.Sprintf("<b>%s</b>\n\n%s\n\n%s", title, body, position(p))
}

func cardCaption(p navigation.Page) string {
	return fmt.Sprintf("%s\n\n%s", html.EscapeString(p.Text), position(p))
}

func position(p navigation.Page) string {
	return fmt.Sprintf("%d/%d", p.Index+1, p.Total)
}

func languageMarkup() *tb.ReplyMarkup {
	langs := i18n.Languages()
	rows := make([][]tb.InlineButton, 0, (len(langs)+1)/2) //nolint:mnd // two per row
	for i := 0; i < len(langs); i += 2 {
		row := []tb.InlineButton{langButton(langs[i])}
		if i+1 < len(langs) {
			row = append(row, langButton(langs[i+1]))
		}
		rows = append(rows, row)
	}
	return &tb.ReplyMarkup{InlineKeyboard: rows}
}

func langButton(l i18n.Lang) tb.InlineButton {
	return tb.InlineButton{
		Text: i18n.Name(l),
		Data: callbackData{Action: callbackLang, Value: string(l)}.String(),
	}
}

func mainMenuMarkup(lang i18n.Lang) *tb.ReplyMarkup {
	button := func(key, value string) []tb.InlineButton {
		return []tb.InlineButton{{
			Text: i18n.T(key, lang),
			Data: callbackData{Action: callbackMenu, Value: value}.String(),
		}}
	}

	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			button(i18n.KeyBtnTerms, string(navigation.SectionTerms)),
			button(i18n.KeyBtnTips, string(navigation.SectionTips)),
			button(i18n.KeyBtnDocs, string(navigation.SectionDocs)),
			button(i18n.KeyBtnMnemo, string(navigation.SectionMnemo)),
			button(i18n.KeyBtnChooseLang, menuLang),
		},
	}
}

// navMarkup always offers the menu; prev and next only when a neighbour
// exists.
func navMarkup(p navigation.Page) *tb.ReplyMarkup {
	row := []tb.InlineButton{navButton(i18n.KeyBtnMenu, navMenu, p.Language)}
	if p.HasPrev {
		row = append(row, navButton(i18n.KeyBtnPrev, navPrev, p.Language))
	}
	if p.HasNext {
		row = append(row, navButton(i18n.KeyBtnNext, navNext, p.Language))
	}
	return &tb.ReplyMarkup{InlineKeyboard: [][]tb.InlineButton{row}}
}

func navButton(key, value string, lang i18n.Lang) tb.InlineButton {
	return tb.InlineButton{
		Text: i18n.T(key, lang),
		Data: callbackData{Action: callbackNav, Value: value}.String(),
	}
}
