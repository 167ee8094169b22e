package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
)

const (
	SectionNone  Section = ""
	SectionTerms Section = "terms"
	SectionTips  Section = "tips"
	SectionDocs  Section = "docs"
	SectionMnemo Section = "mnemo"
)

const (
	StateAwaitingLanguage State = iota
	StateMenuShown
	StateSectionBrowsing
)

var (
	// ErrNoCursor is returned for users the navigator has never seen, e.g. a
	// button pressed before the process was restarted.
	ErrNoCursor       = errors.New("no cursor for user")
	ErrNoSection      = errors.New("no section selected")
	ErrUnknownSection = errors.New("unknown section")
)

type (
	Section string
	State   int

	Cursor struct {
		Language i18n.Lang
		State    State
		Section  Section
		Index    int
	}

	// SessionStore keeps cursors keyed by chat user id.
	SessionStore interface {
		Get(userID int64) (Cursor, bool)
		Set(userID int64, c Cursor)
	}

	Content interface {
		Records(ctx context.Context, c dal.Collection) ([]dal.Record, error)
		Cards(ctx context.Context) ([]dal.Card, error)
	}

	// Page is one rendered position of a section. Text is the localized item
	// text (card caption for mnemo) and is not escaped.
	Page struct {
		Section  Section
		Language i18n.Lang
		Title    string
		Text     string
		File     string
		Index    int
		Total    int
		HasPrev  bool
		HasNext  bool
		Empty    bool
	}

	Navigator struct {
		store       SessionStore
		content     Content
		defaultLang i18n.Lang

		log *slog.Logger
	}
)

func NewNavigator(store SessionStore, content Content, defaultLang i18n.Lang, log *slog.Logger) *Navigator {
	if !defaultLang.Supported() {
		defaultLang = i18n.DefaultLang
	}
	return &Navigator{
		store:       store,
		content:     content,
		defaultLang: defaultLang,
		log:         log,
	}
}

// Sections returns the browsable sections in menu order.
func Sections() []Section {
	return []Section{SectionTerms, SectionTips, SectionDocs, SectionMnemo}
}

func ParseSection(val string) (Section, bool) {
	s := Section(val)
	switch s {
	case SectionTerms, SectionTips, SectionDocs, SectionMnemo:
		return s, true
	default:
		return SectionNone, false
	}
}

func (s Section) TitleKey() string {
	switch s {
	case SectionTerms:
		return i18n.KeyDictTitle
	case SectionTips:
		return i18n.KeyTipsTitle
	case SectionDocs:
		return i18n.KeyDocsTitle
	case SectionMnemo:
		return i18n.KeyMnemoTitle
	default:
		return ""
	}
}

func (s Section) collection() dal.Collection {
	switch s {
	case SectionTerms:
		return dal.CollectionTerms
	case SectionTips:
		return dal.CollectionTips
	case SectionDocs:
		return dal.CollectionDocs
	default:
		return ""
	}
}

func (n *Navigator) DefaultLanguage() i18n.Lang {
	return n.defaultLang
}

func (n *Navigator) Cursor(userID int64) (Cursor, bool) {
	return n.store.Get(userID)
}

// Start resets the user's cursor and waits for a language choice.
func (n *Navigator) Start(userID int64) Cursor {
	c := Cursor{
		Language: n.defaultLang,
		State:    StateAwaitingLanguage,
		Section:  SectionNone,
		Index:    0,
	}
	n.store.Set(userID, c)
	return c
}

func (n *Navigator) SelectLanguage(userID int64, lang i18n.Lang) Cursor {
	if !lang.Supported() {
		lang = n.defaultLang
	}
	c := n.cursorOrDefault(userID)
	c.Language = lang
	c.State = StateMenuShown
	n.store.Set(userID, c)
	return c
}

// ChooseLanguage shows the language picker again. The cursor is left as is
// when the user is unknown.
func (n *Navigator) ChooseLanguage(userID int64) {
	c, ok := n.store.Get(userID)
	if !ok {
		return
	}
	c.State = StateAwaitingLanguage
	n.store.Set(userID, c)
}

func (n *Navigator) SelectSection(ctx context.Context, userID int64, section Section) (Page, error) {
	if _, ok := ParseSection(string(section)); !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	c := n.cursorOrDefault(userID)
	c.Section = section
	c.State = StateSectionBrowsing
	c.Index = 0
	n.store.Set(userID, c)

	return n.Render(ctx, userID)
}

// Menu returns to the main menu keeping the language.
func (n *Navigator) Menu(userID int64) Cursor {
	c := n.cursorOrDefault(userID)
	c.State = StateMenuShown
	n.store.Set(userID, c)
	return c
}

func (n *Navigator) Prev(ctx context.Context, userID int64) (Page, error) {
	c, ok := n.store.Get(userID)
	if !ok {
		return Page{}, ErrNoCursor
	}
	c.Index = max(0, c.Index-1)
	n.store.Set(userID, c)

	return n.Render(ctx, userID)
}

// Next moves forward without bounds; Render clamps against the collection
// length at the time of rendering.
func (n *Navigator) Next(ctx context.Context, userID int64) (Page, error) {
	c, ok := n.store.Get(userID)
	if !ok {
		return Page{}, ErrNoCursor
	}
	c.Index++
	n.store.Set(userID, c)

	return n.Render(ctx, userID)
}

// Render builds the page under the user's cursor. The index is clamped to
// the current collection and the clamped value is saved.
func (n *Navigator) Render(ctx context.Context, userID int64) (Page, error) {
	c, ok := n.store.Get(userID)
	if !ok {
		return Page{}, ErrNoCursor
	}
	if c.Section == SectionNone {
		return Page{}, ErrNoSection
	}

	page := Page{
		Section:  c.Section,
		Language: c.Language,
		Title:    i18n.T(c.Section.TitleKey(), c.Language),
	}

	var (
		texts []string
		files []string
	)
	if c.Section == SectionMnemo {
		cards, err := n.content.Cards(ctx)
		if err != nil {
			return Page{}, fmt.Errorf("load cards: %w", err)
		}
		texts = make([]string, len(cards))
		files = make([]string, len(cards))
		for i, card := range cards {
			texts[i] = card.Captions.Text(string(c.Language))
			files[i] = card.File
		}
	} else {
		records, err := n.content.Records(ctx, c.Section.collection())
		if err != nil {
			return Page{}, fmt.Errorf("load %s: %w", c.Section, err)
		}
		texts = make([]string, len(records))
		for i, r := range records {
			texts[i] = r.Text(string(c.Language))
		}
	}

	page.Total = len(texts)
	if page.Total == 0 {
		page.Empty = true
		return page, nil
	}

	idx := clamp(c.Index, page.Total)
	if idx != c.Index {
		c.Index = idx
		n.store.Set(userID, c)
	}

	page.Index = idx
	page.Text = texts[idx]
	if files != nil {
		page.File = files[idx]
		if page.Text == "" {
			page.Text = page.Title
		}
	}
	page.HasPrev = idx > 0
	page.HasNext = idx < page.Total-1

	n.log.DebugContext(ctx, "page rendered", "user_id", userID, "section", c.Section, "index", idx, "total", page.Total)
	return page, nil
}

func (n *Navigator) cursorOrDefault(userID int64) Cursor {
	if c, ok := n.store.Get(userID); ok {
		return c
	}
	return Cursor{Language: n.defaultLang, State: StateAwaitingLanguage}
}

func clamp(idx, length int) int {
	return max(0, min(idx, length-1))
}
