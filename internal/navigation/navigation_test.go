package navigation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
	"github.com/Roma7-7-7/lawhelp-bot/pkg/cache"
)

const userID int64 = 42

type fakeContent struct {
	records map[dal.Collection][]dal.Record
	cards   []dal.Card
	err     error
}

func (f *fakeContent) Records(_ context.Context, c dal.Collection) ([]dal.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[c], nil
}

func (f *fakeContent) Cards(_ context.Context) ([]dal.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cards, nil
}

func newTestNavigator(content *fakeContent) *Navigator {
	return NewNavigator(cache.NewInMemory[int64, Cursor](), content, i18n.LangRU, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func abc() *fakeContent {
	return &fakeContent{records: map[dal.Collection][]dal.Record{
		dal.CollectionTerms: {{"ru": "A"}, {"ru": "B"}, {"ru": "C"}},
	}}
}

func TestNavigator_Start(t *testing.T) {
	n := newTestNavigator(abc())
	n.store.Set(userID, Cursor{Language: i18n.LangKO, State: StateSectionBrowsing, Section: SectionTips, Index: 3})

	c := n.Start(userID)
	assert.Equal(t, Cursor{Language: i18n.LangRU, State: StateAwaitingLanguage, Section: SectionNone, Index: 0}, c)

	stored, ok := n.Cursor(userID)
	require.True(t, ok)
	assert.Equal(t, c, stored)
}

func TestNavigator_SelectLanguage(t *testing.T) {
	n := newTestNavigator(abc())

	c := n.SelectLanguage(userID, i18n.LangZH)
	assert.Equal(t, i18n.LangZH, c.Language)
	assert.Equal(t, StateMenuShown, c.State)

	c = n.SelectLanguage(userID, i18n.Lang("fr"))
	assert.Equal(t, i18n.LangRU, c.Language)
}

func TestNavigator_WalkThroughCollection(t *testing.T) {
	n := newTestNavigator(abc())
	ctx := context.Background()
	n.Start(userID)

	page, err := n.SelectSection(ctx, userID, SectionTerms)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, "A", page.Text)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "Словарь юридических терминов", page.Title)

	page, err = n.Next(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, "B", page.Text)
	assert.True(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page, err = n.Next(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Index)
	assert.Equal(t, "C", page.Text)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	page, err = n.Next(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Index)
	assert.Equal(t, "C", page.Text)

	c, _ := n.Cursor(userID)
	assert.Equal(t, 2, c.Index)
}

func TestNavigator_PrevAtStartIsNoop(t *testing.T) {
	n := newTestNavigator(abc())
	ctx := context.Background()
	_, err := n.SelectSection(ctx, userID, SectionTerms)
	require.NoError(t, err)

	page, err := n.Prev(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, "A", page.Text)
}

func TestNavigator_NextReachesLastAndStays(t *testing.T) {
	for _, length := range []int{1, 2, 5, 10} {
		records := make([]dal.Record, length)
		for i := range records {
			records[i] = dal.Record{"ru": string(rune('a' + i))}
		}
		n := newTestNavigator(&fakeContent{records: map[dal.Collection][]dal.Record{dal.CollectionTips: records}})
		ctx := context.Background()

		page, err := n.SelectSection(ctx, userID, SectionTips)
		require.NoError(t, err)
		for range length - 1 {
			page, err = n.Next(ctx, userID)
			require.NoError(t, err)
		}
		assert.Equal(t, length-1, page.Index)

		page, err = n.Next(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, length-1, page.Index)
		assert.False(t, page.HasNext)
	}
}

func TestNavigator_ClampsWhenCollectionShrinks(t *testing.T) {
	content := abc()
	n := newTestNavigator(content)
	ctx := context.Background()
	_, err := n.SelectSection(ctx, userID, SectionTerms)
	require.NoError(t, err)
	_, err = n.Next(ctx, userID)
	require.NoError(t, err)
	_, err = n.Next(ctx, userID)
	require.NoError(t, err)

	content.records[dal.CollectionTerms] = []dal.Record{{"ru": "A"}}
	page, err := n.Render(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, "A", page.Text)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestNavigator_EmptyCollection(t *testing.T) {
	n := newTestNavigator(&fakeContent{})
	ctx := context.Background()

	for _, s := range Sections() {
		page, err := n.SelectSection(ctx, userID, s)
		require.NoError(t, err)
		assert.True(t, page.Empty, s)
		assert.False(t, page.HasPrev, s)
		assert.False(t, page.HasNext, s)
		assert.Equal(t, 0, page.Total, s)
		assert.NotEmpty(t, page.Title, s)
	}
}

func TestNavigator_LocalizedText(t *testing.T) {
	n := newTestNavigator(&fakeContent{records: map[dal.Collection][]dal.Record{
		dal.CollectionDocs: {{"ru": "Паспорт", "en": "Passport"}},
	}})
	ctx := context.Background()
	n.SelectLanguage(userID, i18n.LangEN)

	page, err := n.SelectSection(ctx, userID, SectionDocs)
	require.NoError(t, err)
	assert.Equal(t, "Passport", page.Text)
	assert.Equal(t, "Documents for Russian student visa", page.Title)
	assert.Equal(t, i18n.LangEN, page.Language)

	n.SelectLanguage(userID, i18n.LangKO)
	page, err = n.Render(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "", page.Text)
}

func TestNavigator_MnemoCards(t *testing.T) {
	n := newTestNavigator(&fakeContent{cards: []dal.Card{
		{File: "owl.png", Captions: dal.Record{"ru": "Сова", "en": ""}},
		{File: "cat.png", Captions: dal.Record{"ru": "Кот", "en": "Cat"}},
	}})
	ctx := context.Background()
	n.SelectLanguage(userID, i18n.LangEN)

	page, err := n.SelectSection(ctx, userID, SectionMnemo)
	require.NoError(t, err)
	assert.Equal(t, "owl.png", page.File)
	assert.Equal(t, "Mnemonic code", page.Text, "empty caption falls back to the title")
	assert.True(t, page.HasNext)

	page, err = n.Next(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "cat.png", page.File)
	assert.Equal(t, "Cat", page.Text)
	assert.False(t, page.HasNext)
}

func TestNavigator_MenuPreservesLanguage(t *testing.T) {
	n := newTestNavigator(abc())
	ctx := context.Background()
	n.SelectLanguage(userID, i18n.LangZH)
	_, err := n.SelectSection(ctx, userID, SectionTerms)
	require.NoError(t, err)

	c := n.Menu(userID)
	assert.Equal(t, i18n.LangZH, c.Language)
	assert.Equal(t, StateMenuShown, c.State)
}

func TestNavigator_UnknownUser(t *testing.T) {
	n := newTestNavigator(abc())
	ctx := context.Background()

	_, err := n.Prev(ctx, userID)
	require.ErrorIs(t, err, ErrNoCursor)
	_, err = n.Next(ctx, userID)
	require.ErrorIs(t, err, ErrNoCursor)
	_, err = n.Render(ctx, userID)
	require.ErrorIs(t, err, ErrNoCursor)

	_, ok := n.Cursor(userID)
	assert.False(t, ok, "navigation must not create cursors")

	n.ChooseLanguage(userID)
	_, ok = n.Cursor(userID)
	assert.False(t, ok)
}

func TestNavigator_SectionSelectionCreatesCursor(t *testing.T) {
	n := newTestNavigator(abc())

	page, err := n.SelectSection(context.Background(), userID, SectionTerms)
	require.NoError(t, err)
	assert.Equal(t, i18n.LangRU, page.Language)

	c, ok := n.Cursor(userID)
	require.True(t, ok)
	assert.Equal(t, StateSectionBrowsing, c.State)
}

func TestNavigator_RenderWithoutSection(t *testing.T) {
	n := newTestNavigator(abc())
	n.Start(userID)

	_, err := n.Render(context.Background(), userID)
	require.ErrorIs(t, err, ErrNoSection)
	_, err = n.Next(context.Background(), userID)
	require.ErrorIs(t, err, ErrNoSection)
}

func TestNavigator_UnknownSection(t *testing.T) {
	n := newTestNavigator(abc())

	_, err := n.SelectSection(context.Background(), userID, Section("lang"))
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestNavigator_ContentError(t *testing.T) {
	boom := errors.New("boom")
	n := newTestNavigator(&fakeContent{err: boom})

	_, err := n.SelectSection(context.Background(), userID, SectionTips)
	require.ErrorIs(t, err, boom)
}

func TestParseSection(t *testing.T) {
	for _, s := range Sections() {
		got, ok := ParseSection(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseSection("lang")
	assert.False(t, ok)
	_, ok = ParseSection("")
	assert.False(t, ok)
}
