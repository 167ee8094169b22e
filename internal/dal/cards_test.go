package dal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRepository_UploadCard(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()

	card, overwritten, err := repo.UploadCard(ctx, "owl.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.False(t, overwritten)
	assert.Equal(t, "owl.png", card.File)

	data, err := os.ReadFile(filepath.Join(dir, "cards", "owl.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	cards, err := repo.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "owl.png", cards[0].File)
	assert.Equal(t, "", cards[0].Captions.Text("ru"))

	index, err := os.ReadFile(filepath.Join(dir, "cards", "index.json"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `"file": "owl.png"`)
}

func TestJSONRepository_UploadCardOverwrites(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()

	_, _, err := repo.UploadCard(ctx, "owl.png", strings.NewReader("v1"))
	require.NoError(t, err)
	_, overwritten, err := repo.UploadCard(ctx, "owl.png", strings.NewReader("v2"))
	require.NoError(t, err)
	assert.True(t, overwritten)

	data, err := os.ReadFile(filepath.Join(dir, "cards", "owl.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	cards, err := repo.Cards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestJSONRepository_UploadCardStripsDirectories(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()

	card, _, err := repo.UploadCard(ctx, "../../etc/owl.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "owl.png", card.File)
	_, err = os.Stat(filepath.Join(dir, "cards", "owl.png"))
	require.NoError(t, err)

	card, _, err = repo.UploadCard(ctx, `C:\photos\cat.jpg`, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "cat.jpg", card.File)
}

func TestJSONRepository_UploadCardRejectsReservedNames(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	for _, name := range []string{"", "..", "index.json", ".hidden"} {
		_, _, err := repo.UploadCard(ctx, name, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrInvalidFilename, name)
	}

	cards, err := repo.Cards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestJSONRepository_UpdateCardKeepsFile(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	_, _, err := repo.UploadCard(ctx, "owl.png", strings.NewReader("x"))
	require.NoError(t, err)

	card, err := repo.UpdateCard(ctx, 0, Record{"ru": "Сова", "en": "Owl", "zh": "", "ko": ""})
	require.NoError(t, err)
	assert.Equal(t, "owl.png", card.File)

	cards, err := repo.Cards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Сова", cards[0].Captions.Text("ru"))
	assert.Equal(t, "Owl", cards[0].Captions.Text("en"))

	_, err = repo.UpdateCard(ctx, 1, Record{"ru": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJSONRepository_UploadCardUnreadableIndex(t *testing.T) {
	repo, dir := newTestRepository(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards", "index.json"), []byte(`{broken`), 0o644))

	_, _, err := repo.UploadCard(context.Background(), "owl.png", strings.NewReader("x"))
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "cards", "owl.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestJSONRepository_CardsKeepExtraValues(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()
	index := filepath.Join(dir, "cards", "index.json")
	require.NoError(t, os.WriteFile(index, []byte(`[{"file":"owl.png","ru":"Сова","order":3}]`), 0o644))

	cards, err := repo.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "owl.png", cards[0].File)
	assert.Equal(t, "Сова", cards[0].Captions.Text("ru"))

	_, err = repo.UpdateCard(ctx, 0, Record{"en": "Owl"})
	require.NoError(t, err)

	data, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order": 3`)
	assert.Contains(t, string(data), `"en": "Owl"`)
}

func TestJSONRepository_DeleteCardRemovesImage(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()
	_, _, err := repo.UploadCard(ctx, "a.png", strings.NewReader("a"))
	require.NoError(t, err)
	_, _, err = repo.UploadCard(ctx, "b.png", strings.NewReader("b"))
	require.NoError(t, err)

	deleted, err := repo.DeleteCard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "a.png", deleted.File)

	_, err = os.Stat(filepath.Join(dir, "cards", "a.png"))
	require.True(t, os.IsNotExist(err))

	cards, err := repo.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "b.png", cards[0].File)

	_, err = repo.DeleteCard(ctx, 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJSONRepository_DeleteCardWithMissingImage(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards", "index.json"), []byte(`[{"file":"gone.png","ru":"x"}]`), 0o644))

	deleted, err := repo.DeleteCard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "gone.png", deleted.File)
}

func TestJSONRepository_CardImagePath(t *testing.T) {
	repo, dir := newTestRepository(t)
	assert.Equal(t, filepath.Join(dir, "cards", "owl.png"), repo.CardImagePath("owl.png"))
	assert.Equal(t, filepath.Join(dir, "cards", "owl.png"), repo.CardImagePath("../owl.png"))
}
