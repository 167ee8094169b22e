package dal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidFilename = errors.New("invalid filename")

func (r *JSONRepository) Cards(ctx context.Context) ([]Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.readCards()
}

func (r *JSONRepository) CardImagePath(file string) string {
	return r.path(cardsDir, filepath.Base(file))
}

// UploadCard stores the image under the cards directory by its base name and
// appends an index entry with empty captions. An existing image with the same
// name is replaced and reported through overwritten.
func (r *JSONRepository) UploadCard(ctx context.Context, filename string, content io.Reader) (Card, bool, error) {
	if err := ctx.Err(); err != nil {
		return Card{}, false, err
	}

	name, err := cardFilename(filename)
	if err != nil {
		return Card{}, false, err
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	cards, err := r.readCards()
	if err != nil {
		return Card{}, false, err
	}

	dest := r.path(cardsDir, name)
	overwritten := false
	if _, err = os.Stat(dest); err == nil {
		overwritten = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Card{}, false, fmt.Errorf("stat %s: %w", dest, err)
	}

	if err = writeFile(dest, content); err != nil {
		return Card{}, false, err
	}

	card := Card{
		File:     name,
		Captions: Record{"ru": "", "en": "", "zh": "", "ko": ""},
	}
	cards = append(cards, card)
	if err = writeJSON(r.path(cardsDir, cardsIndexFile), cards); err != nil {
		return Card{}, false, fmt.Errorf("write cards index: %w", err)
	}

	if overwritten {
		r.log.WarnContext(ctx, "card image overwritten", "file", name)
	}
	return card, overwritten, nil
}

// UpdateCard merges captions into the card at idx; the file reference and
// any other keys are kept.
func (r *JSONRepository) UpdateCard(ctx context.Context, idx int, captions Record) (Card, error) {
	if err := ctx.Err(); err != nil {
		return Card{}, err
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	cards, err := r.readCards()
	if err != nil {
		return Card{}, err
	}
	if !validIndex(idx, len(cards)) {
		return Card{}, ErrNotFound
	}

	card := cards[idx]
	if card.Captions == nil {
		card.Captions = make(Record, len(captions))
	}
	for k, v := range captions {
		card.Captions[k] = v
	}
	cards[idx] = card
	if err = writeJSON(r.path(cardsDir, cardsIndexFile), cards); err != nil {
		return Card{}, fmt.Errorf("write cards index: %w", err)
	}

	return card, nil
}

// DeleteCard removes the index entry at idx together with its image file.
func (r *JSONRepository) DeleteCard(ctx context.Context, idx int) (Card, error) {
	if err := ctx.Err(); err != nil {
		return Card{}, err
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	cards, err := r.readCards()
	if err != nil {
		return Card{}, err
	}
	if !validIndex(idx, len(cards)) {
		return Card{}, ErrNotFound
	}

	deleted := cards[idx]
	if deleted.File != "" {
		if err = os.Remove(r.CardImagePath(deleted.File)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Card{}, fmt.Errorf("remove card image: %w", err)
		}
	}

	cards = append(cards[:idx], cards[idx+1:]...)
	if err = writeJSON(r.path(cardsDir, cardsIndexFile), cards); err != nil {
		return Card{}, fmt.Errorf("write cards index: %w", err)
	}

	return deleted, nil
}

func (r *JSONRepository) readCards() ([]Card, error) {
	cards := make([]Card, 0)
	if err := readJSON(r.path(cardsDir, cardsIndexFile), &cards); err != nil {
		return nil, fmt.Errorf("read cards index: %w", err)
	}
	return cards, nil
}

// cardFilename reduces an uploaded name to a plain file name inside the cards
// directory.
func cardFilename(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	switch {
	case name == "", name == ".", name == "..", name == "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	case name == cardsIndexFile:
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidFilename, filename)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q is hidden", ErrInvalidFilename, filename)
	}
	return name, nil
}

func writeFile(path string, content io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err = io.Copy(f, content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
