package data

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
)

const (
	Separator = "|"
	comment   = "#"
)

type ParsingError struct {
	InvalidLines []int
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing error: invalidLines=%v", e.InvalidLines)
}

// Parse reads one record per line as "ru|en|zh|ko". Trailing columns may be
// omitted, the ru column may not. Blank lines and lines starting with # are
// skipped. Valid records are still sent when some lines are invalid; those
// are reported through *ParsingError once the input is exhausted.
func Parse(ctx context.Context, in io.ReadCloser, out chan<- dal.Record) error {
	defer close(out)
	defer in.Close()

	langs := i18n.Languages()

	scanner := bufio.NewScanner(in)
	invalidLines := make([]int, 0, 10) //nolint:mnd // 10 is the expected capacity
	linNum := 0
	for scanner.Scan() {
		linNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, comment) {
			continue
		}

		parts := strings.Split(line, Separator)
		if len(parts) > len(langs) {
			invalidLines = append(invalidLines, linNum)
			continue
		}

		record := make(dal.Record, len(langs))
		for i, lang := range langs {
			value := ""
			if i < len(parts) {
				value = strings.TrimSpace(parts[i])
			}
			record[string(lang)] = value
		}
		if record[string(i18n.LangRU)] == "" {
			invalidLines = append(invalidLines, linNum)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- record: // continue
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan file: %w", err)
	}
	if len(invalidLines) > 0 {
		return &ParsingError{InvalidLines: invalidLines}
	}

	return nil
}
