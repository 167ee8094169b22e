package dal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRepository_AppendAudit(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendAudit(ctx, "admin", "terms_create", map[string]any{"ru": "Договор"}))
	require.NoError(t, repo.AppendAudit(ctx, "admin", "login", nil))

	f, err := os.Open(filepath.Join(dir, "admin", "audit.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)

	assert.Equal(t, "admin", lines[0]["actor"])
	assert.Equal(t, "terms_create", lines[0]["action"])
	assert.Equal(t, map[string]any{"ru": "Договор"}, lines[0]["details"])
	assert.NotZero(t, lines[0]["ts"])
	assert.Equal(t, map[string]any{}, lines[1]["details"])
}

func TestJSONRepository_RecentAudit(t *testing.T) {
	repo, dir := newTestRepository(t)
	ctx := context.Background()

	entries, err := repo.RecentAudit(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for i := range 5 {
		require.NoError(t, repo.AppendAudit(ctx, "admin", fmt.Sprintf("action_%d", i), nil))
	}
	f, err := os.OpenFile(filepath.Join(dir, "admin", "audit.jsonl"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("garbage\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err = repo.RecentAudit(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "action_2", entries[0].Action)
	assert.Equal(t, "action_4", entries[2].Action)
}

func TestJSONRepository_RecentAuditSkipsOversizedLines(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendAudit(ctx, "admin", "login", nil))
	require.NoError(t, repo.AppendAudit(ctx, "admin", "terms_create", map[string]any{"ru": strings.Repeat("я", maxAuditLineSize)}))
	require.NoError(t, repo.AppendAudit(ctx, "admin", "terms_delete", map[string]any{"idx": 0}))

	entries, err := repo.RecentAudit(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "login", entries[0].Action)
	assert.Equal(t, "terms_delete", entries[1].Action)
}

func TestReadLine(t *testing.T) {
	rd := bufio.NewReaderSize(strings.NewReader("short\n"+strings.Repeat("x", 40)+"\nnext\r\nlast"), 16)

	type result struct {
		line    string
		skipped bool
	}
	var got []result
	for {
		line, skipped, err := readLine(rd, 20)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, result{line: string(line), skipped: skipped})
	}

	assert.Equal(t, []result{
		{line: "short"},
		{line: "", skipped: true},
		{line: "next"},
		{line: "last"},
	}, got)
}
