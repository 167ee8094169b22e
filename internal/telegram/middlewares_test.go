package telegram

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/telebot.v3"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAllowedChats(t *testing.T) {
	called := 0
	next := func(tb.Context) error {
		called++
		return nil
	}

	allowAll := AllowedChats(nil)(next)
	require.NoError(t, allowAll(&fakeContext{chat: &tb.Chat{ID: 7}}))
	assert.Equal(t, 1, called)

	restricted := AllowedChats([]int64{1, 2})(next)
	require.NoError(t, restricted(&fakeContext{chat: &tb.Chat{ID: 2}}))
	assert.Equal(t, 2, called)

	require.Error(t, restricted(&fakeContext{chat: &tb.Chat{ID: 3}}))
	require.Error(t, restricted(&fakeContext{}))
	assert.Equal(t, 2, called)
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(func(tb.Context) error {
		panic("boom")
	})

	err := h(&fakeContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLogErrorsPassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	h := LogErrors(discardLogger())(func(tb.Context) error {
		return boom
	})

	require.ErrorIs(t, h(&fakeContext{}), boom)
}
