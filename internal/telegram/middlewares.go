package telegram

import (
	"fmt"
	"log/slog"

	tb "gopkg.in/telebot.v3"
)

func Recover(log *slog.Logger) tb.MiddlewareFunc {
	return func(next tb.HandlerFunc) tb.HandlerFunc {
		return func(c tb.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic occurred", "panic", r)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}

func LogErrors(log *slog.Logger) tb.MiddlewareFunc {
	return func(next tb.HandlerFunc) tb.HandlerFunc {
		return func(c tb.Context) error {
			err := next(c)
			if err != nil {
				log.Error("failed to process update", "error", err)
			}
			return err
		}
	}
}

// AllowedChats restricts the bot to the given chats. An empty list allows
// everyone.
func AllowedChats(ids []int64) tb.MiddlewareFunc {
	idsMap := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		idsMap[id] = struct{}{}
	}
	return func(next tb.HandlerFunc) tb.HandlerFunc {
		return func(c tb.Context) error {
			if len(idsMap) == 0 {
				return next(c)
			}

			chat := c.Chat()
			if chat == nil {
				return fmt.Errorf("update without chat is not allowed")
			}
			if _, ok := idsMap[chat.ID]; !ok {
				return fmt.Errorf("chat %d is not allowed", chat.ID)
			}

			return next(c)
		}
	}
}
