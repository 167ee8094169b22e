package schedule

import (
	"context"
	"log/slog"
	"time"
)

type IdleEvicter interface {
	EvictIdle(ttl time.Duration) int
}

// StartSessionSweep evicts bot cursors idle for longer than ttl every
// interval until ctx is done. A non-positive ttl disables the sweep.
func StartSessionSweep(ctx context.Context, ttl, interval time.Duration, sessions IdleEvicter, log *slog.Logger) {
	if ttl <= 0 || interval <= 0 {
		log.DebugContext(ctx, "session sweep disabled")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "panic", "error", r)
		}
	}()

	log.InfoContext(ctx, "session sweep schedule started", "ttl", ttl.String(), "interval", interval.String())
	defer log.InfoContext(ctx, "session sweep schedule stopped")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := sessions.EvictIdle(ttl); evicted > 0 {
				log.DebugContext(ctx, "idle sessions evicted", "count", evicted)
			}
		}
	}
}
