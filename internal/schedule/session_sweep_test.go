package schedule

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingEvicter struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (e *countingEvicter) EvictIdle(ttl time.Duration) int {
	e.calls.Add(1)
	e.ttl.Store(int64(ttl))
	return 1
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartSessionSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	evicter := &countingEvicter{}

	done := make(chan struct{})
	go func() {
		StartSessionSweep(ctx, time.Minute, 5*time.Millisecond, evicter, discardLogger())
		close(done)
	}()

	assert.Eventually(t, func() bool { return evicter.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(time.Minute), evicter.ttl.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop after cancel")
	}
}

func TestStartSessionSweep_Disabled(t *testing.T) {
	evicter := &countingEvicter{}

	// returns immediately without a running loop
	StartSessionSweep(context.Background(), 0, time.Millisecond, evicter, discardLogger())

	assert.Zero(t, evicter.calls.Load())
}
