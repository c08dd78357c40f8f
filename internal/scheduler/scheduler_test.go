package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mihirvv/jobassist/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingChecker struct {
	calls atomic.Int32
}

func (c *countingChecker) HealthCheck(_ context.Context) llm.HealthSummary {
	c.calls.Add(1)
	return llm.HealthSummary{Reachable: true, Healthy: 1, Total: 1}
}

func TestRun_ImmediateCheckThenTicks(t *testing.T) {
	checker := &countingChecker{}
	m := NewHealthMonitor(checker, 30*time.Millisecond, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One immediate check plus at least two ticks in ~100ms.
	got := checker.calls.Load()
	if got < 3 {
		t.Errorf("expected at least 3 checks, got %d", got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	checker := &countingChecker{}
	m := NewHealthMonitor(checker, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// Give the immediate check time to run, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}

	if checker.calls.Load() != 1 {
		t.Errorf("expected exactly 1 check before cancel, got %d", checker.calls.Load())
	}
}
