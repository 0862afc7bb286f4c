package idle_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/randomtoy/lifeassist-go/internal/adapters/llm/idle"
)

func TestWatchdog_FiresAfterSilence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := idle.NewWatchdog(50*time.Millisecond, cancel)
	defer w.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not cancel the context")
	}
	if !w.Expired() {
		t.Error("expected Expired after firing")
	}
	err := w.Wrap(context.Canceled)
	if !errors.Is(err, context.Canceled) || !strings.Contains(err.Error(), "no data from upstream") {
		t.Errorf("unexpected wrapped error: %v", err)
	}
}

func TestWatchdog_ResetKeepsStreamAlive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := idle.NewWatchdog(100*time.Millisecond, cancel)
	defer w.Stop()

	for range 10 {
		time.Sleep(30 * time.Millisecond)
		w.Reset()
	}
	if ctx.Err() != nil || w.Expired() {
		t.Fatal("watchdog fired although data kept arriving")
	}
}

func TestWatchdog_Disabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := idle.NewWatchdog(0, cancel)
	w.Reset()
	w.Stop()

	if ctx.Err() != nil || w.Expired() {
		t.Error("disabled watchdog must never fire")
	}
	if err := errors.New("x"); w.Wrap(err) != err {
		t.Error("Wrap should return the error unchanged")
	}
}
