// Package idle bounds the silence between reads of a streamed reply.
package idle

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Watchdog cancels a stream when no data arrives for d. Each Reset restarts
// the countdown, so a slow but steady stream is never cut off.
type Watchdog struct {
	d       time.Duration
	timer   *time.Timer
	expired atomic.Bool
}

// NewWatchdog starts the countdown. A zero d disables the watchdog.
func NewWatchdog(d time.Duration, cancel context.CancelFunc) *Watchdog {
	w := &Watchdog{d: d}
	if d > 0 {
		w.timer = time.AfterFunc(d, func() {
			w.expired.Store(true)
			cancel()
		})
	}
	return w
}

func (w *Watchdog) Reset() {
	if w.timer != nil && !w.expired.Load() {
		w.timer.Reset(w.d)
	}
}

func (w *Watchdog) Stop() {
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Expired reports whether the watchdog cancelled the stream.
func (w *Watchdog) Expired() bool {
	return w.expired.Load()
}

// Wrap names the idle timeout as the cause when the watchdog fired.
func (w *Watchdog) Wrap(err error) error {
	if w.Expired() {
		return fmt.Errorf("no data from upstream for %s: %w", w.d, err)
	}
	return err
}
