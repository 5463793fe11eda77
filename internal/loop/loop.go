// Package loop drives the refresh cadence. It owns no display: it emits one
// Tick per cycle on a channel, which the UI drains. Snapshots are totally
// ordered by emission; collect-then-render stays atomic because a tick is
// only handed over once its collection finished.
package loop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"macmon/internal/model"
	"macmon/internal/procs"
)

// Collector produces one snapshot per call.
type Collector interface {
	Collect(ctx context.Context, key procs.SortKey, limit int) model.Snapshot
}

// Tick is one refresh cycle's result. Err is set only when collection failed
// in an unexpected way; the snapshot is then empty and the renderer shows an
// error panel for that tick while the loop keeps running.
type Tick struct {
	Snapshot model.Snapshot
	Err      error
}

// Loop emits ticks at a fixed interval.
type Loop struct {
	collector Collector
	interval  time.Duration
	sortKey   procs.SortKey
	limit     int
	log       *zap.Logger
}

// New validates the interval and builds a Loop. An interval of zero or less
// would busy-loop and is rejected.
func New(collector Collector, interval time.Duration, key procs.SortKey, limit int, log *zap.Logger) (*Loop, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{collector: collector, interval: interval, sortKey: key, limit: limit, log: log}, nil
}

// Interval returns the configured refresh interval.
func (l *Loop) Interval() time.Duration { return l.interval }

// Stream starts the loop: an initial tick is collected and emitted
// immediately, then one per interval until ctx is done, at which point the
// channel is closed. The wait is a select on the ticker and ctx, so
// cancellation interrupts the sleep; cancellation mid-collection is honored
// at the hand-off, since an abandoned send would block forever otherwise.
func (l *Loop) Stream(ctx context.Context) <-chan Tick {
	ch := make(chan Tick)
	go func() {
		defer close(ch)

		if !l.emit(ctx, ch) {
			return
		}

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !l.emit(ctx, ch) {
					return
				}
			}
		}
	}()
	return ch
}

// emit collects one tick and hands it to the channel. Returns false once ctx
// is done.
func (l *Loop) emit(ctx context.Context, ch chan<- Tick) bool {
	tick := l.safeCollect(ctx)
	select {
	case ch <- tick:
		return true
	case <-ctx.Done():
		return false
	}
}

// safeCollect guards one collection against unexpected failures. The
// aggregator already recovers panics inside its per-source goroutines; this
// covers anything that escapes on the collector's own goroutine, degrading
// it to an error tick instead of taking the whole display down.
func (l *Loop) safeCollect(ctx context.Context) (tick Tick) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("collection panicked", zap.Any("panic", r))
			tick = Tick{Err: fmt.Errorf("metric collection failed: %v", r)}
		}
	}()
	tick.Snapshot = l.collector.Collect(ctx, l.sortKey, l.limit)
	return tick
}
