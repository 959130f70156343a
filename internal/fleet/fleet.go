// Package fleet runs several independent masterclock.Scheduler instances
// concurrently — one per simulated board — and reports their outcomes as a
// group.
//
// Grounded on the teacher's coprocessor_manager.go, which holds a fixed
// [7]*CoprocWorker table, starts/stops each worker independently, and
// always waits on a worker's done channel (with a timeout) before
// considering it gone. Fleet generalizes that fixed array to an arbitrary
// set of boards managed by golang.org/x/sync/errgroup, which was an
// indirect, unexercised dependency in the teacher's own go.mod.
package fleet

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-masterclock/masterclock/masterclock"
)

// pollInterval is how often watchElapsed checks a bounded board's elapsed
// virtual time against its RunFor target.
const pollInterval = 2 * time.Millisecond

// Board is one independently scheduled unit: a Scheduler plus the
// clockables already registered on it by the caller.
type Board struct {
	Name      string
	Scheduler *masterclock.Scheduler

	// RunFor, if non-zero, stops the board's scheduler once its elapsed
	// time reaches this many picoseconds — used by demos and tests that
	// need a bounded run instead of an externally cancelled one.
	RunFor int64
}

// Run starts every board's scheduler concurrently via Run (synchronous,
// one goroutine per board through errgroup.Group) and returns once all of
// them have stopped, or ctx is cancelled, or one board reports an error.
// Mirrors coprocessor_manager.StopAll's pattern of waiting on every
// worker's completion signal, generalized to errgroup's cancel-on-first-
// error semantics instead of a fixed 2-second per-worker timeout.
func Run(ctx context.Context, boards []*Board) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, b := range boards {
		b := b
		g.Go(func() error {
			return runBoard(ctx, b)
		})
	}

	return g.Wait()
}

func runBoard(ctx context.Context, b *Board) error {
	done := make(chan error, 1)
	go func() {
		done <- b.Scheduler.Run()
	}()

	if b.RunFor > 0 {
		go watchElapsed(ctx, b)
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("fleet: board %q: %w", b.Name, err)
		}
		return nil
	case <-ctx.Done():
		b.Scheduler.Stop()
		<-done
		return ctx.Err()
	}
}

func watchElapsed(ctx context.Context, b *Board) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.Scheduler.ElapsedPS() >= b.RunFor {
				b.Scheduler.Stop()
				return
			}
		}
	}
}
