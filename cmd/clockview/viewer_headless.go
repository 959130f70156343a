//go:build headless

package main

import (
	"fmt"
	"time"

	"github.com/go-masterclock/masterclock/masterclock"
)

// runViewer prints the same tick trace as text instead of rendering a
// window, mirroring video_backend_headless.go's convention of a no-op/
// text-only stand-in for the windowed backend under the headless build
// tag.
func runViewer(sched *masterclock.Scheduler, events <-chan tickEvent, _ int, duration time.Duration) error {
	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) && sched.State() != "idle" {
		select {
		case ev := <-events:
			fmt.Printf("%s chip %d ticked\n", sched.FormattedElapsedMS(), ev.chip)
		case <-ticker.C:
			fmt.Println(sched.Snapshot())
		}
	}
	return nil
}
