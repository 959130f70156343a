// clockview visualizes a running masterclock.Scheduler: one colored column
// per batch of ticks observed since the last redraw, grouped by chip id.
//
// Usage: clockview [-chips N] [-sync] [-duration 5s]
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-masterclock/masterclock/masterclock"
	"github.com/go-masterclock/masterclock/internal/demoboard"
)

// tickEvent is one observed activation, as reported by the recording
// wrappers in recorder.go.
type tickEvent struct {
	chip int
}

func main() {
	chips := flag.Int("chips", 3, "number of simulated CPU+peripheral chips")
	sync := flag.Bool("sync", false, "enable sync-play cross-chip cascading stop")
	duration := flag.Duration("duration", 5*time.Second, "headless run length before exit (ignored by the windowed viewer, which runs until closed)")
	flag.Parse()

	if *chips < 1 {
		fmt.Println("clockview: -chips must be >= 1")
		return
	}

	sched := masterclock.New()
	sched.SetSyncPlay(*sync)

	events := make(chan tickEvent, 256)
	handlers := make([]masterclock.CallbackHandler, *chips)

	for i := 0; i < *chips; i++ {
		handlers[i] = &demoboard.LogHandler{Name: fmt.Sprintf("chip%d", i)}

		cpu := demoboard.NewCPU(fmt.Sprintf("CPU%d", i), i, uint64(1_000_000*(i+1)))
		sched.Add(wrapCPU(cpu, events), i, true, true)

		for p := 0; p < 2; p++ {
			periph := demoboard.NewPeripheral(fmt.Sprintf("P%d.%d", i, p), i, uint64(9_600*(p+1)))
			sched.Add(wrapPeripheral(periph, events), i, true, false)
		}
	}
	sched.SetCallbackHandlers(handlers)

	sched.Start()
	defer sched.Stop()

	if err := runViewer(sched, events, *chips, *duration); err != nil {
		log.Printf("clockview: %v", err)
	}
}
