// clockctl is a raw-mode terminal status console for one or more
// masterclock.Scheduler "boards" run concurrently via internal/fleet. It
// shows each board's FormattedElapsedMS live and can copy the primary
// board's diagnostic snapshot to the clipboard for bug reports.
//
// Keys: q quits, c copies the primary board's Snapshot() to the clipboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/go-masterclock/masterclock/masterclock"
	"github.com/go-masterclock/masterclock/internal/affinity"
	"github.com/go-masterclock/masterclock/internal/demoboard"
	"github.com/go-masterclock/masterclock/internal/fleet"
)

func main() {
	numBoards := flag.Int("boards", 2, "number of independent boards to run concurrently")
	sync := flag.Bool("sync", false, "enable sync-play on every board")
	duration := flag.Duration("duration", 10*time.Second, "how long the console runs before exiting")
	pin := flag.Int("pin", -1, "CPU index to pin the primary board's worker thread to (Linux only, -1 disables)")
	flag.Parse()

	if *numBoards < 1 {
		fmt.Fprintln(os.Stderr, "clockctl: -boards must be >= 1")
		os.Exit(1)
	}

	boards := buildBoards(*numBoards, *sync)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	fleetErr := make(chan error, 1)
	go func() { fleetErr <- fleet.Run(ctx, boards) }()

	if *pin >= 0 {
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			if err := affinity.PinCurrentThread(*pin); err != nil {
				log.Printf("clockctl: pin primary board to CPU %d: %v", *pin, err)
			}
		}()
	}

	if console, err := newConsole(boards); err != nil {
		fmt.Fprintf(os.Stderr, "clockctl: %v (falling back to plain stdout)\n", err)
		runPlain(ctx, boards)
	} else {
		console.run(ctx)
		console.restore()
	}

	cancel()
	if err := <-fleetErr; err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		log.Printf("clockctl: fleet: %v", err)
	}
}

func buildBoards(n int, sync bool) []*fleet.Board {
	boards := make([]*fleet.Board, n)
	for i := range boards {
		s := masterclock.New()
		s.SetSyncPlay(sync)

		handler := &demoboard.LogHandler{Name: fmt.Sprintf("board%d", i)}
		s.SetCallbackHandlers([]masterclock.CallbackHandler{handler})

		cpu := demoboard.NewCPU(fmt.Sprintf("board%d-cpu", i), 0, uint64(500_000*(i+1)))
		s.Add(cpu, 0, true, true)
		s.Add(demoboard.NewPeripheral(fmt.Sprintf("board%d-timer", i), 0, 1000), 0, true, false)

		boards[i] = &fleet.Board{Name: fmt.Sprintf("board%d", i), Scheduler: s}
	}
	return boards
}

// runPlain prints status lines without raw terminal mode, for non-tty
// invocations (e.g. CI, or stdin redirected from a file).
func runPlain(ctx context.Context, boards []*fleet.Board) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, b := range boards {
				fmt.Println(b.Scheduler.Snapshot())
			}
		}
	}
}
