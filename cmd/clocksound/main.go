// clocksound plays an audible click for every activation of a designated
// "audio-rate" masterclock.Clockable, giving the scheduler's virtual time
// an audible heartbeat. The click is driven entirely by already-advanced
// virtual time; it never paces the engine toward real time (§1 Non-goals).
//
// Usage: clocksound [-hz N] [-rate 44100] [-duration 10s]
package main

import (
	"flag"
	"log"
	"time"

	"github.com/go-masterclock/masterclock/masterclock"
	"github.com/go-masterclock/masterclock/internal/demoboard"
)

func main() {
	hz := flag.Uint64("hz", 2, "activation rate, in Hz, of the audio-rate participant driving the click")
	sampleRate := flag.Int("rate", 44100, "audio sample rate")
	duration := flag.Duration("duration", 10*time.Second, "how long to run before exiting")
	flag.Parse()

	player, err := newClickPlayer(*sampleRate)
	if err != nil {
		log.Fatalf("clocksound: %v", err)
	}
	defer player.Close()

	sched := masterclock.New()

	beat := demoboard.NewPeripheral("beat", 0, *hz)
	sched.Add(&clickingClockable{Peripheral: beat, player: player}, -1, true, true)

	// A silent, fast CPU-class keeper so the scheduler has a precise LCM
	// anchor even when -hz is small; the audible participant alone would
	// otherwise dominate the period with a single-step schedule, which is
	// fine functionally but makes -hz changes less illustrative.
	keeper := demoboard.NewCPU("keeper", 1, 1000)
	sched.Add(keeper, -1, true, true)

	player.Start()
	defer player.Stop()

	sched.Start()
	defer sched.Stop()

	time.Sleep(*duration)
	log.Printf("clocksound: %s", sched.Snapshot())
}

// clickingClockable wraps a demoboard.Peripheral so every activation
// triggers the audio player's click, in addition to the peripheral's own
// (no-op) tick bookkeeping.
type clickingClockable struct {
	*demoboard.Peripheral
	player clickPlayer
}

func (c *clickingClockable) OnClockTick() *masterclock.ExitToken {
	tok := c.Peripheral.OnClockTick()
	c.player.Click()
	return tok
}
