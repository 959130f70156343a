package masterclock

import (
	"testing"
	"time"
)

// waitForState polls until the scheduler reports the wanted state or the
// deadline passes.
func waitForState(t *testing.T, s *Scheduler, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("scheduler did not reach state %q within %v (current: %q)", want, timeout, s.State())
}

// TestRateFidelity is §8 property 1 run for at least one full period: each
// precise entry activates at least as often as its frequency gives per period.
func TestRateFidelity(t *testing.T) {
	s := New()
	a := newFake("A", 0, 3)
	b := newFake("B", 0, 5)
	s.Add(a, -1, true, true)
	s.Add(b, -1, true, true)

	s.Start()
	defer s.Stop()

	// One period = 1 second of virtual time (lcm=15Hz * tick_ps=1/15s).
	for s.ElapsedPS() < picosecondsPerSecond {
		time.Sleep(time.Millisecond)
	}
	s.Stop()
	waitForState(t, s, "idle", time.Second)

	if a.Activations() < 3 {
		t.Errorf("A activations = %d, want >= 3", a.Activations())
	}
	if b.Activations() < 5 {
		t.Errorf("B activations = %d, want >= 5", b.Activations())
	}
}

// TestZeroFrequencyOnlyEntryHalts is scenario S2: a registry consisting
// only of a silent (zero-frequency) entry must not spin forever; the
// engine detects nothing is schedulable and halts.
func TestZeroFrequencyOnlyEntryHalts(t *testing.T) {
	s := New()
	a := newFake("A", 0, 0)
	s.Add(a, -1, true, true)

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not halt with only a zero-frequency entry registered")
	}
	if a.Activations() != 0 {
		t.Errorf("zero-frequency entry should never activate, got %d", a.Activations())
	}
}

// TestExitTokenDisablesOnlyThatEntry is scenario S5.
func TestExitTokenDisablesOnlyThatEntry(t *testing.T) {
	s := New()
	a := newFake("A", 0, 100)
	b := newFake("B", 0, 100)
	a.exitOnNth = 3
	a.exitReason = "done"

	h := &fakeHandler{}
	s.SetCallbackHandlers([]CallbackHandler{h})
	s.Add(a, 0, true, true)
	s.Add(b, -1, true, true)

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for b.Activations() < 10 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	s.Stop()
	waitForState(t, s, "idle", time.Second)

	if got := a.Activations(); got != 3 {
		t.Errorf("A activations = %d, want exactly 3 (disabled after exit)", got)
	}
	if h.exitCount() == 0 {
		t.Errorf("expected OnNormalExit to have been called")
	}
}

// TestPanicIsolatesOnlyFaultingEntry is the §7 exception policy: a panic in
// one entry's tick disables only that entry and reports via OnException;
// siblings keep running.
func TestPanicIsolatesOnlyFaultingEntry(t *testing.T) {
	s := New()
	a := newFake("A", 0, 100)
	b := newFake("B", 0, 100)
	a.panicOnNth = 2

	h := &fakeHandler{}
	s.SetCallbackHandlers([]CallbackHandler{h})
	s.Add(a, 0, true, true)
	s.Add(b, -1, true, true)

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for b.Activations() < 10 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	s.Stop()
	waitForState(t, s, "idle", time.Second)

	if got := a.Activations(); got != 2 {
		t.Errorf("A activations = %d, want exactly 2 (disabled after panic)", got)
	}
	if len(h.faults) == 0 {
		t.Errorf("expected OnException to have been called")
	}
}

// TestSyncPlayCascade is scenario S6.
func TestSyncPlayCascade(t *testing.T) {
	s := New()
	s.SetSyncPlay(true)

	cpu0 := newCPUFake("CPU0", 0, 100)
	periph0a := newFake("P0a", 0, 100)
	periph0b := newFake("P0b", 0, 100)
	cpu1 := newCPUFake("CPU1", 1, 100)
	periph1a := newFake("P1a", 1, 100)
	periph1b := newFake("P1b", 1, 100)

	cpu0.exitOnNth = 1
	cpu0.exitReason = "halt chip 0"

	h0, h1 := &fakeHandler{}, &fakeHandler{}
	s.SetCallbackHandlers([]CallbackHandler{h0, h1})
	s.Add(cpu0, 0, true, true)
	s.Add(periph0a, -1, true, true)
	s.Add(periph0b, -1, true, true)
	s.Add(cpu1, 1, true, true)
	s.Add(periph1a, -1, true, true)
	s.Add(periph1b, -1, true, true)

	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if e := s.reg.entryFor(cpu0); e.enabled {
		t.Errorf("cpu0 should be disabled")
	}
	if e := s.reg.entryFor(periph0a); e.enabled {
		t.Errorf("periph0a should be disabled")
	}
	if e := s.reg.entryFor(cpu1); e.enabled {
		t.Errorf("cpu1 should be disabled by sync-play cascade")
	}
	if e := s.reg.entryFor(periph1a); e.enabled {
		t.Errorf("periph1a should be disabled transitively")
	}
	if h1.exitCount() == 0 {
		t.Errorf("expected chip 1's handler to observe the sync-play cascade")
	}
}

// TestIdempotentReaddDoesNotDuplicateActivations is §8 property 6's
// end-to-end half: re-adding a clockable already registered must not cause
// it to be scheduled twice in one step.
func TestIdempotentReaddDoesNotDuplicateActivations(t *testing.T) {
	s := New()
	a := newFake("A", 0, 10)
	s.Add(a, -1, true, true)
	s.Add(a, -1, true, true) // idempotent re-add

	entries := s.reg.snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after duplicate Add, got %d", len(entries))
	}
}

// TestMonotoneElapsedTime is §8 property 4.
func TestMonotoneElapsedTime(t *testing.T) {
	s := New()
	a := newFake("A", 0, 1000)
	s.Add(a, -1, true, true)
	s.Start()
	defer s.Stop()

	var last int64
	for i := 0; i < 20; i++ {
		cur := s.ElapsedPS()
		if cur < last {
			t.Fatalf("elapsed time went backwards: %d -> %d", last, cur)
		}
		last = cur
		time.Sleep(time.Millisecond)
	}
}

func TestResetElapsedDoesNotStopClock(t *testing.T) {
	s := New()
	a := newFake("A", 0, 1000)
	s.Add(a, -1, true, true)
	s.Start()
	defer s.Stop()

	time.Sleep(5 * time.Millisecond)
	s.ResetElapsed()
	if s.ElapsedPS() < 0 {
		t.Fatalf("unexpected negative elapsed")
	}
	if s.State() != "running" {
		t.Fatalf("ResetElapsed must not stop the clock, state = %q", s.State())
	}
}

func TestFormattedElapsedMS(t *testing.T) {
	s := New()
	s.totalElapsedPS.Store(1_234_567_890)
	got := s.FormattedElapsedMS()
	want := "0001.234567890"
	if got != want {
		t.Errorf("FormattedElapsedMS() = %q, want %q", got, want)
	}
}
