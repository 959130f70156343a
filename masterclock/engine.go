package masterclock

import (
	"log"
	"runtime"
	"sync/atomic"
)

// engineState mirrors the three states §4.D names: Idle (not running),
// Running, and Stopping (the current iteration finishes, then the engine
// transitions to Idle). Stopping is transient and only ever observed by
// State() briefly around a Stop() call racing the worker goroutine.
type engineState int32

const (
	stateIdle engineState = iota
	stateRunning
	stateStopping
)

// Scheduler is the MasterClock. It owns the participant registry, the
// callback handler table, the compiled schedule, and the timing counters
// (§3 "Scheduler state"). The zero value is not usable; construct with New.
type Scheduler struct {
	reg    *registry
	logger *log.Logger

	handlers []CallbackHandler // read-only during Run, set via SetCallbackHandlers

	state     atomic.Int32
	reschedule atomic.Bool
	syncPlay   atomic.Bool

	totalElapsedPS atomic.Int64

	// schedule, tickPS and stepIndex are only ever touched from the
	// engine's own worker goroutine while Running, per §5's "single
	// dedicated worker thread" model — no lock needed on the hot path.
	schedule  compiledSchedule
	stepIndex int

	done chan struct{} // closed when run() returns, nil while Idle
}

// New constructs an idle Scheduler with an empty registry. Per §3,
// construction happens before the first participant is added.
func New() *Scheduler {
	return &Scheduler{
		reg:    newRegistry(),
		logger: log.Default(),
	}
}

// SetLogger overrides the logger used for ScheduleDegenerate warnings (§7).
// Passing nil silences them.
func (s *Scheduler) SetLogger(l *log.Logger) {
	s.logger = l
}

// State reports the engine's current lifecycle state.
func (s *Scheduler) State() string {
	switch engineState(s.state.Load()) {
	case stateRunning:
		return "running"
	case stateStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// Start transitions Idle -> Running by spawning a worker goroutine that
// calls Run. It is idempotent: a no-op if already running, matching §4.F.
func (s *Scheduler) Start() {
	if !s.state.CompareAndSwap(int32(stateIdle), int32(stateRunning)) {
		return
	}
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		s.run()
	}()
}

// Run executes the engine loop on the calling goroutine, returning once
// Stop is called (or every entry has disabled itself). Use this instead of
// Start when the caller wants to own the worker thread directly — e.g. a
// dedicated goroutine already pinned via runtime.LockOSThread, matching the
// teacher's go cpu.Execute() / go runner.Execute() pattern generalized to a
// synchronous call.
func (s *Scheduler) Run() error {
	if total, _ := s.reg.counts(); total == 0 {
		return ErrNoClockables
	}
	if !s.state.CompareAndSwap(int32(stateIdle), int32(stateRunning)) {
		return ErrAlreadyRunning
	}
	s.run()
	return nil
}

// Stop requests the engine halt after finishing its current step (§5
// "Cancellation: cooperative"). Safe to call from any goroutine; returns
// immediately without waiting for the worker to actually exit. Callers that
// need to wait should watch State() or, if started via Start, simply call
// Start again later once State() reports idle.
func (s *Scheduler) Stop() {
	s.state.CompareAndSwap(int32(stateRunning), int32(stateStopping))
}

// run is the engine's hot loop, implementing §4.D's pseudocode exactly.
func (s *Scheduler) run() {
	defer s.state.Store(int32(stateIdle))

	s.stepIndex = 0
	for engineState(s.state.Load()) != stateIdle {
		if s.reschedule.CompareAndSwap(true, false) {
			entries := s.reg.snapshot()
			s.schedule = compileSchedule(entries, s.logger)
			s.stepIndex = 0
		}

		if len(s.schedule.steps) == 0 {
			// Nothing schedulable (registry empty, or every entry silent).
			s.state.Store(int32(stateIdle))
			return
		}

		haltedMidPeriod := false
		for s.stepIndex = 0; s.stepIndex < len(s.schedule.steps); s.stepIndex++ {
			step := s.schedule.steps[s.stepIndex]
			var pendingDisable []*entry

			for _, e := range step.entries {
				if !e.enabled || e.isFrequencyZero {
					continue
				}
				s.activate(e, &pendingDisable)
			}

			for _, e := range pendingDisable {
				s.disableEntry(e)
			}

			if s.reg.allDisabled() {
				s.state.Store(int32(stateIdle))
				s.rotateAfterHalt()
				return
			}

			s.totalElapsedPS.Add(step.stepDurationPS)

			if engineState(s.state.Load()) == stateStopping {
				haltedMidPeriod = true
				s.state.Store(int32(stateIdle))
				break
			}
			if s.reschedule.Load() {
				haltedMidPeriod = true
				break
			}
		}

		if haltedMidPeriod && engineState(s.state.Load()) == stateIdle {
			s.rotateAfterHalt()
			return
		}
	}
}

// activate invokes one entry's tick, isolating both a returned ExitToken
// and a recovered panic to this entry alone, per §4.D/§7: other entries in
// the same step still run.
func (s *Scheduler) activate(e *entry, pendingDisable *[]*entry) {
	defer func() {
		if r := recover(); r != nil {
			*pendingDisable = append(*pendingDisable, e)
			s.reportException(e, &TickFault{Recovered: r})
		}
	}()

	if tok := e.clockable.OnClockTick(); tok != nil {
		*pendingDisable = append(*pendingDisable, e)
		s.reportNormalExit(e, tok.Reason)
	}
}

func (s *Scheduler) reportNormalExit(e *entry, reason string) {
	if h := s.handlerFor(e); h != nil {
		h.OnNormalExit(reason)
	}
}

func (s *Scheduler) reportException(e *entry, err error) {
	if h := s.handlerFor(e); h != nil {
		h.OnException(err)
	}
}

func (s *Scheduler) handlerFor(e *entry) CallbackHandler {
	if e.callbackChip < 0 || e.callbackChip >= len(s.handlers) {
		return nil
	}
	return s.handlers[e.callbackChip]
}

// rotateAfterHalt rotates the compiled step list left by stepIndex+1 so a
// later restart resumes with the next-due step rather than restarting the
// whole period, per §4.D and the §9 design note on step-list rotation.
func (s *Scheduler) rotateAfterHalt() {
	steps := s.schedule.steps
	if len(steps) == 0 {
		return
	}
	n := (s.stepIndex + 1) % len(steps)
	if n == 0 {
		return
	}
	rotated := make([]executionStep, len(steps))
	copy(rotated, steps[n:])
	copy(rotated[len(steps)-n:], steps[:n])
	s.schedule.steps = rotated
}
