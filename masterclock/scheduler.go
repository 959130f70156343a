package masterclock

import "fmt"

// Add registers a clockable (§4.B). Re-adding an already-registered
// clockable re-enables it rather than duplicating it (§8 property 6,
// "idempotent re-add"). callbackChip indexes into the table installed by
// SetCallbackHandlers, or pass -1 for "no callback". Always requests a
// reschedule.
func (s *Scheduler) Add(c Clockable, callbackChip int, enabled, precise bool) {
	s.reg.add(c, callbackChip, enabled, precise)
	s.RequestReschedule()
}

// Remove unregisters c. Absence is not an error. Always requests a
// reschedule.
func (s *Scheduler) Remove(c Clockable) {
	s.reg.remove(c)
	s.RequestReschedule()
}

// Enable turns c's entry on. If c is CPU-class, every peripheral sharing
// its chip id is enabled too, mirroring the registry-level half of the
// linked-stop policy's grouping (§4.B "enable(clockable)").
func (s *Scheduler) Enable(c Clockable) error {
	e := s.reg.entryFor(c)
	if e == nil {
		return fmt.Errorf("masterclock: enable: %w", ErrNotRegistered)
	}
	s.reg.setEnabled(c, true)
	if e.isCPU {
		for _, peripheral := range s.reg.chipEntries(c.Chip(), e) {
			s.reg.setEnabled(peripheral.clockable, true)
		}
	}
	return nil
}

// Disable turns c's entry off, running the full §4.E linked-stop policy
// (chip cascade, and sync-play cascade if enabled).
func (s *Scheduler) Disable(c Clockable) error {
	e := s.reg.entryFor(c)
	if e == nil {
		return fmt.Errorf("masterclock: disable: %w", ErrNotRegistered)
	}
	s.disableEntry(e)
	return nil
}

// RequestReschedule sets the reschedule-requested flag, safe from any
// goroutine at any time (§4.F, §5). The engine honors it between steps,
// never mid-step.
func (s *Scheduler) RequestReschedule() {
	s.reschedule.Store(true)
}

// ResetElapsed zeros total_elapsed_ps without stopping the clock (§4.F).
func (s *Scheduler) ResetElapsed() {
	s.totalElapsedPS.Store(0)
}

// ElapsedPS returns total elapsed virtual time in picoseconds. Safe to call
// from any goroutine; total_elapsed_ps is only ever written by the engine's
// own worker goroutine (§5).
func (s *Scheduler) ElapsedPS() int64 {
	return s.totalElapsedPS.Load()
}

// FormattedElapsedMS renders elapsed time as fixed-width milliseconds,
// "0000.000000000", per §4.F.
func (s *Scheduler) FormattedElapsedMS() string {
	ps := s.ElapsedPS()
	wholeMS := ps / 1_000_000_000
	fracPS := ps % 1_000_000_000
	return fmt.Sprintf("%04d.%09d", wholeMS, fracPS)
}

// SetCallbackHandlers installs the chip-indexed handler table (§4.F, §6).
// Must be called before Start/Run; the table is read-only once the engine
// is running.
func (s *Scheduler) SetCallbackHandlers(handlers []CallbackHandler) {
	s.handlers = handlers
}

// SetSyncPlay toggles cross-chip cascading stop (§4.F, §4.E step 2).
func (s *Scheduler) SetSyncPlay(on bool) {
	s.syncPlay.Store(on)
}

// SyncPlay reports the current sync-play setting.
func (s *Scheduler) SyncPlay() bool {
	return s.syncPlay.Load()
}

// Snapshot renders a short textual diagnostic report of the scheduler's
// externally-observable state — state, sync-play, elapsed time, and how
// many of the registered entries are currently enabled. Grounded on the
// teacher's debug_snapshot.go, generalized from a binary register/memory
// dump to the handful of fields that are safe to read from any goroutine
// without racing the engine's own worker goroutine (the compiled schedule
// itself is deliberately omitted here, since §5 reserves it to the worker
// thread while running).
func (s *Scheduler) Snapshot() string {
	total, enabled := s.reg.counts()
	return fmt.Sprintf("state=%s sync_play=%t elapsed_ms=%s entries=%d/%d enabled",
		s.State(), s.SyncPlay(), s.FormattedElapsedMS(), enabled, total)
}
