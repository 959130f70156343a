package masterclock

import "errors"

// Sentinel errors for API misuse, mirroring the small status-code style the
// teacher uses for MMIO-facing outcomes (COPROC_ERR_*, EXEC_ERR_*) but
// expressed as plain errors since this package is a library, not an MMIO
// device.
var (
	// ErrNotRegistered is returned by operations that require a previously
	// added Clockable (e.g. Enable/Disable on a handle the registry never
	// saw).
	ErrNotRegistered = errors.New("masterclock: clockable not registered")

	// ErrNoClockables is returned by Run when the registry is empty; there
	// is nothing to schedule.
	ErrNoClockables = errors.New("masterclock: no clockables registered")

	// ErrAlreadyRunning is returned by Run when the engine is already in
	// the Running state on another goroutine.
	ErrAlreadyRunning = errors.New("masterclock: already running")
)

// ExitToken's reason string and TickFault implement the §7 error taxonomy surfaced to
// CallbackHandler implementations. ParticipantExit and ParticipantFault are
// participant-local and never propagate to the engine's own caller;
// ScheduleDegenerate is reported through the logger, not a handler, since it
// describes the whole schedule rather than one entry.

// TickFault wraps a panic recovered from a participant's OnClockTick so it
// can be reported via CallbackHandler.OnException without crashing the
// engine's worker goroutine.
type TickFault struct {
	Recovered any
}

func (f *TickFault) Error() string {
	if err, ok := f.Recovered.(error); ok {
		return err.Error()
	}
	return "masterclock: participant tick fault"
}

func (f *TickFault) Unwrap() error {
	if err, ok := f.Recovered.(error); ok {
		return err
	}
	return nil
}
