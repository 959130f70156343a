package masterclock

// entry is the registry's internal wrapper around a registered Clockable
// (§3 "Entry"). Fields below are only ever touched from the registry's
// mutation methods or the engine's own worker goroutine — never both at
// once, by construction of the snapshot/copy-on-write discipline in
// registry.go.
type entry struct {
	clockable Clockable

	// callbackChip indexes into the scheduler's handler table, or -1 for
	// "no callback".
	callbackChip int

	enabled  bool
	isCPU    bool // cached CPUEmulator presence, see §9
	isPrecise bool

	// frequencyHz and isFrequencyZero are refreshed once per compile (§4.C
	// step 1, "frequency snapshot").
	frequencyHz     uint64
	isFrequencyZero bool

	// counterThreshold is base ticks between two activations. counterValue
	// is a phase offset added to the step index in schedule.go's due test,
	// rescaled (not reset) across reschedules. Nothing advances counterValue
	// as the engine runs, so it stays zero: every compiled period starts with
	// all active entries due, and phase within a period is not carried
	// across a reschedule.
	counterThreshold uint64
	counterValue     uint64
}

func newEntry(c Clockable, callbackChip int, enabled, precise bool) *entry {
	e := &entry{
		clockable:    c,
		callbackChip: callbackChip,
		enabled:      enabled,
		isPrecise:    precise,
	}
	if cpu, ok := c.(CPUEmulator); ok {
		_ = cpu
		e.isCPU = true
	}
	return e
}

// refreshFrequency re-reads the clockable's current frequency and caches
// it, per §4.C step 1.
func (e *entry) refreshFrequency() {
	e.frequencyHz = e.clockable.FrequencyHz()
	e.isFrequencyZero = e.frequencyHz == 0
}

// rescaleThreshold implements §4.C step 4: when an entry already had a
// non-zero counterThreshold, its counterValue is rescaled by the ratio of
// the new threshold to the old one (integer arithmetic, truncating) so that
// phase is approximately preserved across a reschedule.
func (e *entry) rescaleThreshold(newThreshold uint64) {
	if e.counterThreshold != 0 {
		e.counterValue = e.counterValue * newThreshold / e.counterThreshold
	}
	e.counterThreshold = newThreshold
}
