package main

import "github.com/go-masterclock/masterclock/masterclock"

// recordingPeripheral forwards every activation to a shared events channel
// (non-blocking; a full channel simply drops the event, since this is a
// visualization aid and must never add backpressure to the engine's hot
// loop) before delegating to the wrapped Clockable.
type recordingPeripheral struct {
	inner  masterclock.Clockable
	events chan<- tickEvent
}

func wrapPeripheral(inner masterclock.Clockable, events chan<- tickEvent) masterclock.Clockable {
	return &recordingPeripheral{inner: inner, events: events}
}

func (r *recordingPeripheral) FrequencyHz() uint64 { return r.inner.FrequencyHz() }
func (r *recordingPeripheral) Chip() int           { return r.inner.Chip() }

func (r *recordingPeripheral) OnClockTick() *masterclock.ExitToken {
	tok := r.inner.OnClockTick()
	select {
	case r.events <- tickEvent{chip: r.inner.Chip()}:
	default:
	}
	return tok
}

// recordingCPU is recordingPeripheral plus the CPUEmulator marker, so a
// wrapped CPU-class participant still triggers the linked-stop cascade.
type recordingCPU struct {
	recordingPeripheral
	masterclock.CPUEmulatorMarker
}

func wrapCPU(inner masterclock.Clockable, events chan<- tickEvent) masterclock.Clockable {
	return &recordingCPU{recordingPeripheral: recordingPeripheral{inner: inner, events: events}}
}
