// Package demoboard provides a handful of synthetic masterclock.Clockable
// participants — a CPU-class chip and its peripherals — used by the cmd/
// demo binaries instead of wiring a real CPU emulator into every tool.
//
// Grounded on the teacher's own coprocessor worker shape
// (coproc_worker_z80.go et al.: a name, a chip-scoped id, atomic counters,
// a running flag) generalized from "one coprocessor implementation per
// chip family" to "one synthetic implementation reused by every demo".
package demoboard

import (
	"log"
	"sync/atomic"

	"github.com/go-masterclock/masterclock/masterclock"
)

// CPU is a synthetic CPU-class masterclock.Clockable. It never exits on
// its own unless WithExitAfter is given a positive tick count.
type CPU struct {
	masterclock.CPUEmulatorMarker

	name string
	chip int

	hz        atomic.Uint64
	ticks     atomic.Int64
	exitAfter int64
}

// NewCPU constructs a CPU entry for chip id, ticking at hz.
func NewCPU(name string, chip int, hz uint64) *CPU {
	c := &CPU{name: name, chip: chip}
	c.hz.Store(hz)
	return c
}

// WithExitAfter makes the CPU return an ExitToken on its n-th activation,
// for demos that want to exercise the linked-stop cascade.
func (c *CPU) WithExitAfter(n int64) *CPU {
	c.exitAfter = n
	return c
}

func (c *CPU) Name() string { return c.name }

// FrequencyHz implements masterclock.Clockable.
func (c *CPU) FrequencyHz() uint64 { return c.hz.Load() }

// Chip implements masterclock.Clockable.
func (c *CPU) Chip() int { return c.chip }

// SetFrequencyHz changes the CPU's nominal rate; the caller is responsible
// for calling Scheduler.RequestReschedule afterwards, per §6's "the
// participant is expected to call request_reschedule... after a change".
func (c *CPU) SetFrequencyHz(hz uint64) { c.hz.Store(hz) }

// Ticks reports how many activations this CPU has received so far.
func (c *CPU) Ticks() int64 { return c.ticks.Load() }

// OnClockTick implements masterclock.Clockable.
func (c *CPU) OnClockTick() *masterclock.ExitToken {
	n := c.ticks.Add(1)
	if c.exitAfter > 0 && n >= c.exitAfter {
		return &masterclock.ExitToken{Reason: "demoboard: scripted CPU exit"}
	}
	return nil
}

// Peripheral is a synthetic non-CPU-class masterclock.Clockable bound to a
// chip id, standing in for a timer, serial port, or A/D converter.
type Peripheral struct {
	name string
	chip int

	hz    atomic.Uint64
	ticks atomic.Int64
}

// NewPeripheral constructs a peripheral entry for chip id, ticking at hz.
func NewPeripheral(name string, chip int, hz uint64) *Peripheral {
	p := &Peripheral{name: name, chip: chip}
	p.hz.Store(hz)
	return p
}

func (p *Peripheral) Name() string { return p.name }

// FrequencyHz implements masterclock.Clockable.
func (p *Peripheral) FrequencyHz() uint64 { return p.hz.Load() }

// Chip implements masterclock.Clockable.
func (p *Peripheral) Chip() int { return p.chip }

// Ticks reports how many activations this peripheral has received so far.
func (p *Peripheral) Ticks() int64 { return p.ticks.Load() }

// OnClockTick implements masterclock.Clockable. Peripherals in this demo
// package never exit or fault on their own; they only stop via the
// linked-stop policy cascading from their chip's CPU.
func (p *Peripheral) OnClockTick() *masterclock.ExitToken {
	p.ticks.Add(1)
	return nil
}

// LogHandler is a masterclock.CallbackHandler that logs every exit/fault
// through a *log.Logger, mirroring the teacher's practice (audio_chip.go,
// coprocessor_manager.go) of logging directly at the call site rather than
// routing through a second abstraction.
type LogHandler struct {
	Name   string
	Logger *log.Logger
}

// OnNormalExit implements masterclock.CallbackHandler.
func (h *LogHandler) OnNormalExit(reason string) {
	h.logger().Printf("%s: normal exit: %s", h.Name, reason)
}

// OnException implements masterclock.CallbackHandler.
func (h *LogHandler) OnException(err error) {
	h.logger().Printf("%s: fault: %v", h.Name, err)
}

func (h *LogHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}
