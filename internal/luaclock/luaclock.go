// Package luaclock implements a masterclock.Clockable whose tick body is a
// user-supplied Lua chunk, for scripting peripherals in integration tests
// and demos without writing Go for every scenario.
//
// Grounded on the teacher's debug_conditions.go, which evaluates
// Lua-scripted breakpoint predicates via github.com/yuin/gopher-lua — one
// *lua.LState per condition, with host state exposed to the script through
// registered Go closures. This package reuses that embedding idiom to
// script a participant's on_clock_tick instead of a breakpoint predicate.
package luaclock

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/go-masterclock/masterclock/masterclock"
)

// Clock is a masterclock.Clockable backed by a Lua chunk. The chunk runs
// once per activation; it may call the host functions "exit(reason)" to
// request disablement and "frequency(hz)" to report a new nominal rate.
type Clock struct {
	mu sync.Mutex

	name string
	chip int

	state *lua.LState
	chunk *lua.FunctionProto

	hz      uint64
	exiting string // set by the "exit" host function, consumed by OnClockTick
}

// New compiles source once and returns a Clock ready to register with a
// Scheduler. hz is the initial frequency the script can override at
// runtime by calling frequency(hz) from within its tick body.
func New(name string, chip int, hz uint64, source string) (*Clock, error) {
	state := lua.NewState()

	chunk, err := state.LoadString(source)
	if err != nil {
		state.Close()
		return nil, fmt.Errorf("luaclock: compile %q: %w", name, err)
	}

	c := &Clock{
		name:  name,
		chip:  chip,
		state: state,
		chunk: chunk.Proto,
		hz:    hz,
	}

	state.SetGlobal("exit", state.NewFunction(c.luaExit))
	state.SetGlobal("frequency", state.NewFunction(c.luaFrequency))

	return c, nil
}

// Close releases the embedded Lua interpreter state.
func (c *Clock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Close()
}

// FrequencyHz implements masterclock.Clockable.
func (c *Clock) FrequencyHz() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hz
}

// Chip implements masterclock.Clockable.
func (c *Clock) Chip() int { return c.chip }

// OnClockTick implements masterclock.Clockable by running the compiled
// chunk once. A script that calls exit(reason) causes this activation to
// return a non-nil ExitToken; the scheduler disables the entry as usual.
func (c *Clock) OnClockTick() *masterclock.ExitToken {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exiting = ""
	fn := c.state.NewFunctionFromProto(c.chunk)
	c.state.Push(fn)
	if err := c.state.PCall(0, 0, nil); err != nil {
		return &masterclock.ExitToken{Reason: fmt.Sprintf("lua error: %v", err)}
	}

	if c.exiting != "" {
		return &masterclock.ExitToken{Reason: c.exiting}
	}
	return nil
}

func (c *Clock) luaExit(l *lua.LState) int {
	c.exiting = l.CheckString(1)
	return 0
}

func (c *Clock) luaFrequency(l *lua.LState) int {
	c.hz = uint64(l.CheckInt64(1))
	return 0
}
