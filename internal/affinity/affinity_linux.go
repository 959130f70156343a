//go:build linux

// Package affinity optionally pins the calling OS thread to a single CPU,
// for the scheduler's worker thread (§5: "a single dedicated worker
// thread"). Grounded on runtime_helpers.go's use of OS-level thread
// control for the teacher's own hot loops; generalized here from whatever
// thread-priority tweak the teacher applies to an explicit CPU pin via
// golang.org/x/sys/unix, which the teacher's go.mod pulls in only
// indirectly (via ebiten/term/clipboard) until this package exercises it
// directly.
package affinity

import "golang.org/x/sys/unix"

// PinCurrentThread restricts the calling OS thread's scheduling affinity
// to a single CPU. The caller must have already called
// runtime.LockOSThread, or the affinity will apply to whichever OS thread
// happens to be running the calling goroutine at the moment of the call.
func PinCurrentThread(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
