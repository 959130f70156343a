//go:build !linux

package affinity

// PinCurrentThread is a no-op outside Linux; SchedSetaffinity has no
// portable equivalent, and the scheduler runs correctly without it (§5's
// single-worker-thread model does not require CPU pinning, only that
// exactly one thread drives the hot loop).
func PinCurrentThread(cpu int) error {
	return nil
}
