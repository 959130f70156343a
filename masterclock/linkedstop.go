package masterclock

import "fmt"

// disableEntry implements §4.E, the linked-stop policy. Disabling any entry
// always disables that entry; disabling a CPU-class entry additionally
// cascades to every peripheral sharing its chip id, and, under sync-play,
// to every other enabled CPU-class entry and its own peripherals in turn.
//
// Grounded on the teacher's coprocessor_manager.StopAll, which walks a
// fixed worker table stopping each one and waiting on its done channel;
// here the "workers" are chip-grouped peripherals and the walk is driven by
// chip id rather than a CPU-type index.
func (s *Scheduler) disableEntry(e *entry) {
	s.reg.setEnabled(e.clockable, false)

	if !e.isCPU {
		return
	}

	chip := e.clockable.Chip()
	for _, peripheral := range s.reg.chipEntries(chip, e) {
		if !peripheral.enabled {
			continue
		}
		s.reg.setEnabled(peripheral.clockable, false)
		s.reportNormalExit(peripheral, fmt.Sprintf("Stopped: chip %d halted", chip))
	}

	if s.syncPlay.Load() {
		s.cascadeSyncPlay(e)
	}
}

// cascadeSyncPlay implements §4.E step 2: under sync-play, every other
// enabled CPU-class entry is stopped too, along with its own peripherals.
func (s *Scheduler) cascadeSyncPlay(stopped *entry) {
	for _, peer := range s.reg.cpuEntries(stopped) {
		if !peer.enabled {
			continue
		}
		s.reportNormalExit(peer, fmt.Sprintf("Sync stop due to %T halting", stopped.clockable))
		s.reg.setEnabled(peer.clockable, false)

		chip := peer.clockable.Chip()
		for _, peripheral := range s.reg.chipEntries(chip, peer) {
			if !peripheral.enabled {
				continue
			}
			s.reg.setEnabled(peripheral.clockable, false)
			s.reportNormalExit(peripheral, fmt.Sprintf("Stopped: chip %d halted", chip))
		}
	}
}
