package masterclock

import "testing"

func TestRegistryIdempotentReadd(t *testing.T) {
	r := newRegistry()
	a := newFake("A", 0, 10)

	r.add(a, -1, false, true)
	if e := r.entryFor(a); e == nil || e.enabled {
		t.Fatalf("expected disabled entry after first add")
	}

	r.add(a, -1, true, true)
	if len(r.order) != 1 {
		t.Fatalf("expected exactly one entry after re-add, got %d", len(r.order))
	}
	if e := r.entryFor(a); e == nil || !e.enabled {
		t.Fatalf("expected re-add to enable the existing entry")
	}
}

func TestRegistryRemovePreservesOrder(t *testing.T) {
	r := newRegistry()
	a, b, c := newFake("A", 0, 1), newFake("B", 0, 1), newFake("C", 0, 1)
	r.add(a, -1, true, true)
	r.add(b, -1, true, true)
	r.add(c, -1, true, true)

	r.remove(b)

	snap := r.snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(snap))
	}
	if snap[0].clockable != a || snap[1].clockable != c {
		t.Fatalf("remove did not preserve insertion order of survivors")
	}
}

func TestRegistryRemoveAbsentIsNotError(t *testing.T) {
	r := newRegistry()
	a := newFake("A", 0, 1)
	r.remove(a) // must not panic
	if len(r.order) != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestRegistryChipAndCPUQueries(t *testing.T) {
	r := newRegistry()
	cpu := newCPUFake("CPU0", 0, 100)
	periph1 := newFake("P1", 0, 10)
	periph2 := newFake("P2", 1, 10) // different chip
	r.add(cpu, -1, true, true)
	r.add(periph1, -1, true, true)
	r.add(periph2, -1, true, true)

	cpuEntry := r.entryFor(cpu)
	if !cpuEntry.isCPU {
		t.Fatalf("expected cpu entry to be cached as CPU-class")
	}

	chip0 := r.chipEntries(0, cpuEntry)
	if len(chip0) != 1 || chip0[0].clockable != periph1 {
		t.Fatalf("expected chip 0 peripherals to contain only periph1, got %v", chip0)
	}
}
