package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.HeapSys < snap.HeapAlloc {
		t.Errorf("HeapSys %d below HeapAlloc %d", snap.HeapSys, snap.HeapAlloc)
	}
}

func TestMemoryCollector_SysMonotonic(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()

	buf := make([]byte, 1<<20)
	buf[len(buf)-1] = 1

	after := mc.Snapshot()

	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
	_ = buf
}
