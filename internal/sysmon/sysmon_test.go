package sysmon

import "testing"

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestSampler_ProcessFigures(t *testing.T) {
	s := NewSampler()
	st := s.Sample()
	if st.LogicalCPU < 1 {
		t.Errorf("expected at least one logical CPU, got %d", st.LogicalCPU)
	}
	if s.proc != nil && st.ProcessRSS == 0 {
		t.Error("expected non-zero RSS for the test process")
	}
}
