// Package sysmon samples host and process resource usage for the dashboard.
package sysmon

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats is one snapshot of resource usage. Fields that could not be read
// are left at zero.
type Stats struct {
	CPUPercent float64 // host-wide, 0.0 .. 100.0
	MemPercent float64 // host-wide, 0.0 .. 100.0
	ProcessRSS uint64  // resident set size of this process, bytes
	LogicalCPU int
}

// Sampler reads Stats for the current process. The zero value is not
// usable; call NewSampler.
type Sampler struct {
	proc *process.Process
}

// NewSampler binds a sampler to the running process. A sampler whose
// process handle cannot be opened still reports host-wide figures.
func NewSampler() *Sampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		p = nil
	}
	return &Sampler{proc: p}
}

// Sample collects a snapshot. CPU uses interval=0, so the first call after
// start-up measures since boot and later calls measure since the previous
// call.
func (s *Sampler) Sample() Stats {
	var st Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		st.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		st.MemPercent = vmem.UsedPercent
	}
	if n, err := cpu.Counts(true); err == nil {
		st.LogicalCPU = n
	}
	if s.proc != nil {
		if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
			st.ProcessRSS = mi.RSS
		}
	}
	return st
}

var (
	defaultOnce    sync.Once
	defaultSampler *Sampler
)

// Sample collects a snapshot through a process-wide Sampler.
func Sample() Stats {
	defaultOnce.Do(func() { defaultSampler = NewSampler() })
	return defaultSampler.Sample()
}
