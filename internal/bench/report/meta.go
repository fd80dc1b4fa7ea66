package report

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// CollectMeta snapshots the environment at run start. Host probes are
// best-effort: on platforms where they fail the fields stay empty and
// the run proceeds.
func CollectMeta(startedAt time.Time) Meta {
	m := Meta{
		RunID:     uuid.New().String(),
		StartedAt: startedAt,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}

	if hostStat, err := host.Info(); err == nil {
		m.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		m.CPUModel = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		m.TotalRAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	return m
}
