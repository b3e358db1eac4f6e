package querybench

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SysInfo describes the host a benchmark ran on. It is recorded alongside
// archived results so measurements from different machines stay comparable.
type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	info := SysInfo{Arch: runtime.GOARCH}
	if hostStat != nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if len(cpuStat) > 0 {
		totalFreq := 0.0
		for _, c := range cpuStat {
			totalFreq += c.Mhz
		}
		info.CPUCount = len(cpuStat)
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	}
	if vmStat != nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

// Parameters flattens the host stats into the key/value form the archive's
// parameters table stores.
func (s SysInfo) Parameters() map[string]any {
	return map[string]any{
		"arch":     s.Arch,
		"hostname": s.Hostname,
		"platform": s.Platform,
		"cpu":      s.CPUCount,
		"freq":     s.CPUFreq,
		"ram":      s.RAM,
	}
}
