package status

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
)

// SystemStats is a point-in-time snapshot of host health.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	// CPUTemp is in Celsius; zero when no sensor is readable, which is
	// normal inside containers.
	CPUTemp float64 `json:"cpu_temp"`
}

// ReadSystemStats samples CPU, memory, and temperature. Partial results
// are fine: an unreadable sensor leaves its field zero rather than
// failing the whole snapshot.
func ReadSystemStats(ctx context.Context) (*SystemStats, error) {
	s := &SystemStats{}

	// Interval 0 returns usage since the previous call, which suits a
	// polling reporter.
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	s.MemoryPercent = vm.UsedPercent
	s.MemoryUsedMB = vm.Used / (1 << 20)
	s.MemoryTotalMB = vm.Total / (1 << 20)

	s.CPUTemp = cpuTemperature(ctx)
	return s, nil
}

// cpuTemperature picks the most CPU-looking sensor, or 0 when none read.
func cpuTemperature(ctx context.Context) float64 {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if err != nil || len(temps) == 0 {
		return 0
	}

	for _, t := range temps {
		key := strings.ToLower(t.SensorKey)
		if strings.Contains(key, "cpu") || strings.Contains(key, "coretemp") || strings.Contains(key, "k10temp") {
			return t.Temperature
		}
	}
	return temps[0].Temperature
}
