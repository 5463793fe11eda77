// Package model defines the value types exchanged between the collectors,
// the aggregator, and the dashboard renderer. Every type is a plain value
// snapshot: built once per tick, passed by copy, never mutated afterwards.
package model

import "time"

// Frequency holds CPU clock information in MHz. Fields are zero when the
// platform cannot report them.
type Frequency struct {
	CurrentMHz float64 `json:"current"`
	MinMHz     float64 `json:"min"`
	MaxMHz     float64 `json:"max"`
}

// CPUInfo aggregates instantaneous CPU usage.
//
// OverallPercent is sampled over a ~1s window; PerCorePercent over a shorter
// ~100ms window, so per-core figures do not sum back to the aggregate on the
// same tick.
type CPUInfo struct {
	OverallPercent float64   `json:"overall_percent"` // 0-100
	PerCorePercent []float64 `json:"per_core_percent"`
	LogicalCores   int       `json:"count"`
	Frequency      Frequency `json:"frequency"`
}

// MemoryInfo captures RAM and swap usage in bytes.
type MemoryInfo struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"percent"`
	SwapTotal   uint64  `json:"swap_total"`
	SwapUsed    uint64  `json:"swap_used"`
}

// DiskIOInfo holds cumulative disk counters since boot. All-zero when the
// OS reports no block devices.
type DiskIOInfo struct {
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`
	ReadCount  uint64 `json:"read_count"`
	WriteCount uint64 `json:"write_count"`
}

// NetworkInfo holds cumulative network counters since boot. All-zero when
// the OS reports no interfaces.
type NetworkInfo struct {
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

// TemperatureInfo carries thermal readings from the external helper tools.
// Available gates whether the remaining fields are meaningful; a nil pointer
// means "unknown", which is distinct from a valid 0°C reading.
//
// GPUTemp, BatteryTemp and Sensors are reserved: neither helper's output is
// parsed for them, so they are always nil. Known limitation, not a bug.
type TemperatureInfo struct {
	Available   bool               `json:"available"`
	CPUTemp     *float64           `json:"cpu_temp"`
	GPUTemp     *float64           `json:"gpu_temp"`
	BatteryTemp *float64           `json:"battery_temp"`
	Sensors     map[string]float64 `json:"sensors"`
}

// ProcessRecord describes one process at the moment of enumeration. Records
// are ephemeral: no identity persists across snapshots.
type ProcessRecord struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"` // informational; may exceed 100 across cores
	MemoryPercent float64 `json:"memory_percent"`
	MemoryBytes   uint64  `json:"memory_bytes"` // RSS
	Status        string  `json:"status"`
	Owner         string  `json:"username"`
	Cmdline       string  `json:"cmdline"`
}

// Snapshot is the immutable aggregate of all metrics produced by one tick.
// A nil pointer (or nil Processes slice) is the explicit "unavailable"
// marker for that panel; the other fields stay independently valid.
type Snapshot struct {
	Timestamp   time.Time        `json:"timestamp"`
	CPU         *CPUInfo         `json:"cpu"`
	Memory      *MemoryInfo      `json:"memory"`
	DiskIO      *DiskIOInfo      `json:"disk_io"`
	Network     *NetworkInfo     `json:"network"`
	Temperature *TemperatureInfo `json:"temperature"`
	Processes   []ProcessRecord  `json:"processes"`
}
